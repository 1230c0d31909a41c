package apperror

import (
	"errors"
	"net/http"
)

// AppError is a request-level failure with the HTTP status it maps to.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Recurso no encontrado"}
	ErrTooManyRequest = &AppError{Code: http.StatusTooManyRequests, Message: "Demasiadas solicitudes, intente de nuevo"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Error interno del servidor"}
	ErrBodyTooLarge   = &AppError{Code: http.StatusRequestEntityTooLarge, Message: "El cuerpo de la solicitud es demasiado grande"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewInvalidBodyError reports a request body that could not be decoded.
// Print clients expect these as 500 responses.
func NewInvalidBodyError(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Cuerpo de solicitud inválido",
		Err:     err,
	}
}

// NewMissingDataError reports a request without its data envelope.
func NewMissingDataError() *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "No se recibieron datos para imprimir",
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
		Err:     err,
	}
}
