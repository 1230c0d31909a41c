package printer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAddress is returned when a job names no printer.
	ErrNoAddress = errors.New("printer: address is required")
	// ErrNotReady is recorded when a liveness probe reports the printer as down without an error.
	ErrNotReady = errors.New("printer: not ready")
)

// ConnectionError reports that a printer could not be reached after every
// liveness attempt.
type ConnectionError struct {
	Address  string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("No se pudo establecer conexión con la impresora %s después de %d intentos", e.Address, e.Attempts)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// FlushError reports that a composed document could not be delivered.
type FlushError struct {
	Address string
	Err     error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("Error al enviar el documento a la impresora %s: %v", e.Address, e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}
