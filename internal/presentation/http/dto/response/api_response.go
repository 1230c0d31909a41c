package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/pos-print-server/internal/application/service"
	"github.com/sangkips/pos-print-server/pkg/apperror"
)

// JobIDHeader carries the print job identifier back to the client.
const JobIDHeader = "X-Print-Job-ID"

// PrintResponse is the envelope of every print endpoint
type PrintResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// StatusResponse is the envelope of the printer status endpoint
type StatusResponse struct {
	Success   bool   `json:"success"`
	Connected bool   `json:"connected"`
	IP        string `json:"ip,omitempty"`
	Message   string `json:"message,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Print sends a job result. Printer failures are still 200 responses.
func Print(c *gin.Context, res service.Result) {
	if res.JobID != "" {
		c.Header(JobIDHeader, res.JobID)
	}
	c.JSON(http.StatusOK, PrintResponse{
		Success:   res.Success,
		Message:   res.Message,
		ErrorKind: string(res.Kind),
	})
}

// Status sends a printer status result
func Status(c *gin.Context, res service.StatusResult) {
	c.JSON(http.StatusOK, StatusResponse{
		Success:   res.Success,
		Connected: res.Connected,
		IP:        res.IP,
		Message:   res.Message,
	})
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	_ = c.Error(err)
	c.JSON(appErr.Code, PrintResponse{
		Success: false,
		Message: appErr.Message,
	})
}

// AbortWithError is Error for middleware
func AbortWithError(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Code, PrintResponse{
		Success: false,
		Message: appErr.Message,
	})
}
