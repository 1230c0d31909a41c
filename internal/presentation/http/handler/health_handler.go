package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/pos-print-server/internal/presentation/http/dto/response"
)

type HealthHandler struct {
	serviceName string
}

func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName}
}

// Health reports that the server is up. It does not touch any printer.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.HealthResponse{Status: "ok", Service: h.serviceName})
}
