package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/pos-print-server/internal/application/service"
	"github.com/sangkips/pos-print-server/internal/domain/entity"
	"github.com/sangkips/pos-print-server/internal/infrastructure/logger"
	"github.com/sangkips/pos-print-server/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-print-server/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-print-server/internal/presentation/http/middleware"
	"github.com/sangkips/pos-print-server/pkg/apperror"
)

// PrintService is what PrinterHandler needs from the print pipeline.
type PrintService interface {
	PrintPreBill(ctx context.Context, ip string, p *entity.PreBill) service.Result
	PrintKitchenTicket(ctx context.Context, ip string, k *entity.KitchenTicket) service.Result
	PrintCashRegisterClosing(ctx context.Context, ip string, c *entity.CashRegisterClosing, withDetail bool) service.Result
	PrintDailyClosing(ctx context.Context, ip string, d *entity.DailyClosing) service.Result
	PrintVoidedOrders(ctx context.Context, ip string, v *entity.VoidedOrderReport) service.Result
	PrintInvoice(ctx context.Context, ip string, e *entity.ElectronicInvoice) service.Result
	OpenCashDrawer(ctx context.Context, ip string) service.Result
	Status(ctx context.Context, ip string) service.StatusResult
}

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService PrintService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService PrintService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// PrintPreBill prints the pre-bill handed to a table before payment.
func (h *PrinterHandler) PrintPreBill(c *gin.Context) {
	var req request.PreBillRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Data == nil {
		response.Error(c, apperror.NewMissingDataError())
		return
	}
	res := h.printerService.PrintPreBill(jobContext(c), req.Data.PrinterIP.String(), &req.Data.PreBill)
	response.Print(c, res)
}

// PrintKitchenTicket prints a kitchen order ticket.
func (h *PrinterHandler) PrintKitchenTicket(c *gin.Context) {
	var req request.KitchenTicketRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Data == nil {
		response.Error(c, apperror.NewMissingDataError())
		return
	}
	res := h.printerService.PrintKitchenTicket(jobContext(c), req.Data.PrinterIP.String(), req.Data.Data)
	response.Print(c, res)
}

// PrintCashClosing prints the cash register closing, optionally with the
// order detail.
func (h *PrinterHandler) PrintCashClosing(c *gin.Context) {
	var req request.CashClosingRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Data == nil {
		response.Error(c, apperror.NewMissingDataError())
		return
	}
	res := h.printerService.PrintCashRegisterClosing(
		jobContext(c),
		req.Data.PrinterIP.String(),
		req.Data.Data,
		bool(req.Data.ConDetalle),
	)
	response.Print(c, res)
}

func (h *PrinterHandler) PrintDailyClosing(c *gin.Context) {
	var req request.DailyClosingRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Data == nil {
		response.Error(c, apperror.NewMissingDataError())
		return
	}
	res := h.printerService.PrintDailyClosing(jobContext(c), req.Data.PrinterIP.String(), &req.Data.DailyClosing)
	response.Print(c, res)
}

func (h *PrinterHandler) PrintVoidedOrders(c *gin.Context) {
	var req request.VoidedOrdersRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Data == nil {
		response.Error(c, apperror.NewMissingDataError())
		return
	}
	res := h.printerService.PrintVoidedOrders(jobContext(c), req.Data.PrinterIP.String(), req.Data.Data)
	response.Print(c, res)
}

func (h *PrinterHandler) PrintInvoice(c *gin.Context) {
	var req request.InvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Data == nil {
		response.Error(c, apperror.NewMissingDataError())
		return
	}
	res := h.printerService.PrintInvoice(jobContext(c), req.Data.PrinterIP.String(), &req.Data.ElectronicInvoice)
	response.Print(c, res)
}

// OpenCashDrawer kicks the cash drawer wired to the printer.
func (h *PrinterHandler) OpenCashDrawer(c *gin.Context) {
	var req request.CashDrawerRequest
	if !bindJSON(c, &req) {
		return
	}
	response.Print(c, h.printerService.OpenCashDrawer(jobContext(c), req.PrinterIP.String()))
}

// GetStatus reports whether the printer at :ip answers.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.Status(c, h.printerService.Status(jobContext(c), c.Param("ip")))
}

func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	middleware.GetLogger(c).Warn("rejected print request", zap.String("path", c.FullPath()), zap.Error(err))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, apperror.ErrBodyTooLarge)
		return false
	}
	response.Error(c, apperror.NewInvalidBodyError(err))
	return false
}

// jobContext tags the request context with the request ID so print job logs
// can be correlated with the HTTP request log.
func jobContext(c *gin.Context) context.Context {
	return logger.WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
}
