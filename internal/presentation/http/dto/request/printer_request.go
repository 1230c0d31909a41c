package request

import (
	"github.com/sangkips/pos-print-server/internal/domain/entity"
)

// PreBillRequest is the body of POST /print/precuenta.
type PreBillRequest struct {
	Data *PreBillPayload `json:"data"`
}

type PreBillPayload struct {
	entity.PreBill
	PrinterIP entity.Text `json:"printerIp"`
}

// KitchenTicketRequest is the body of POST /print/comanda.
type KitchenTicketRequest struct {
	Data *KitchenTicketPayload `json:"data"`
}

type KitchenTicketPayload struct {
	Data      *entity.KitchenTicket `json:"data"`
	PrinterIP entity.Text           `json:"printerIp"`
}

// CashClosingRequest is the body of POST /print/cierre-caja.
type CashClosingRequest struct {
	Data *CashClosingPayload `json:"data"`
}

type CashClosingPayload struct {
	Data       *entity.CashRegisterClosing `json:"data"`
	ConDetalle entity.Flag                 `json:"con_detalle"`
	PrinterIP  entity.Text                 `json:"printerIp"`
}

// DailyClosingRequest is the body of POST /print/cierre-diario.
type DailyClosingRequest struct {
	Data *DailyClosingPayload `json:"data"`
}

type DailyClosingPayload struct {
	entity.DailyClosing
	PrinterIP entity.Text `json:"printerIp"`
}

// VoidedOrdersRequest is the body of POST /print/anulados.
type VoidedOrdersRequest struct {
	Data *VoidedOrdersPayload `json:"data"`
}

type VoidedOrdersPayload struct {
	Data      *entity.VoidedOrderReport `json:"data"`
	PrinterIP entity.Text               `json:"printerIp"`
}

// InvoiceRequest is the body of POST /print/factura-electronica.
type InvoiceRequest struct {
	Data *InvoicePayload `json:"data"`
}

type InvoicePayload struct {
	entity.ElectronicInvoice
	PrinterIP entity.Text `json:"printerIp"`
}

// CashDrawerRequest is the body of POST /print/abrir-cajon.
type CashDrawerRequest struct {
	PrinterIP entity.Text `json:"printerIp"`
}
