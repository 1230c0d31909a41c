package entity

import (
	"fmt"
	"strings"

	"github.com/sangkips/pos-print-server/internal/domain/enum"
)

// Receipts are value objects decoded from the POS payload at print time.
// Nothing here is persisted.

// Employee is the user attached to an order or a closing.
type Employee struct {
	Nombres   Text `json:"nombres"`
	Apellidos Text `json:"apellidos"`
}

// FullName returns "nombres apellidos", trimmed. A nil employee has no name.
func (e *Employee) FullName() string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(string(e.Nombres) + " " + string(e.Apellidos))
}

// DiningTable is the table an order was served at.
type DiningTable struct {
	Numero Text `json:"numero"`
}

// Discount is the discount rule applied to an order.
type Discount struct {
	Porcentaje Amount `json:"porcentaje"`
}

// LineItem is one ordered product.
type LineItem struct {
	Cantidad       Text      `json:"cantidad"`
	Nombre         Text      `json:"nombre"`
	PrecioUnitario Amount    `json:"precio_unitario"`
	PrecioTotal    Amount    `json:"precio_total"`
	Comentario     Text      `json:"comentario"`
	Motivo         Text      `json:"motivo"`
	FechaCreacion  Timestamp `json:"fecha_creacion"`
}

// Normalize fills defaults for missing fields.
func (i *LineItem) Normalize() {
	if strings.TrimSpace(string(i.Cantidad)) == "" {
		i.Cantidad = "0"
	}
	i.Nombre = Text(strings.TrimSpace(string(i.Nombre)))
	i.Comentario = Text(strings.TrimSpace(string(i.Comentario)))
}

// Payment is one tender applied to an order.
type Payment struct {
	TipoPago      Text      `json:"tipo_pago"`
	Monto         Amount    `json:"monto"`
	POS           Text      `json:"pos"`
	Motivo        Text      `json:"motivo"`
	FechaCreacion Timestamp `json:"fecha_creacion"`
}

// Method returns the tender type.
func (p Payment) Method() enum.PaymentMethod {
	return enum.ParsePaymentMethod(string(p.TipoPago))
}

// IsCash reports whether the payment is in cash, the only tender that gives change.
func (p Payment) IsCash() bool {
	return p.Method() == enum.PaymentMethodCash
}

// DataError reports a payload that cannot be printed at all. Missing
// optional fields never produce one; they are defaulted.
type DataError struct {
	Field  string
	Reason string
}

func (e *DataError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func normalizeItems(items []LineItem) {
	for i := range items {
		items[i].Normalize()
	}
}
