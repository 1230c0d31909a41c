package entity

import (
	"github.com/sangkips/pos-print-server/internal/domain/enum"
)

// PreBill is the check presented to the table before payment.
type PreBill struct {
	NombreComercial Text         `json:"nombre_comercial"`
	Direccion       Text         `json:"direccion"`
	Usuarios        *Employee    `json:"Usuarios"`
	NumeroPersonas  Text         `json:"numero_personas"`
	Mesa            *DiningTable `json:"Mesa"`
	LugarOrigen     Text         `json:"lugar_origen"`
	NumeroOrden     Text         `json:"numero_orden"`
	FechaCreacion   Text         `json:"fecha_creacion"`
	Estado          Text         `json:"estado"`

	Items     []LineItem `json:"OrdenesDeRestauranteDetalle"`
	Payments  []Payment  `json:"OrdenesHistorialPago"`
	Descuento *Discount  `json:"Descuento"`

	MontoDescuento Amount `json:"monto_descuento"`
	Subtotal       Amount `json:"subtotal"`
	Propina        Amount `json:"propina"`
	Total          Amount `json:"total"`
	MontoCambio    Amount `json:"monto_cambio"`
}

// Normalize fills defaults for missing fields.
func (p *PreBill) Normalize() {
	if p.Usuarios == nil {
		p.Usuarios = &Employee{}
	}
	normalizeItems(p.Items)
}

// Origin returns where the order was placed.
func (p *PreBill) Origin() enum.OrderOrigin {
	return enum.ParseOrderOrigin(string(p.LugarOrigen))
}

// HasCashPayment reports whether any payment was made in cash.
func (p *PreBill) HasCashPayment() bool {
	for _, pay := range p.Payments {
		if pay.IsCash() {
			return true
		}
	}
	return false
}

// KitchenTicket is the order as sent to the kitchen.
type KitchenTicket struct {
	LugarOrigen Text         `json:"lugar_origen"`
	NumeroOrden Text         `json:"numero_orden"`
	Mesa        *DiningTable `json:"Mesa"`
	Cliente     Text         `json:"cliente"`
	Usuarios    *Employee    `json:"Usuarios"`
	Items       []LineItem   `json:"detalleItems"`
}

// Normalize fills defaults for missing fields.
func (k *KitchenTicket) Normalize() {
	if k.Usuarios == nil {
		k.Usuarios = &Employee{}
	}
	if k.Mesa == nil {
		k.Mesa = &DiningTable{}
	}
	normalizeItems(k.Items)
}

// Origin returns where the order was placed.
func (k *KitchenTicket) Origin() enum.OrderOrigin {
	return enum.ParseOrderOrigin(string(k.LugarOrigen))
}

// LastItemTime returns the creation time of the last item that carries one.
func (k *KitchenTicket) LastItemTime() (Timestamp, bool) {
	for i := len(k.Items) - 1; i >= 0; i-- {
		if ts := k.Items[i].FechaCreacion; ts.Valid() {
			return ts, true
		}
	}
	return Timestamp{}, false
}

// VoidedOrderReport lists what was cancelled from an order.
type VoidedOrderReport struct {
	LugarOrigen     Text         `json:"lugar_origen"`
	NombreComercial Text         `json:"nombre_comercial"`
	Direccion       Text         `json:"direccion"`
	Usuarios        *Employee    `json:"Usuarios"`
	NumeroPersonas  Text         `json:"numero_personas"`
	Mesa            *DiningTable `json:"Mesa"`
	NumeroOrden     Text         `json:"numero_orden"`

	Items    []LineItem `json:"OrdenesDetalleEliminados"`
	Payments []Payment  `json:"OrdenesHistorialPagoEliminados"`
}

// DefaultVoidReason is printed for voided lines sent without a reason.
const DefaultVoidReason = "Sin motivo especificado"

// Normalize fills defaults for missing fields.
func (v *VoidedOrderReport) Normalize() {
	if v.Usuarios == nil {
		v.Usuarios = &Employee{}
	}
	normalizeItems(v.Items)
	for i := range v.Items {
		if v.Items[i].Motivo.Or("") == "" {
			v.Items[i].Motivo = DefaultVoidReason
		}
	}
	for i := range v.Payments {
		if v.Payments[i].Motivo.Or("") == "" {
			v.Payments[i].Motivo = DefaultVoidReason
		}
	}
}

// Origin returns where the order was placed.
func (v *VoidedOrderReport) Origin() enum.OrderOrigin {
	return enum.ParseOrderOrigin(string(v.LugarOrigen))
}
