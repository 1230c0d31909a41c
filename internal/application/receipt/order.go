package receipt

import (
	"strings"

	"github.com/sangkips/pos-print-server/internal/domain/entity"
	"github.com/sangkips/pos-print-server/internal/domain/enum"
	"github.com/sangkips/pos-print-server/pkg/printer"
)

// PreBill composes the check presented to the table.
func (f *Formatter) PreBill(doc *printer.Document, p *entity.PreBill) {
	p.Normalize()

	// Header
	doc.SetAlign(printer.AlignCenter).SetBold(true).SetTextSize(1, 1)
	doc.Text(string(p.NombreComercial))
	doc.SetBold(false).SetTextSize(0, 0)
	doc.Text(string(p.Direccion))
	doc.Separator('-')

	doc.SetAlign(printer.AlignLeft)
	doc.Text("Emp. " + p.Usuarios.FullName())
	guestsAndTable(doc, p.NumeroPersonas, p.Mesa)
	doc.LineFeed()
	doc.Separator('-')

	// Items
	doc.SetBold(true)
	itemHeader(doc, "Cant.", "Descripción", "Precio", "Total")
	doc.SetBold(false)
	for _, item := range p.Items {
		itemRow(doc, item)
	}
	doc.Separator('-')

	// Totals
	if p.Descuento != nil {
		doc.KeyValue("Descuento:", "-"+Money(p.MontoDescuento)+" ("+FormatPercent(p.Descuento.Porcentaje)+"%)")
	}
	doc.KeyValue("Subtotal:", Money(p.Subtotal))
	doc.KeyValue(GratuityLabel, Money(p.Propina))

	doc.SetTextSize(1, 1)
	doc.Text(padBetween("Total:", Money(p.Total), doc.Width()/2))
	doc.SetTextSize(0, 0)

	doc.KeyValue("ESTADO:", string(p.Estado))
	doc.Separator('-')

	// Payments
	delivery := p.Origin().IsDelivery()
	for _, pay := range p.Payments {
		if delivery {
			doc.KeyValue(string(p.LugarOrigen), Money(pay.Monto))
			continue
		}
		doc.KeyValue(paymentLabel(pay), Money(pay.Monto))
	}

	if f.showChange(p) {
		doc.Separator('-')
		doc.KeyValue("Cambio:", Money(p.MontoCambio))
		doc.Separator('-')
	}

	// Footer
	doc.Separator('-')
	doc.SetAlign(printer.AlignCenter)
	doc.Text("¡Gracias por su visita!")
	doc.SetBold(true).Text("ORDEN #: " + string(p.NumeroOrden)).SetBold(false)
	doc.Text("Fecha: " + string(p.FechaCreacion))

	finish(doc)
}

func (f *Formatter) showChange(p *entity.PreBill) bool {
	if !p.HasCashPayment() {
		return false
	}
	return f.alwaysShowChange || p.MontoCambio.IsPositive()
}

// paymentLabel is the tender name, with the card terminal when there is one.
func paymentLabel(pay entity.Payment) string {
	label := string(pay.TipoPago)
	if pay.Method() == enum.PaymentMethodCard && trimmed(pay.POS) != "" {
		label += " (" + trimmed(pay.POS) + ")"
	}
	return label
}

// KitchenTicket composes the order ticket for the kitchen printer. The
// ticket is printed large so it can be read from a distance.
func (f *Formatter) KitchenTicket(doc *printer.Document, k *entity.KitchenTicket) {
	k.Normalize()
	restaurant := k.Origin() == enum.OrderOriginRestaurant

	doc.SetTextSize(1, 1).SetAlign(printer.AlignLeft)
	doc.Text(strings.TrimSpace(originHeading(string(k.LugarOrigen)) + " ORDEN #: " + string(k.NumeroOrden)))
	if restaurant {
		doc.Text("Mesa " + string(k.Mesa.Numero))
	} else {
		doc.Text(string(k.Cliente))
	}
	doc.Text("EMPLEADO: " + k.Usuarios.FullName())
	shortRule(doc)

	for _, item := range k.Items {
		doc.Text("(" + string(item.Cantidad) + ") " + string(item.Nombre))
		if item.Comentario != "" {
			doc.Text("  - " + string(item.Comentario))
		}
		shortRule(doc)
	}

	if ts, ok := k.LastItemTime(); ok {
		doc.Text(f.Timestamp(ts))
	} else {
		doc.Text(f.nowStamp())
	}

	finish(doc)
	doc.Beep(3, 3)
}

func shortRule(doc *printer.Document) {
	doc.ShortSeparator('-').LineFeed()
}

// VoidedOrder composes the report of items and payments removed from an order.
func (f *Formatter) VoidedOrder(doc *printer.Document, v *entity.VoidedOrderReport) {
	v.Normalize()

	// Header
	doc.SetAlign(printer.AlignCenter)
	doc.Text(originHeading(string(v.LugarOrigen)))
	doc.SetBold(true).SetTextSize(1, 1)
	doc.Text("REPORTE DE ANULACIONES")
	doc.Text(string(v.NombreComercial))
	doc.SetBold(false).SetTextSize(0, 0)
	doc.Text(string(v.Direccion))
	doc.Separator('-')

	doc.SetAlign(printer.AlignLeft)
	doc.Text("Emp. " + v.Usuarios.FullName())
	guestsAndTable(doc, v.NumeroPersonas, v.Mesa)
	doc.LineFeed()
	doc.Separator('-')

	// Items
	doc.SetBold(true)
	doc.Text("ITEMS ANULADOS")
	itemHeader(doc, "Cant.", "Descripción", "Precio", "Total")
	doc.SetBold(false)
	for _, item := range v.Items {
		itemRow(doc, item)
		doc.Text("Motivo: " + string(item.Motivo))
		doc.Text("Fecha: " + f.Timestamp(item.FechaCreacion))
		doc.Separator('-')
	}

	// Payments
	if len(v.Payments) > 0 {
		doc.SetBold(true).Text("PAGOS ANULADOS").SetBold(false)
		for _, pay := range v.Payments {
			label := string(pay.TipoPago)
			if pos := trimmed(pay.POS); pos != "" {
				label += " (" + pos + ")"
			}
			doc.KeyValue(label, Money(pay.Monto))
			doc.Text("Motivo: " + string(pay.Motivo))
			doc.Text("Fecha: " + f.Timestamp(pay.FechaCreacion))
			doc.Separator('-')
		}
	}

	doc.SetAlign(printer.AlignCenter)
	doc.SetBold(true).Text("ORDEN #: " + string(v.NumeroOrden)).SetBold(false)
	doc.Text("Fecha del reporte: " + f.nowStamp())

	// Signatures
	doc.FeedLines(2)
	doc.Separator('-')
	doc.Text("RESPONSABLE DE ANULACIÓN")
	doc.Text(v.Usuarios.FullName())
	doc.LineFeed()
	doc.Text(signatureLine)
	doc.Text("Firma")

	doc.FeedLines(2)
	doc.Separator('-')
	doc.Text("AUTORIZADO POR")
	doc.LineFeed()
	doc.Text(signatureLine)
	doc.Text("Nombre y Firma")
	doc.LineFeed()

	doc.Separator('-')
	doc.SetAlign(printer.AlignLeft)
	doc.Text("Observaciones:")
	for i := 0; i < 3; i++ {
		doc.Text(signatureLine)
	}

	finish(doc)
}

const signatureLine = "_______________________"

// padBetween joins left and right with enough spaces to fill width.
func padBetween(left, right string, width int) string {
	gap := width - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// FormatPercent renders a percentage without trailing zeros.
func FormatPercent(a entity.Amount) string {
	if !a.IsNumeric() {
		return a.Raw
	}
	return a.Value.String()
}
