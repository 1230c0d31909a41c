package receipt

import (
	"github.com/sangkips/pos-print-server/internal/domain/entity"
	"github.com/sangkips/pos-print-server/pkg/printer"
)

// QR settings for the tax authority verification link.
const (
	qrCellSize   = 7
	qrCorrection = printer.QRCorrectionM
)

// Invoice composes the customer copy of an electronic tax document.
func (f *Formatter) Invoice(doc *printer.Document, e *entity.ElectronicInvoice) {
	e.Normalize()
	em, id, rc, sum := e.Emisor, e.Identificacion, e.Receptor, e.Resumen

	// Header
	doc.SetAlign(printer.AlignCenter).SetBold(true).SetTextSize(1, 1)
	doc.Text(string(em.NombreComercial))
	doc.SetTextSize(0, 0).SetBold(false)
	if em.Telefono != "" {
		doc.Text("Tel: " + string(em.Telefono))
	}
	doc.Text(em.Direccion.String())
	doc.Separator('-')

	// Identification
	doc.SetAlign(printer.AlignCenter).SetBold(true)
	doc.Text("DOCUMENTO TRIBUTARIO ELECTRÓNICO")
	doc.Text(string(e.NombreFactura))
	doc.SetBold(false).SetAlign(printer.AlignLeft)
	doc.Text("Código de Generación:")
	doc.Text(string(id.CodigoGeneracion))
	doc.Text("Número de Control:")
	doc.Text(string(id.NumeroControl))
	doc.Text("Sello: " + string(e.SelloRecibido))
	doc.Text("Número de Orden: " + string(e.NumeroOrden))
	doc.Text("Fecha: " + string(id.FecEmi) + " " + string(id.HorEmi))
	doc.Separator('-')

	// Issuer
	doc.SetBold(true).Text("EMISOR").SetBold(false)
	doc.Text("NIT: " + string(em.NIT))
	doc.Text("NRC: " + string(em.NRC))
	doc.Text("Actividad económica: " + string(em.DescActividad))
	doc.Text("Número de teléfono: " + string(em.Telefono))
	doc.Text("Correo electrónico: " + string(em.Correo))
	doc.Text("Nombre Comercial: " + string(em.NombreComercial))
	doc.Text("Tipo de establecimiento: " + string(em.TipoEstablecimiento))
	doc.Separator('-')

	// Recipient
	doc.SetBold(true).Text("RECEPTOR").SetBold(false)
	doc.Text("Nombre: " + string(rc.Nombre))
	if e.Type().RequiresRecipientNIT() {
		doc.Text("NIT: " + string(rc.NIT))
	} else if rc.NumDocumento != nil {
		doc.Text("Doc: " + string(*rc.NumDocumento))
	}
	optionalLine(doc, "NRC: ", string(rc.NRC))
	optionalLine(doc, "Actividad: ", string(rc.DescActividad))
	optionalLine(doc, "Dirección: ", rc.Direccion.String())
	optionalLine(doc, "Teléfono: ", string(rc.Telefono))
	optionalLine(doc, "Correo: ", string(rc.Correo))
	doc.Separator('-')

	// Items
	doc.SetBold(true)
	itemHeader(doc, "Cant", "Descripción", "P.Unit", "Total")
	doc.SetBold(false)
	for _, item := range e.CuerpoDocumento {
		if !item.Printable() {
			continue
		}
		itemHeader(doc,
			string(item.Cantidad),
			string(item.Descripcion),
			FormatCurrency(item.PrecioUni),
			FormatCurrency(item.LineTotal()),
		)
	}
	doc.Separator('-')

	// Totals
	doc.SetAlign(printer.AlignRight)
	doc.Text("Subtotal: " + Money(sum.SubTotalVentas))
	doc.Text("Propina: " + Money(sum.TotalNoGravado))
	if sum.DescuGravada.IsPositive() {
		doc.Text("Descuento: " + Money(sum.DescuGravada))
	}
	for _, tax := range sum.Tributos {
		doc.Text(string(tax.Descripcion) + ": " + Money(tax.Valor))
	}
	doc.SetBold(true).SetTextSize(1, 1)
	doc.Text("TOTAL: " + Money(sum.TotalPagar))
	doc.SetTextSize(0, 0).SetBold(false)
	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter)
	doc.Text("Total en letras:")
	doc.Text(string(sum.TotalLetras))
	doc.Separator('-')

	if e.HasQR() {
		doc.QR(string(e.QRTicket), qrCellSize, qrCorrection)
	}

	doc.LineFeed()
	doc.SetBold(true).Text("Gracias por su compra").SetBold(false)

	if e.Environment().IsTest() {
		doc.SetTextSize(1, 1)
		doc.Text("Documento de prueba")
		doc.Text("No tiene validez")
		doc.SetTextSize(0, 0)
		doc.FeedLines(2)
	}

	finish(doc)
}

func optionalLine(doc *printer.Document, label, value string) {
	if value == "" {
		return
	}
	doc.Text(label + value)
}

// DrawerPulse is the raw kick-out command sent after the standard drawer
// command, for drawers wired to printers that ignore the latter.
var DrawerPulse = []byte{0x1B, 0x70, 0x00, 0x19, 0xFA}

// CashDrawer composes the standard open-drawer command.
func (f *Formatter) CashDrawer(doc *printer.Document) {
	doc.OpenCashDrawer()
}

// CashDrawerPulse composes the secondary raw pulse.
func (f *Formatter) CashDrawerPulse(doc *printer.Document) {
	doc.Raw(DrawerPulse)
}
