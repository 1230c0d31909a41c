package receipt

import (
	"github.com/sangkips/pos-print-server/internal/domain/entity"
	"github.com/sangkips/pos-print-server/pkg/printer"
)

// channel is one payment channel line of a closing report. A channel is
// printed only when its total is positive.
type channel struct {
	label string
	total entity.Amount
	count entity.Text
	// optionalCount channels print their counter only when one was sent.
	optionalCount bool
}

func (c channel) heading() string {
	if c.optionalCount && c.count.Or("") == "" {
		return c.label
	}
	return c.label + "(" + string(c.count) + ")"
}

func cashClosingChannels(c *entity.CashRegisterClosing) []channel {
	return []channel{
		// card processors
		{label: "SERFINSA", total: c.TotalTarjetaSERFINSA, count: c.ContadorTarjetaSERFINSA},
		{label: "BAC", total: c.TotalTarjetaBAC, count: c.ContadorTarjetaBAC},
		{label: "AGRICOLA", total: c.TotalTarjetaAGRICOLA, count: c.ContadorTarjetaAGRICOLA},
		{label: "CREDOMATIC", total: c.TotalTarjetaCREDOMATIC, count: c.ContadorTarjetaCREDOMATIC},
		{label: "PROMERICA", total: c.TotalTarjetaPROMERICA, count: c.ContadorTarjetaPROMERICA, optionalCount: true},
		{label: "CUSCA", total: c.TotalTarjetaCUSCA, count: c.ContadorTarjetaCUSCA, optionalCount: true},
		{label: "DAVIVIENDA", total: c.TotalTarjetaDAVIVIENDA, count: c.ContadorTarjetaDAVIVIENDA, optionalCount: true},
		// delivery platforms
		{label: "PEDIDOS YA", total: c.PedidosYa, count: c.ContadorPedidosYa},
		{label: "UBER EATS", total: c.UberEats, count: c.ContadorUberEats},
		// other tenders
		{label: "CORTESIA", total: c.TotalCortesia, count: c.ContadorCortesia},
		{label: "Certificado", total: c.TotalCertificado, count: c.ContadorCertificado},
		{label: "Credito", total: c.TotalCredito, count: c.ContadorCredito},
	}
}

// CashRegisterClosing composes the end-of-shift report of one register.
// withDetail appends every order of the shift with its payments.
func (f *Formatter) CashRegisterClosing(doc *printer.Document, c *entity.CashRegisterClosing, withDetail bool) {
	c.Normalize()

	// Header
	doc.SetAlign(printer.AlignCenter).SetTextSize(1, 1)
	doc.Text(string(c.NombreSistema))
	doc.SetTextSize(0, 0)
	doc.Text(string(c.Direccion))
	doc.Separator('-')
	doc.Text(c.Usuarios.FullName())
	doc.Separator('-')
	doc.Text(string(c.FechaCierre))
	doc.Separator('-')

	// Cash
	doc.SetAlign(printer.AlignCenter).Text("RESUMEN DE EFECTIVO")
	labelAmount(doc, "Efectivo Inicial", c.MontoInicial)
	labelAmount(doc, "Efectivo (+)", c.CashIn())
	labelAmount(doc, "Compras (-)", c.TotalCompras)
	labelAmount(doc, "Efectivo Total En Caja", c.EfectivoTotal)
	doc.Separator('-')

	// Other tenders
	doc.SetAlign(printer.AlignCenter).Text("RESUMEN DE OTRAS TRANSACCIONES")
	for _, ch := range cashClosingChannels(c) {
		if ch.total.IsPositive() {
			labelAmount(doc, ch.heading(), ch.total)
		}
	}
	if c.Llevar.IsPositive() {
		doc.Separator('-')
		labelAmount(doc, channel{label: "PARA LLEVAR", count: c.ContadorLlevar}.heading(), c.Llevar)
		doc.Separator('-')
	}

	// Sales
	doc.SetAlign(printer.AlignCenter).Text("RESUMEN DE TOTAL DE VENTAS")
	doc.Separator('-')
	labelAmount(doc, "VENTA BRUTA", c.VentaTotal)
	labelAmount(doc, "VENTA SIN PROPINA", c.VentaSinPropina)
	labelAmount(doc, "VENTA SIN IVA", c.VentaSinIva)

	if c.OrdenesActivas.IsPositive() {
		doc.Separator('-')
		labelAmount(doc, "ORDENES ACTIVAS", c.OrdenesActivas)
	}

	doc.Separator('-')
	doc.SetAlign(printer.AlignLeft)
	doc.KeyValue("Estado:", string(c.EstadoCaja))
	doc.Separator('-')
	doc.Text("Observaciones")
	doc.Text(string(c.Observaciones))
	doc.Separator('-')

	if withDetail {
		f.closingOrders(doc, c.Orders)
	}

	finish(doc)
}

func (f *Formatter) closingOrders(doc *printer.Document, orders []entity.ClosingOrder) {
	doc.Separator('-')
	doc.SetAlign(printer.AlignCenter).Text("LISTADO DE ORDENES")
	doc.SetAlign(printer.AlignLeft)
	for _, o := range orders {
		doc.Text("Orden #" + string(o.NumeroOrden) +
			" | Fecha: " + f.Timestamp(o.FechaCreacion) +
			" | Total: " + Money(o.Total))
		for _, pay := range o.Payments {
			doc.Table(
				printer.Cell{Text: string(pay.TipoPago), Width: 0.3, Align: printer.AlignCenter},
				printer.Cell{Text: string(pay.POS), Width: 0.5, Align: printer.AlignLeft},
				printer.Cell{Text: FormatCurrency(pay.Monto), Width: 0.2, Align: printer.AlignRight},
			)
		}
		doc.Separator('-')
	}
}

// DailyClosing composes the report for a whole business day, ending with
// the amount to remit.
func (f *Formatter) DailyClosing(doc *printer.Document, d *entity.DailyClosing) {
	d.Normalize()

	// Header
	doc.SetAlign(printer.AlignCenter).SetTextSize(1, 1)
	doc.Text("CIERRE DIARIO")
	doc.SetTextSize(0, 0)
	doc.Text(f.Timestamp(d.Fecha))
	doc.Separator('-')
	if d.Usuarios != nil {
		doc.SetAlign(printer.AlignCenter).Text(d.Usuarios.FullName())
	}
	doc.Separator('-')

	// Sales
	doc.SetAlign(printer.AlignCenter).Text("RESUMEN DE VENTAS")
	doc.Separator('-')
	labelAmount(doc, "VENTA BRUTA", d.VentaBruta)
	labelAmount(doc, "VENTA SIN PROPINA", d.VentaSinPropina)
	labelAmount(doc, "VENTA SIN IVA", d.VentaSinIva)

	// Tenders
	doc.SetAlign(printer.AlignCenter).Text("MÉTODOS DE PAGO")
	doc.Separator('-')
	labelAmount(doc, "EFECTIVO", d.Efectivo)
	printPositive(doc, []channel{
		{label: "CREDOMATIC", total: d.Credomatic},
		{label: "SERFINSA", total: d.Serfinsa},
		{label: "PROMERICA", total: d.Promerica},
		{label: "TOTAL POS", total: d.TotalTarjetaCredito},
	})

	// Delivery
	doc.SetAlign(printer.AlignCenter).Text("SERVICIOS DE ENTREGA")
	doc.Separator('-')
	printPositive(doc, []channel{
		{label: "PARA LLEVAR", total: d.ParaLlevar},
		{label: "UBER EATS", total: d.UberEats},
		{label: "PEDIDOS YA", total: d.PedidoYa},
	})
	doc.Separator('-')

	printPositive(doc, []channel{
		{label: "PROPINA", total: d.Propina},
		{label: "CORTESÍA", total: d.Cortesia},
		{label: "CERTIFICADO REGALO", total: d.CertificadoRegalo},
		{label: "CREDITO", total: d.Credito},
	})
	doc.Separator('-')

	doc.SetBold(true)
	labelAmount(doc, "COMPRAS", d.Compras)
	labelAmount(doc, "EFECTIVO", d.EntregaEfectivo)
	doc.SetBold(false)

	doc.Separator('-').Separator('-')
	status := "ABIERTO"
	if d.Closed() {
		status = "CERRADO"
	}
	labelValue(doc, "ESTADO", status)
	doc.Separator('-').Separator('-')

	doc.SetBold(true).SetTextSize(1, 1).SetAlign(printer.AlignCenter)
	doc.Text("REMESA")
	doc.Text("$ " + FormatCurrency(d.Remesa))
	doc.SetTextSize(0, 0).SetBold(false)

	doc.Separator('-').Separator('-')
	finish(doc)
}

func printPositive(doc *printer.Document, channels []channel) {
	for _, ch := range channels {
		if ch.total.IsPositive() {
			labelAmount(doc, ch.label, ch.total)
		}
	}
}
