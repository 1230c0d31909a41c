package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/pos-print-server/internal/domain/entity"
	"github.com/sangkips/pos-print-server/pkg/printer"
)

var fixedNow = time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)

func newTestFormatter(alwaysShowChange bool) *Formatter {
	return NewFormatter(Options{
		Location:         LoadLocation(DefaultTimezone),
		AlwaysShowChange: alwaysShowChange,
		Now:              func() time.Time { return fixedNow },
	})
}

func newTestDoc(width int) *printer.Document {
	return printer.NewDocument(width, nil)
}

func findLine(lines []printer.Line, prefix string) (printer.Line, bool) {
	for _, l := range lines {
		if strings.HasPrefix(l.Text, prefix) {
			return l, true
		}
	}
	return printer.Line{}, false
}

func assertHasLine(t *testing.T, doc *printer.Document, prefix string) printer.Line {
	t.Helper()
	l, ok := findLine(doc.Lines(), prefix)
	require.True(t, ok, "no line starting with %q in:\n%s", prefix, strings.Join(doc.Transcript(), "\n"))
	return l
}

func assertNoLine(t *testing.T, doc *printer.Document, prefix string) {
	t.Helper()
	_, ok := findLine(doc.Lines(), prefix)
	assert.False(t, ok, "unexpected line starting with %q", prefix)
}

func endsWithCut(doc *printer.Document) bool {
	return bytes.HasSuffix(doc.Bytes(), []byte{printer.GS, 'V', 0})
}

func cafePreBill() *entity.PreBill {
	return &entity.PreBill{
		NombreComercial: "Don Vitto",
		Direccion:       "San Salvador",
		Usuarios:        &entity.Employee{Nombres: "Ana", Apellidos: "Lopez"},
		NumeroPersonas:  "2",
		Mesa:            &entity.DiningTable{Numero: "4"},
		LugarOrigen:     "Restaurante",
		NumeroOrden:     "15",
		FechaCreacion:   "2024-03-05 12:00",
		Estado:          "Pagada",
		Items: []entity.LineItem{
			{Cantidad: "2", Nombre: "Cafe", PrecioUnitario: entity.NewAmount(1.5), PrecioTotal: entity.NewAmount(3)},
		},
		Payments:    []entity.Payment{{TipoPago: "Efectivo", Monto: entity.NewAmount(3.3)}},
		Subtotal:    entity.NewAmount(3),
		Propina:     entity.NewAmount(0.3),
		Total:       entity.NewAmount(3.3),
		MontoCambio: entity.NewAmount(0),
	}
}

func TestPreBill_EndToEnd(t *testing.T) {
	doc := newTestDoc(42)
	newTestFormatter(false).PreBill(doc, cafePreBill())

	header := assertHasLine(t, doc, "Don Vitto")
	assert.True(t, header.Bold)
	assert.Equal(t, 1, header.Width)

	var row string
	for _, l := range doc.Transcript() {
		if f := strings.Fields(l); len(f) == 4 && f[1] == "Cafe" {
			row = l
		}
	}
	require.NotEmpty(t, row)
	assert.Equal(t, []string{"2", "Cafe", "1.50", "3.00"}, strings.Fields(row))
	assert.Equal(t, printer.LayoutRow(42, []printer.Cell{
		{Text: "2", Width: 0.15, Align: printer.AlignCenter},
		{Text: "Cafe", Width: 0.40},
		{Text: "1.50", Width: 0.2, Align: printer.AlignRight},
		{Text: "3.00", Width: 0.2, Align: printer.AlignRight},
	})[0], row)

	total := assertHasLine(t, doc, "Total:")
	assert.Equal(t, "Total:          $3.30", total.Text)
	assert.Equal(t, 1, total.Width)
	assert.Equal(t, 1, total.Height)

	pay := assertHasLine(t, doc, "Efectivo")
	assert.True(t, strings.HasSuffix(pay.Text, "$3.30"))
	assert.Len(t, pay.Text, 42)

	assertHasLine(t, doc, "Subtotal:")
	gratuity := assertHasLine(t, doc, GratuityLabel)
	assert.True(t, strings.HasSuffix(gratuity.Text, "$0.30"))
	assertNoLine(t, doc, "Cambio:")
	assertNoLine(t, doc, "Descuento:")
	assertHasLine(t, doc, "Emp. Ana Lopez")
	assertHasLine(t, doc, "ORDEN #: 15")
	assertHasLine(t, doc, "Fecha: 2024-03-05 12:00")
	assert.True(t, endsWithCut(doc))
}

func TestPreBill_ChangeLine(t *testing.T) {
	tests := []struct {
		name    string
		always  bool
		method  entity.Text
		change  float64
		present bool
	}{
		{"cash with change", false, "Efectivo", 1.7, true},
		{"cash without change", false, "Efectivo", 0, false},
		{"cash without change, always shown", true, "Efectivo", 0, true},
		{"card never shows change", true, "Tarjeta", 1.7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := cafePreBill()
			p.Payments = []entity.Payment{{TipoPago: tt.method, Monto: entity.NewAmount(5)}}
			p.MontoCambio = entity.NewAmount(tt.change)

			doc := newTestDoc(42)
			newTestFormatter(tt.always).PreBill(doc, p)

			if tt.present {
				l := assertHasLine(t, doc, "Cambio:")
				assert.True(t, strings.HasSuffix(l.Text, Money(p.MontoCambio)))
			} else {
				assertNoLine(t, doc, "Cambio:")
			}
		})
	}
}

func TestPreBill_ChangeLineConsidersEveryPayment(t *testing.T) {
	p := cafePreBill()
	p.Payments = []entity.Payment{
		{TipoPago: "Efectivo", Monto: entity.NewAmount(2)},
		{TipoPago: "Tarjeta", POS: "BAC", Monto: entity.NewAmount(1.3)},
	}
	p.MontoCambio = entity.NewAmount(0.5)

	doc := newTestDoc(42)
	newTestFormatter(false).PreBill(doc, p)

	assertHasLine(t, doc, "Cambio:")
	card := assertHasLine(t, doc, "Tarjeta (BAC)")
	assert.True(t, strings.HasSuffix(card.Text, "$1.30"))
}

func TestPreBill_DeliveryPaymentsUseChannelName(t *testing.T) {
	p := cafePreBill()
	p.LugarOrigen = "Uber Eats"
	p.Mesa = nil
	p.Payments = []entity.Payment{{TipoPago: "Tarjeta", Monto: entity.NewAmount(3.3)}}

	doc := newTestDoc(42)
	newTestFormatter(false).PreBill(doc, p)

	l := assertHasLine(t, doc, "Uber Eats")
	assert.True(t, strings.HasSuffix(l.Text, "$3.30"))
	assertNoLine(t, doc, "Tarjeta")

	guests := assertHasLine(t, doc, "Clientes 2")
	assert.NotContains(t, guests.Text, "Mesa")
}

func TestPreBill_Discount(t *testing.T) {
	p := cafePreBill()
	p.Descuento = &entity.Discount{Porcentaje: entity.NewAmount(10)}
	p.MontoDescuento = entity.NewAmount(0.3)

	doc := newTestDoc(42)
	newTestFormatter(false).PreBill(doc, p)

	l := assertHasLine(t, doc, "Descuento:")
	assert.True(t, strings.HasSuffix(l.Text, "-$0.30 (10%)"))
}

func TestPreBill_MissingFieldsDefault(t *testing.T) {
	p := &entity.PreBill{Items: []entity.LineItem{{}}}

	doc := newTestDoc(48)
	require.NotPanics(t, func() { newTestFormatter(false).PreBill(doc, p) })

	assertHasLine(t, doc, "Total:")
	var row []string
	for _, l := range doc.Transcript() {
		if f := strings.Fields(l); len(f) == 3 && f[0] == "0" {
			row = f
		}
	}
	assert.Equal(t, []string{"0", "0.00", "0.00"}, row)
}

func TestKitchenTicket_Restaurant(t *testing.T) {
	k := &entity.KitchenTicket{
		LugarOrigen: "Restaurante",
		NumeroOrden: "88",
		Mesa:        &entity.DiningTable{Numero: "3"},
		Usuarios:    &entity.Employee{Nombres: "Luis", Apellidos: "Mena"},
		Items: []entity.LineItem{
			{Cantidad: "2", Nombre: "Pupusa revuelta", Comentario: "sin curtido"},
			{Cantidad: "1", Nombre: "Horchata", FechaCreacion: entity.ParseTimestamp("2024-03-05T03:15:00Z")},
		},
	}

	doc := newTestDoc(42)
	newTestFormatter(false).KitchenTicket(doc, k)

	tr := doc.Transcript()
	require.GreaterOrEqual(t, len(tr), 3)
	assert.Equal(t, "MESAS ORDEN #: 88", tr[0])
	assert.Equal(t, "Mesa 3", tr[1])
	assert.Equal(t, "EMPLEADO: Luis Mena", tr[2])
	for _, l := range doc.Lines() {
		assert.Equal(t, 1, l.Width, l.Text)
	}

	assertHasLine(t, doc, "(2) Pupusa revuelta")
	assertHasLine(t, doc, "  - sin curtido")
	assertHasLine(t, doc, "(1) Horchata")
	assertHasLine(t, doc, strings.Repeat("-", 21))
	assertHasLine(t, doc, "04-03-2024 09:15 pm")

	b := doc.Bytes()
	assert.True(t, bytes.HasSuffix(b, []byte{printer.ESC, 'B', 3, 3}))
	assert.True(t, bytes.Contains(b, []byte{printer.GS, 'V', 0, printer.ESC, 'B', 3, 3}))
}

func TestKitchenTicket_DeliveryWithoutTimestamps(t *testing.T) {
	k := &entity.KitchenTicket{
		LugarOrigen: "Pedidos Ya",
		NumeroOrden: "9",
		Cliente:     "Carla",
		Items:       []entity.LineItem{{Cantidad: "1", Nombre: "Sopa"}},
	}

	doc := newTestDoc(42)
	newTestFormatter(false).KitchenTicket(doc, k)

	tr := doc.Transcript()
	assert.Equal(t, "Pedidos Ya ORDEN #: 9", tr[0])
	assert.Equal(t, "Carla", tr[1])
	assertHasLine(t, doc, "05-03-2024 12:00 pm")
}

func closingFixture() *entity.CashRegisterClosing {
	return &entity.CashRegisterClosing{
		NombreSistema:           "Don Vitto",
		Usuarios:                &entity.Employee{Nombres: "Ana", Apellidos: "Lopez"},
		FechaCierre:             "05-03-2024",
		EstadoCaja:              "CERRADA",
		MontoInicial:            entity.NewAmount(50),
		TotalEfectivo:           entity.NewAmount(120),
		TotalCompras:            entity.NewAmount(10),
		EfectivoTotal:           entity.NewAmount(160),
		TotalTarjetaSERFINSA:    entity.NewAmount(25.5),
		ContadorTarjetaSERFINSA: "3",
		TotalTarjetaBAC:         entity.NewAmount(0),
		ContadorTarjetaBAC:      "0",
		TotalTarjetaPROMERICA:   entity.NewAmount(10),
		UberEats:                entity.NewAmount(12),
		ContadorUberEats:        "2",
		Llevar:                  entity.NewAmount(8),
		ContadorLlevar:          "1",
		VentaTotal:              entity.NewAmount(200),
		Orders: []entity.ClosingOrder{
			{
				NumeroOrden:   "1",
				FechaCreacion: entity.ParseTimestamp("2024-03-05T03:15:00Z"),
				Total:         entity.NewAmount(12.5),
				Payments:      []entity.Payment{{TipoPago: "Tarjeta", POS: "SERFINSA", Monto: entity.NewAmount(12.5)}},
			},
		},
	}
}

func TestCashRegisterClosing_ZeroSuppression(t *testing.T) {
	doc := newTestDoc(48)
	newTestFormatter(false).CashRegisterClosing(doc, closingFixture(), false)

	tr := doc.Transcript()
	serfinsa := indexOf(tr, "SERFINSA(3)")
	require.NotEqual(t, -1, serfinsa)
	assert.Equal(t, "$ 25.50", tr[serfinsa+1])
	assert.Equal(t, printer.AlignRight, doc.Lines()[serfinsa+1].Align)

	assert.Equal(t, -1, indexOf(tr, "BAC(0)"))
	assertNoLine(t, doc, "AGRICOLA")
	assertNoLine(t, doc, "CORTESIA")
	assert.NotEqual(t, -1, indexOf(tr, "PROMERICA"))
	assert.NotEqual(t, -1, indexOf(tr, "UBER EATS(2)"))
	assert.NotEqual(t, -1, indexOf(tr, "PARA LLEVAR(1)"))
	assertNoLine(t, doc, "ORDENES ACTIVAS")
	assertNoLine(t, doc, "LISTADO DE ORDENES")

	cash := indexOf(tr, "Efectivo (+)")
	require.NotEqual(t, -1, cash)
	assert.Equal(t, "$ 120.00", tr[cash+1])
	assert.True(t, endsWithCut(doc))
}

func TestCashRegisterClosing_CountedCashAndDetail(t *testing.T) {
	c := closingFixture()
	c.EfectivoReal = entity.NewAmount(118)
	c.OrdenesActivas = entity.NewAmount(30)

	doc := newTestDoc(48)
	newTestFormatter(false).CashRegisterClosing(doc, c, true)

	tr := doc.Transcript()
	cash := indexOf(tr, "Efectivo (+)")
	assert.Equal(t, "$ 118.00", tr[cash+1])
	assertHasLine(t, doc, "ORDENES ACTIVAS")
	assertHasLine(t, doc, "LISTADO DE ORDENES")
	assertHasLine(t, doc, "Orden #1 | Fecha: 04-03-2024 09:15 pm | Total: $12.50")

	var payment []string
	for _, l := range tr {
		if f := strings.Fields(l); len(f) == 3 && f[0] == "Tarjeta" {
			payment = f
		}
	}
	assert.Equal(t, []string{"Tarjeta", "SERFINSA", "12.50"}, payment)
}

func TestDailyClosing(t *testing.T) {
	d := &entity.DailyClosing{
		Fecha:           entity.ParseTimestamp("2024-03-05T03:15:00Z"),
		IDCierre:        entity.NewAmount(3),
		VentaBruta:      entity.NewAmount(500),
		Efectivo:        entity.NewAmount(300),
		Serfinsa:        entity.NewAmount(150.25),
		PedidoYa:        entity.NewAmount(0),
		Credito:         entity.NewAmount(20),
		Compras:         entity.NewAmount(15),
		EntregaEfectivo: entity.NewAmount(285),
		Remesa:          entity.NewAmount(285),
	}

	doc := newTestDoc(48)
	newTestFormatter(false).DailyClosing(doc, d)

	tr := doc.Transcript()
	assert.Equal(t, "CIERRE DIARIO", tr[0])
	assert.Equal(t, "04-03-2024 09:15 pm", tr[1])
	assert.NotEqual(t, -1, indexOf(tr, "SERFINSA"))
	assert.Equal(t, "$ 150.25", tr[indexOf(tr, "SERFINSA")+1])
	assert.Equal(t, -1, indexOf(tr, "CREDOMATIC"))
	assert.Equal(t, -1, indexOf(tr, "PEDIDOS YA"))
	assert.NotEqual(t, -1, indexOf(tr, "CREDITO"))
	assert.Equal(t, "CERRADO", tr[indexOf(tr, "ESTADO")+1])

	remesa := indexOf(tr, "REMESA")
	require.NotEqual(t, -1, remesa)
	amount := doc.Lines()[remesa+1]
	assert.Equal(t, "$ 285.00", amount.Text)
	assert.True(t, amount.Bold)
	assert.Equal(t, 1, amount.Width)

	d.IDCierre = entity.Amount{}
	d.Usuarios = &entity.Employee{Nombres: "Ana"}
	doc = newTestDoc(48)
	newTestFormatter(false).DailyClosing(doc, d)
	tr = doc.Transcript()
	assert.Equal(t, "ABIERTO", tr[indexOf(tr, "ESTADO")+1])
	assert.NotEqual(t, -1, indexOf(tr, "Ana"))
}

func TestVoidedOrder(t *testing.T) {
	v := &entity.VoidedOrderReport{
		LugarOrigen:     "Restaurante",
		NombreComercial: "Don Vitto",
		Usuarios:        &entity.Employee{Nombres: "Ana", Apellidos: "Lopez"},
		NumeroOrden:     "15",
		Items: []entity.LineItem{
			{Cantidad: "1", Nombre: "Cafe", PrecioUnitario: entity.NewAmount(1.5), PrecioTotal: entity.NewAmount(1.5),
				FechaCreacion: entity.ParseTimestamp("2024-03-05T03:15:00Z")},
		},
		Payments: []entity.Payment{
			{TipoPago: "Tarjeta", POS: "BAC", Monto: entity.NewAmount(1.5), Motivo: "Cobro duplicado"},
		},
	}

	doc := newTestDoc(48)
	newTestFormatter(false).VoidedOrder(doc, v)

	tr := doc.Transcript()
	assert.Equal(t, "MESAS", tr[0])
	assert.NotEqual(t, -1, indexOf(tr, "REPORTE DE ANULACIONES"))
	assert.NotEqual(t, -1, indexOf(tr, "Motivo: "+entity.DefaultVoidReason))
	assert.NotEqual(t, -1, indexOf(tr, "Fecha: 04-03-2024 09:15 pm"))
	assert.NotEqual(t, -1, indexOf(tr, "PAGOS ANULADOS"))
	assertHasLine(t, doc, "Tarjeta (BAC)")
	assert.NotEqual(t, -1, indexOf(tr, "Motivo: Cobro duplicado"))
	assert.NotEqual(t, -1, indexOf(tr, "Fecha del reporte: 05-03-2024 12:00 pm"))
	assert.NotEqual(t, -1, indexOf(tr, "RESPONSABLE DE ANULACIÓN"))
	assert.NotEqual(t, -1, indexOf(tr, "AUTORIZADO POR"))

	obs := indexOf(tr, "Observaciones:")
	require.NotEqual(t, -1, obs)
	assert.Equal(t, []string{signatureLine, signatureLine, signatureLine}, tr[obs+1:obs+4])
}

func TestVoidedOrder_NoPayments(t *testing.T) {
	doc := newTestDoc(48)
	newTestFormatter(false).VoidedOrder(doc, &entity.VoidedOrderReport{})

	assertNoLine(t, doc, "PAGOS ANULADOS")
	assertHasLine(t, doc, "ITEMS ANULADOS")
}

func invoiceFixture() *entity.ElectronicInvoice {
	doc := entity.Text("01234567-8")
	return &entity.ElectronicInvoice{
		NombreFactura: "FACTURA",
		NumeroOrden:   "15",
		Emisor: entity.InvoiceIssuer{
			NombreComercial: "Don Vitto",
			Telefono:        "2222-0000",
			Direccion:       entity.Address{Complemento: "Calle 1", Municipio: "San Salvador"},
		},
		Identificacion: entity.InvoiceIdentification{TipoDte: "01", Ambiente: "01", FecEmi: "2024-03-05", HorEmi: "12:00:00"},
		Receptor:       entity.InvoiceRecipient{Nombre: "Carla", NIT: "0614-000000-000-0", NumDocumento: &doc},
		CuerpoDocumento: []entity.InvoiceItem{
			{Codigo: "P01", Cantidad: "2", Descripcion: "Cafe", PrecioUni: entity.NewAmount(1.5), VentaGravada: entity.NewAmount(3)},
			{Codigo: "0000", Cantidad: "1", Descripcion: "Propina", PrecioUni: entity.NewAmount(0.3), VentaGravada: entity.NewAmount(0.3)},
			{Codigo: "P02", Cantidad: "1", Descripcion: "Agua", PrecioUni: entity.NewAmount(1), VentaExenta: entity.NewAmount(1)},
		},
		Resumen: entity.InvoiceSummary{
			SubTotalVentas: entity.NewAmount(4),
			TotalNoGravado: entity.NewAmount(0.3),
			Tributos:       []entity.InvoiceTax{{Descripcion: "IVA 13%", Valor: entity.NewAmount(0.35)}},
			TotalPagar:     entity.NewAmount(4.3),
			TotalLetras:    "CUATRO 30/100 USD",
		},
	}
}

func TestInvoice(t *testing.T) {
	doc := newTestDoc(48)
	newTestFormatter(false).Invoice(doc, invoiceFixture())

	tr := doc.Transcript()
	assert.NotEqual(t, -1, indexOf(tr, "Tel: 2222-0000"))
	assert.NotEqual(t, -1, indexOf(tr, "Calle 1, San Salvador"))
	assert.NotEqual(t, -1, indexOf(tr, "Doc: 01234567-8"))
	assertNoLine(t, doc, "NIT: 0614")
	assertNoLine(t, doc, "Dirección:")

	var items [][]string
	for _, l := range tr {
		if f := strings.Fields(l); len(f) == 4 && (f[1] == "Cafe" || f[1] == "Propina" || f[1] == "Agua") {
			items = append(items, f)
		}
	}
	assert.Equal(t, [][]string{{"2", "Cafe", "1.50", "3.00"}, {"1", "Agua", "1.00", "1.00"}}, items)

	assert.NotEqual(t, -1, indexOf(tr, "IVA 13%: $0.35"))
	total := assertHasLine(t, doc, "TOTAL: $4.30")
	assert.Equal(t, 1, total.Width)
	assert.NotEqual(t, -1, indexOf(tr, "CUATRO 30/100 USD"))
	assertNoLine(t, doc, "Descuento:")
	assertNoLine(t, doc, "Documento de prueba")
	for _, l := range doc.Lines() {
		assert.False(t, l.QR)
	}
}

func TestInvoice_TaxCreditQRAndTestBanner(t *testing.T) {
	e := invoiceFixture()
	e.Identificacion.TipoDte = "03"
	e.Identificacion.Ambiente = "00"
	e.Resumen.DescuGravada = entity.NewAmount(0.5)
	e.QR = true
	e.QRTicket = "https://admin.factura.gob.sv/consultaPublica?codGen=ABC"

	doc := newTestDoc(48)
	newTestFormatter(false).Invoice(doc, e)

	assertHasLine(t, doc, "NIT: 0614-000000-000-0")
	assertNoLine(t, doc, "Doc:")
	assertHasLine(t, doc, "Descuento: $0.50")
	banner := assertHasLine(t, doc, "Documento de prueba")
	assert.Equal(t, 1, banner.Width)
	assertHasLine(t, doc, "No tiene validez")

	var qr printer.Line
	for _, l := range doc.Lines() {
		if l.QR {
			qr = l
		}
	}
	assert.Equal(t, string(e.QRTicket), qr.Text)
	assert.True(t, bytes.Contains(doc.Bytes(), []byte{printer.GS, '(', 'k', 3, 0, '1', 'C', 7}))
}

func TestInvoice_QRFlagWithoutTicket(t *testing.T) {
	e := invoiceFixture()
	e.QR = true

	doc := newTestDoc(48)
	newTestFormatter(false).Invoice(doc, e)
	for _, l := range doc.Lines() {
		assert.False(t, l.QR)
	}
}

func TestCashDrawer(t *testing.T) {
	f := newTestFormatter(false)

	doc := printer.NewDocument(48, nil).Clear()
	f.CashDrawer(doc)
	assert.Equal(t, []byte{printer.ESC, 'p', 0, 25, 250, printer.ESC, 'p', 1, 25, 250}, doc.Bytes())

	doc = printer.NewDocument(48, nil).Clear()
	f.CashDrawerPulse(doc)
	assert.Equal(t, []byte{0x1B, 0x70, 0x00, 0x19, 0xFA}, doc.Bytes())
}

func indexOf(lines []string, s string) int {
	for i, l := range lines {
		if l == s {
			return i
		}
	}
	return -1
}
