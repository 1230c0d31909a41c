package entity

import (
	"strings"

	"github.com/sangkips/pos-print-server/internal/domain/enum"
)

// ElectronicInvoice is a DTE (documento tributario electrónico) already
// transmitted to the tax authority, printed for the customer.
type ElectronicInvoice struct {
	NombreFactura   Text                  `json:"nombreFactura"`
	SelloRecibido   Text                  `json:"selloRecibido"`
	NumeroOrden     Text                  `json:"numero_orden"`
	Emisor          InvoiceIssuer         `json:"emisor"`
	Identificacion  InvoiceIdentification `json:"identificacion"`
	Receptor        InvoiceRecipient      `json:"receptor"`
	CuerpoDocumento []InvoiceItem         `json:"cuerpoDocumento"`
	Resumen         InvoiceSummary        `json:"resumen"`
	QR              Flag                  `json:"qr"`
	QRTicket        Text                  `json:"qrTicket"`
}

type InvoiceIssuer struct {
	NombreComercial     Text    `json:"nombreComercial"`
	NIT                 Text    `json:"nit"`
	NRC                 Text    `json:"nrc"`
	DescActividad       Text    `json:"descActividad"`
	Telefono            Text    `json:"telefono"`
	Correo              Text    `json:"correo"`
	TipoEstablecimiento Text    `json:"tipoEstablecimiento"`
	Direccion           Address `json:"direccion"`
}

type InvoiceIdentification struct {
	CodigoGeneracion Text `json:"codigoGeneracion"`
	NumeroControl    Text `json:"numeroControl"`
	FecEmi           Text `json:"fecEmi"`
	HorEmi           Text `json:"horEmi"`
	TipoDte          Text `json:"tipoDte"`
	Ambiente         Text `json:"ambiente"`
}

type InvoiceRecipient struct {
	Nombre        Text    `json:"nombre"`
	NIT           Text    `json:"nit"`
	NumDocumento  *Text   `json:"numDocumento"`
	NRC           Text    `json:"nrc"`
	DescActividad Text    `json:"descActividad"`
	Direccion     Address `json:"direccion"`
	Telefono      Text    `json:"telefono"`
	Correo        Text    `json:"correo"`
}

type InvoiceItem struct {
	Codigo       Text   `json:"codigo"`
	Cantidad     Text   `json:"cantidad"`
	Descripcion  Text   `json:"descripcion"`
	PrecioUni    Amount `json:"precioUni"`
	VentaGravada Amount `json:"ventaGravada"`
	VentaExenta  Amount `json:"ventaExenta"`
}

// LineTotal is the taxed sale when there is one, the exempt sale otherwise.
func (i InvoiceItem) LineTotal() Amount {
	if i.VentaGravada.IsPositive() {
		return i.VentaGravada
	}
	return i.VentaExenta
}

// Printable reports whether the line is a real sale.
func (i InvoiceItem) Printable() bool {
	return strings.TrimSpace(string(i.Codigo)) != enum.PlaceholderItemCode
}

type InvoiceTax struct {
	Codigo      Text   `json:"codigo"`
	Descripcion Text   `json:"descripcion"`
	Valor       Amount `json:"valor"`
}

type InvoiceSummary struct {
	SubTotalVentas Amount       `json:"subTotalVentas"`
	TotalNoGravado Amount       `json:"totalNoGravado"`
	DescuGravada   Amount       `json:"descuGravada"`
	Tributos       []InvoiceTax `json:"tributos"`
	TotalPagar     Amount       `json:"totalPagar"`
	TotalLetras    Text         `json:"totalLetras"`
}

// Normalize fills defaults for missing fields.
func (e *ElectronicInvoice) Normalize() {
	for i := range e.CuerpoDocumento {
		if e.CuerpoDocumento[i].Cantidad.Or("") == "" {
			e.CuerpoDocumento[i].Cantidad = "0"
		}
	}
	e.QRTicket = Text(strings.TrimSpace(string(e.QRTicket)))
}

// Type returns the document type code.
func (e *ElectronicInvoice) Type() enum.DTEType {
	return enum.DTEType(strings.TrimSpace(string(e.Identificacion.TipoDte)))
}

// Environment returns the environment the document was issued in.
func (e *ElectronicInvoice) Environment() enum.DTEEnvironment {
	return enum.DTEEnvironment(strings.TrimSpace(string(e.Identificacion.Ambiente)))
}

// HasQR reports whether a QR code should be printed.
func (e *ElectronicInvoice) HasQR() bool {
	return bool(e.QR) && e.QRTicket != ""
}
