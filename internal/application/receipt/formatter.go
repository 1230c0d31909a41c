// Package receipt lays out POS records on a fixed-width thermal printer grid.
// Formatters only compose; sending the document is the caller's job.
package receipt

import (
	"strings"
	"time"

	"github.com/sangkips/pos-print-server/internal/domain/entity"
	"github.com/sangkips/pos-print-server/pkg/printer"
)

// Kind names a printable document.
type Kind string

const (
	KindPreBill       Kind = "precuenta"
	KindKitchenTicket Kind = "comanda"
	KindCashClosing   Kind = "cierre-caja"
	KindDailyClosing  Kind = "cierre-diario"
	KindVoidedOrder   Kind = "anulados"
	KindInvoice       Kind = "factura-electronica"
	KindCashDrawer    Kind = "abrir-cajon"
)

// GratuityLabel is the fixed tip line of a pre-bill.
const GratuityLabel = "Propina (10%):"

// Options configures a Formatter.
type Options struct {
	// AlwaysShowChange prints the change line for every cash payment, even
	// when no change is due.
	AlwaysShowChange bool

	Location *time.Location
	Now      func() time.Time
}

// Formatter turns records into printer documents.
type Formatter struct {
	loc              *time.Location
	alwaysShowChange bool
	now              func() time.Time
}

// NewFormatter creates a Formatter.
func NewFormatter(opts Options) *Formatter {
	if opts.Location == nil {
		opts.Location = LoadLocation("")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Formatter{
		loc:              opts.Location,
		alwaysShowChange: opts.AlwaysShowChange,
		now:              opts.Now,
	}
}

// Timestamp renders ts in the receipt zone, falling back to the raw text for
// values that could not be parsed.
func (f *Formatter) Timestamp(ts entity.Timestamp) string {
	if !ts.Valid() {
		if ts.Raw != "" {
			return ts.Raw
		}
		return LocalTimestamp(f.now(), f.loc)
	}
	return LocalTimestamp(ts.Time, f.loc)
}

func (f *Formatter) nowStamp() string {
	return LocalTimestamp(f.now(), f.loc)
}

var itemColumns = [4]float64{0.15, 0.40, 0.2, 0.2}

func itemHeader(doc *printer.Document, qty, desc, price, total string) {
	doc.Table(
		printer.Cell{Text: qty, Width: itemColumns[0], Align: printer.AlignCenter},
		printer.Cell{Text: desc, Width: itemColumns[1], Align: printer.AlignLeft},
		printer.Cell{Text: price, Width: itemColumns[2], Align: printer.AlignRight},
		printer.Cell{Text: total, Width: itemColumns[3], Align: printer.AlignRight},
	)
}

func itemRow(doc *printer.Document, item entity.LineItem) {
	itemHeader(doc,
		string(item.Cantidad),
		string(item.Nombre),
		FormatCurrency(item.PrecioUnitario),
		FormatCurrency(item.PrecioTotal),
	)
}

// labelAmount prints a label on its own line and the amount right-aligned
// under it, the layout used by closing reports.
func labelAmount(doc *printer.Document, label string, amount entity.Amount) {
	doc.SetAlign(printer.AlignLeft).Text(label)
	doc.SetAlign(printer.AlignRight).Text("$ " + FormatCurrency(amount))
}

func labelValue(doc *printer.Document, label, value string) {
	doc.SetAlign(printer.AlignLeft).Text(label)
	doc.SetAlign(printer.AlignRight).Text(value)
}

// originHeading is the heading used for an order origin: dining room orders
// are grouped under "MESAS", anything else shows its own label.
func originHeading(origin string) string {
	if origin == "Restaurante" {
		return "MESAS"
	}
	return origin
}

func guestsAndTable(doc *printer.Document, guests entity.Text, table *entity.DiningTable) {
	right := ""
	if table != nil && table.Numero.Or("") != "" {
		right = "Mesa " + string(table.Numero)
	}
	doc.KeyValue("Clientes "+string(guests), right)
}

func finish(doc *printer.Document) {
	doc.FeedLines(3).Cut()
}

func trimmed(t entity.Text) string {
	return strings.TrimSpace(string(t))
}
