package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// QR error correction levels
const (
	QRCorrectionL byte = '0'
	QRCorrectionM byte = '1'
	QRCorrectionQ byte = '2'
	QRCorrectionH byte = '3'
)

// DefaultWidth is the character width of an 80mm printer in font A.
const DefaultWidth = 48

// Line is one printed line as it was composed, kept alongside the byte stream
// so a job can be inspected and logged without decoding ESC/POS.
type Line struct {
	Text   string
	Align  int
	Bold   bool
	Width  int
	Height int
	QR     bool
}

// Document builds an ESC/POS byte stream for thermal printers.
type Document struct {
	buf    bytes.Buffer
	width  int
	filter *TextFilter
	lines  []Line

	align int
	bold  bool
	sizeW int
	sizeH int
}

// NewDocument creates a new ESC/POS document with the given character width.
// Common widths: 32 for 58mm paper, 42 or 48 for 80mm paper.
func NewDocument(charWidth int, filter *TextFilter) *Document {
	if charWidth <= 0 {
		charWidth = DefaultWidth
	}
	d := &Document{width: charWidth, filter: filter}
	d.Init()
	return d
}

// Width returns the line width in characters.
func (d *Document) Width() int {
	return d.width
}

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	d.align, d.bold, d.sizeW, d.sizeH = AlignLeft, false, 0, 0
	return d
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	return d.Text("")
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.LineFeed()
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	d.align = align
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	d.bold = on
	return d
}

// SetTextSize sets the character magnification. 0 is normal size, each step
// adds one multiple of the base glyph, up to 7.
func (d *Document) SetTextSize(width, height int) *Document {
	width, height = clampSize(width), clampSize(height)
	d.buf.Write([]byte{GS, '!', byte(width<<4 | height)})
	d.sizeW, d.sizeH = width, height
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	s = d.filter.Apply(s)
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	d.record(s, false)
	return d
}

// Separator prints a full-width separator line (e.g. "------------------------------------------------").
func (d *Document) Separator(char byte) *Document {
	return d.Text(strings.Repeat(string(char), d.width))
}

// ShortSeparator prints a separator across half the line width.
func (d *Document) ShortSeparator(char byte) *Document {
	return d.Text(strings.Repeat(string(char), d.width/2))
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Subtotal:                                 $100.00"
func (d *Document) KeyValue(key, value string) *Document {
	key, value = d.filter.Apply(key), d.filter.Apply(value)
	spaces := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if spaces < 1 {
		spaces = 1
	}
	return d.Text(key + strings.Repeat(" ", spaces) + value)
}

// Table prints one table row, wrapping overflowing cells onto extra rows.
func (d *Document) Table(cells ...Cell) *Document {
	filtered := make([]Cell, len(cells))
	for i, c := range cells {
		c.Text = d.filter.Apply(c.Text)
		filtered[i] = c
	}
	for _, row := range LayoutRow(d.width, filtered) {
		d.Text(row)
	}
	return d
}

// QR prints data as a model 2 QR code using the printer's native encoder.
func (d *Document) QR(data string, cellSize int, correction byte) *Document {
	if cellSize < 1 || cellSize > 16 {
		cellSize = 6
	}
	if correction < QRCorrectionL || correction > QRCorrectionH {
		correction = QRCorrectionM
	}

	// model 2
	d.buf.Write([]byte{GS, '(', 'k', 4, 0, '1', 'A', '2', 0})
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, '1', 'C', byte(cellSize)})
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, '1', 'E', correction})

	n := len(data) + 3
	d.buf.Write([]byte{GS, '(', 'k', byte(n % 256), byte(n / 256), '1', 'P', '0'})
	d.buf.WriteString(data)
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, '1', 'Q', '0'})
	d.buf.WriteByte(LF)

	d.record(data, true)
	return d
}

// Beep sounds the buzzer n times, each lasting t x 50ms.
func (d *Document) Beep(n, t int) *Document {
	d.buf.Write([]byte{ESC, 'B', byte(n), byte(t)})
	return d
}

// OpenCashDrawer pulses both drawer kick-out connector pins.
func (d *Document) OpenCashDrawer() *Document {
	d.buf.Write([]byte{ESC, 'p', 0, 25, 250})
	d.buf.Write([]byte{ESC, 'p', 1, 25, 250})
	return d
}

// Raw appends bytes to the stream as-is.
func (d *Document) Raw(b []byte) *Document {
	d.buf.Write(b)
	return d
}

// Cut sends the paper cut command (full cut).
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Len returns the number of buffered bytes.
func (d *Document) Len() int {
	return d.buf.Len()
}

// Lines returns the composed lines in print order.
func (d *Document) Lines() []Line {
	return d.lines
}

// Transcript returns the text of every composed line.
func (d *Document) Transcript() []string {
	out := make([]string, len(d.lines))
	for i, l := range d.lines {
		out[i] = l.Text
	}
	return out
}

// Clear drops everything buffered, including the initialize command.
func (d *Document) Clear() *Document {
	d.buf.Reset()
	d.lines = nil
	return d
}

// Reset clears the buffer and reinitializes the document.
func (d *Document) Reset() *Document {
	d.Clear()
	d.Init()
	return d
}

func (d *Document) record(s string, qr bool) {
	d.lines = append(d.lines, Line{
		Text:   s,
		Align:  d.align,
		Bold:   d.bold,
		Width:  d.sizeW,
		Height: d.sizeH,
		QR:     qr,
	})
}

func clampSize(n int) int {
	if n < 0 {
		return 0
	}
	if n > 7 {
		return 7
	}
	return n
}
