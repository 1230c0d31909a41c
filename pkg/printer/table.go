package printer

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Cell is one column of a table row. Width is a fraction of the printable
// line width; fractions in a row are not normalized.
type Cell struct {
	Text  string
	Width float64
	Align int
}

// ColumnWidth converts a width fraction into a character count.
func ColumnWidth(lineWidth int, fraction float64) int {
	if fraction <= 0 || lineWidth <= 0 {
		return 0
	}
	return int(math.Floor(float64(lineWidth)*fraction + 1e-9))
}

// LayoutRow lays out cells on a grid of lineWidth characters. Text that does
// not fit its column continues on the following rows of the same column.
func LayoutRow(lineWidth int, cells []Cell) []string {
	widths := make([]int, len(cells))
	chunks := make([][]string, len(cells))
	rows := 1

	for i, c := range cells {
		widths[i] = ColumnWidth(lineWidth, c.Width)
		if widths[i] == 0 {
			continue
		}
		chunks[i] = splitRunes(c.Text, widths[i])
		if len(chunks[i]) > rows {
			rows = len(chunks[i])
		}
	}

	out := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		var b strings.Builder
		for i, c := range cells {
			if widths[i] == 0 {
				continue
			}
			text := ""
			if r < len(chunks[i]) {
				text = chunks[i][r]
			}
			b.WriteString(Pad(text, widths[i], c.Align))
		}
		out = append(out, b.String())
	}
	return out
}

// Pad fits s into exactly width characters using the given alignment,
// truncating when s is longer.
func Pad(s string, width, align int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	gap := width - n
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

func splitRunes(s string, width int) []string {
	r := []rune(s)
	if len(r) == 0 {
		return []string{""}
	}
	parts := make([]string, 0, len(r)/width+1)
	for len(r) > width {
		parts = append(parts, string(r[:width]))
		r = r[width:]
	}
	return append(parts, string(r))
}
