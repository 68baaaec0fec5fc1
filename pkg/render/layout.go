package render

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Align is the horizontal placement of a line.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Line is one row of the text layout. Text never exceeds the template width
// except for a single value that is wider on its own.
type Line struct {
	Text  string
	Align Align
	Bold  bool
	Large bool
}

// Layout converts a view into fixed-width lines. Raster export and thermal
// printing both draw from the same layout.
func Layout(v View) []Line {
	t := v.template()
	var lines []Line

	if v.StoreName != "" {
		lines = append(lines, Line{Text: clip(strings.ToUpper(v.StoreName), t.Width), Align: AlignCenter, Bold: true, Large: true})
	}
	for _, a := range v.AddressLines {
		lines = append(lines, Line{Text: clip(a, t.Width), Align: AlignCenter})
	}
	if v.Phone != "" {
		lines = append(lines, Line{Text: clip(v.Phone, t.Width), Align: AlignCenter})
	}

	if len(v.Meta) > 0 {
		lines = append(lines, Line{})
		lines = appendRows(lines, v.Meta, t.Width)
	}

	lines = append(lines, separator(t))
	lines = appendRows(lines, v.Items, t.Width)
	lines = append(lines, separator(t))

	lines = appendRows(lines, v.Totals, t.Width)
	if len(v.Payment) > 0 {
		lines = append(lines, Line{})
		lines = appendRows(lines, v.Payment, t.Width)
	}

	lines = append(lines, Line{})
	lines = append(lines, Line{Text: clip(fmt.Sprintf("# ITEMS SOLD %d", v.ItemCount), t.Width), Align: AlignCenter})
	if v.TransactionCode != "" {
		lines = append(lines, Line{Text: clip("TC# "+v.TransactionCode, t.Width), Align: AlignCenter})
	}
	if v.DateLine != "" {
		lines = append(lines, Line{Text: clip(v.DateLine, t.Width), Align: AlignCenter})
	}
	if len(v.Footer) > 0 {
		lines = append(lines, Line{})
		for _, f := range v.Footer {
			lines = append(lines, Line{Text: clip(f, t.Width), Align: AlignCenter})
		}
	}
	return lines
}

// Text renders the layout as plain text padded to the template width.
func Text(v View) string {
	width := v.template().Width
	var b strings.Builder
	for _, l := range Layout(v) {
		b.WriteString(strings.TrimRight(place(l, width), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// KeyValue places label and value at opposite ends of a width-wide line.
// The label is shortened or dropped when both do not fit; the value is never
// cut.
func KeyValue(label, value string, width int) string {
	vw := utf8.RuneCountInString(value)
	if vw >= width {
		return value
	}
	label = clip(label, width-vw-1)
	if label == "" {
		return strings.Repeat(" ", width-vw) + value
	}
	spaces := width - utf8.RuneCountInString(label) - vw
	return label + strings.Repeat(" ", spaces) + value
}

func appendRows(lines []Line, rows []Row, width int) []Line {
	for _, r := range rows {
		lines = append(lines, Line{Text: KeyValue(r.Label, r.Value, width), Bold: r.Bold})
	}
	return lines
}

func separator(t Template) Line {
	return Line{Text: strings.Repeat(string(t.Separator), t.Width)}
}

func place(l Line, width int) string {
	pad := width - utf8.RuneCountInString(l.Text)
	if pad <= 0 {
		return l.Text
	}
	switch l.Align {
	case AlignCenter:
		left := pad / 2
		return strings.Repeat(" ", left) + l.Text + strings.Repeat(" ", pad-left)
	case AlignRight:
		return strings.Repeat(" ", pad) + l.Text
	default:
		return l.Text + strings.Repeat(" ", pad)
	}
}

func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
