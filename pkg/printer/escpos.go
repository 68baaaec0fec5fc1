package printer

import (
	"bytes"
	"strings"

	"github.com/sangkips/receipt-studio/pkg/render"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontWide   = 0x10
	FontTall   = 0x01
)

// Document accumulates an ESC/POS byte stream.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for a printer with charWidth columns
// (32 on 58mm paper, 42-48 on 80mm).
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Width is the number of printable columns.
func (d *Document) Width() int { return d.width }

// Init sends ESC @.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s and a line feed.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// Separator prints a full-width rule.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key on the left and value on the right.
func (d *Document) KeyValue(key, value string) *Document {
	return d.Text(render.KeyValue(key, value, d.width))
}

// Layout prints pre-laid-out receipt lines, switching alignment and emphasis
// only when they change.
func (d *Document) Layout(lines []render.Line) *Document {
	align, bold, large := AlignLeft, false, false
	d.SetAlign(align)

	for _, l := range lines {
		if a := escAlign(l.Align); a != align {
			d.SetAlign(a)
			align = a
		}
		if l.Bold != bold {
			d.SetBold(l.Bold)
			bold = l.Bold
		}
		if l.Large != large {
			if l.Large {
				d.SetFontSize(FontDouble)
			} else {
				d.SetFontSize(FontNormal)
			}
			large = l.Large
		}
		d.Text(l.Text)
	}

	if bold {
		d.SetBold(false)
	}
	if large {
		d.SetFontSize(FontNormal)
	}
	if align != AlignLeft {
		d.SetAlign(AlignLeft)
	}
	return d
}

// Cut sends a full cut.
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends a partial cut.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Reset clears the buffer and re-sends ESC @.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.Init()
	return d
}

func escAlign(a render.Align) int {
	switch a {
	case render.AlignCenter:
		return AlignCenter
	case render.AlignRight:
		return AlignRight
	default:
		return AlignLeft
	}
}
