// Package render lays out a formatted receipt and turns it into images and
// PDF documents. It only sees display strings; all arithmetic happens before
// a View is built.
package render

// MinWidth is the narrowest layout, in characters, that still fits a
// key/value row.
const MinWidth = 24

// Template controls the text grid a receipt is laid out on.
type Template struct {
	Name      string
	Width     int  // characters per line
	Separator byte // rule character, e.g. '-'
}

// DefaultTemplate is used when a View carries no template.
var DefaultTemplate = Template{Name: "classic", Width: 42, Separator: '-'}

// Row is a label on the left and a value on the right.
type Row struct {
	Label string
	Value string
	Bold  bool
}

// View is the finished, human-readable content of one receipt.
type View struct {
	StoreName       string // hidden when empty
	AddressLines    []string
	Phone           string
	Meta            []Row
	Items           []Row
	Totals          []Row
	Payment         []Row
	ItemCount       int
	TransactionCode string
	DateLine        string
	Footer          []string

	Logo      []byte // encoded PNG/JPEG/GIF, nil when absent
	LogoWidth int    // pixels at scale 1

	Font     string
	Template Template
}

func (v View) template() Template {
	t := v.Template
	if t.Width < MinWidth {
		t.Width = DefaultTemplate.Width
	}
	if t.Separator == 0 {
		t.Separator = DefaultTemplate.Separator
	}
	return t
}
