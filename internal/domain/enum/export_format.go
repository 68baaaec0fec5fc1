package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExportFormat selects the file type produced by a download.
type ExportFormat int

const (
	ExportFormatPNG ExportFormat = 0
	ExportFormatJPG ExportFormat = 1
	ExportFormatPDF ExportFormat = 2
)

func (f ExportFormat) String() string {
	names := [...]string{"png", "jpg", "pdf"}
	if int(f) < 0 || int(f) >= len(names) {
		return "png"
	}
	return names[f]
}

// Extension is the file extension without the dot.
func (f ExportFormat) Extension() string {
	return f.String()
}

func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatJPG:
		return "image/jpeg"
	case ExportFormatPDF:
		return "application/pdf"
	default:
		return "image/png"
	}
}

// ParseExportFormat accepts "png", "jpg"/"jpeg" and "pdf", case-insensitive.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "":
		return ExportFormatPNG, nil
	case "jpg", "jpeg":
		return ExportFormatJPG, nil
	case "pdf":
		return ExportFormatPDF, nil
	}
	return ExportFormatPNG, fmt.Errorf("unsupported export format %q", s)
}

func (f ExportFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *ExportFormat) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseExportFormat(str)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
