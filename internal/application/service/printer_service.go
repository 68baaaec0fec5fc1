package service

import (
	"fmt"

	"github.com/sangkips/receipt-studio/internal/config"
	"github.com/sangkips/receipt-studio/internal/domain/entity"
	"github.com/sangkips/receipt-studio/internal/domain/enum"
	"github.com/sangkips/receipt-studio/pkg/printer"
	"github.com/sangkips/receipt-studio/pkg/render"
	"go.uber.org/zap"
)

// PrinterService prints receipt drafts on a thermal printer.
type PrinterService struct {
	printer   printer.Printer
	catalog   *config.Catalog
	charWidth int
	log       *zap.SugaredLogger
}

// NewPrinterService creates a new printer service. charWidth is the
// printer's column count; every job is laid out at that width.
func NewPrinterService(p printer.Printer, catalog *config.Catalog, charWidth int, log *zap.SugaredLogger) *PrinterService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	if charWidth < render.MinWidth {
		charWidth = render.MinWidth
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PrinterService{
		printer:   p,
		catalog:   catalog,
		charWidth: charWidth,
		log:       log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	CharWidth  int    `json:"charWidth"`
}

// PrintResult carries the plain-text preview of what was sent, so callers
// can show it when no printer is attached.
type PrintResult struct {
	Preview string `json:"preview"`
	Bytes   int    `json:"bytes"`
}

func (s *PrinterService) GetStatus() *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(),
		Type:       kind,
		CharWidth:  s.charWidth,
	}
}

// TestPrint sends a sample receipt.
func (s *PrinterService) TestPrint() (*PrintResult, error) {
	sample := entity.Receipt{
		StoreName:       "PRINTER TEST",
		StoreAddress:    "Test Address",
		Cashier:         "System",
		PaymentMethod:   enum.PaymentMethodCash,
		TaxRate:         "10",
		Items:           []entity.LineItem{{Name: "Test Item 1", Price: "10.00"}, {Name: "Test Item 2", Price: "5.00"}},
		TransactionCode: "0000 0000 0000 0000 0000",
		Footer:          "Printer OK",
	}
	return s.print(BuildView(sample, s.catalog), "test")
}

// PrintDraft prints the session's current draft.
func (s *PrinterService) PrintDraft(sess *Session) (*PrintResult, error) {
	return s.print(sess.Model.View(), sess.ID.String())
}

func (s *PrinterService) print(v render.View, ref string) (*PrintResult, error) {
	data, preview := s.Format(v)
	result := &PrintResult{Preview: preview, Bytes: len(data)}

	if err := s.printer.Print(data); err != nil {
		s.log.Warnw("printer error", "ref", ref, "type", s.printer.Kind(), "error", err)
		return result, fmt.Errorf("failed to print receipt: %w", err)
	}
	return result, nil
}

// Format converts a view into ESC/POS bytes at the printer's width, and
// returns the same layout as plain text.
func (s *PrinterService) Format(v render.View) ([]byte, string) {
	v.Template.Width = s.charWidth
	v.Logo = nil

	doc := printer.NewDocument(s.charWidth)
	doc.Layout(render.Layout(v)).
		FeedLines(3).
		PartialCut()

	return doc.Bytes(), render.Text(v)
}
