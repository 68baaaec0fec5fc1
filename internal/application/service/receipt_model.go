package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sangkips/receipt-studio/internal/config"
	"github.com/sangkips/receipt-studio/internal/domain/entity"
	"github.com/sangkips/receipt-studio/internal/domain/enum"
	"github.com/sangkips/receipt-studio/pkg/apperror"
	"github.com/sangkips/receipt-studio/pkg/money"
	"github.com/sangkips/receipt-studio/pkg/render"
	"github.com/sangkips/receipt-studio/pkg/utils"
	"github.com/shopspring/decimal"
)

// Input layouts of the date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	dateLineLayout = "Jan 2, 2006, 3:04 PM"
)

const (
	ResetPrompt        = "Are you sure you want to clear everything?"
	addressPlaceholder = "Store Address\nCity, State Zip"
	unnamedItem        = "Item"
)

var logoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// Confirmer approves destructive operations.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Confirmed approves every prompt.
var Confirmed Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

// ReceiptModel owns one editable draft and derives its totals.
type ReceiptModel struct {
	mu       sync.Mutex
	draft    entity.Receipt
	catalog  *config.Catalog
	random   io.Reader
	now      func() time.Time
	onChange func(entity.Totals)
}

type ReceiptModelOption func(*ReceiptModel)

// WithRandomSource replaces crypto/rand for transaction codes.
func WithRandomSource(r io.Reader) ReceiptModelOption {
	return func(m *ReceiptModel) { m.random = r }
}

func WithClock(now func() time.Time) ReceiptModelOption {
	return func(m *ReceiptModel) { m.now = now }
}

// WithOnChange registers a listener called with fresh totals after every
// mutation. It runs with the model unlocked.
func WithOnChange(fn func(entity.Totals)) ReceiptModelOption {
	return func(m *ReceiptModel) { m.onChange = fn }
}

// NewReceiptModel creates a model holding a freshly reset draft.
func NewReceiptModel(catalog *config.Catalog, opts ...ReceiptModelOption) (*ReceiptModel, error) {
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}
	m := &ReceiptModel{
		catalog: catalog,
		random:  rand.Reader,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	d, err := m.defaults()
	if err != nil {
		return nil, err
	}
	m.draft = d
	return m, nil
}

func (m *ReceiptModel) defaults() (entity.Receipt, error) {
	code, err := utils.GenerateTransactionCode(m.random)
	if err != nil {
		return entity.Receipt{}, fmt.Errorf("generate transaction code: %w", err)
	}
	now := m.now()
	return entity.Receipt{
		Font:            m.catalog.DefaultFont,
		Template:        m.catalog.DefaultTemplate,
		LogoSize:        entity.DefaultLogoSize,
		PaymentMethod:   enum.PaymentMethodCash,
		Date:            now.Format(DateLayout),
		Time:            now.Format(TimeLayout),
		Items:           []entity.LineItem{{}},
		TransactionCode: code,
	}, nil
}

// mutate applies fn under the lock and notifies the listener.
func (m *ReceiptModel) mutate(fn func(d *entity.Receipt) error) (entity.Totals, error) {
	m.mu.Lock()
	if err := fn(&m.draft); err != nil {
		m.mu.Unlock()
		return entity.Totals{}, err
	}
	totals := ComputeTotals(m.draft)
	listener := m.onChange
	m.mu.Unlock()

	if listener != nil {
		listener(totals)
	}
	return totals, nil
}

// SetField stores value verbatim under a named scalar field.
func (m *ReceiptModel) SetField(name, value string) (entity.Totals, error) {
	field := enum.ReceiptField(name)
	if !field.IsValid() {
		return entity.Totals{}, apperror.NewUnknownFieldError(name)
	}
	return m.mutate(func(d *entity.Receipt) error {
		switch field {
		case enum.FieldStoreName:
			d.StoreName = value
		case enum.FieldStoreAddress:
			d.StoreAddress = value
		case enum.FieldPhone:
			d.Phone = value
		case enum.FieldCashier:
			d.Cashier = value
		case enum.FieldFont:
			d.Font = value
		case enum.FieldTemplate:
			d.Template = value
		case enum.FieldRegister:
			d.Register = value
		case enum.FieldTransaction:
			d.Transaction = value
		case enum.FieldTaxRate:
			d.TaxRate = value
		case enum.FieldLogoSize:
			d.LogoSize = value
		case enum.FieldPaymentMethod:
			d.PaymentMethod = enum.ParsePaymentMethod(value)
		case enum.FieldCardLast4:
			d.CardLast4 = value
		case enum.FieldFooter:
			d.Footer = value
		case enum.FieldDate:
			d.Date = value
		case enum.FieldTime:
			d.Time = value
		}
		return nil
	})
}

// SetLogo attaches an image as a data URL.
func (m *ReceiptModel) SetLogo(data []byte, contentType string) (entity.Totals, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !logoTypes[ct] || len(data) == 0 {
		return entity.Totals{}, apperror.ErrUnsupportedImage
	}
	if err := render.CheckLogo(data); err != nil {
		if errors.Is(err, render.ErrLogoTooLarge) {
			return entity.Totals{}, apperror.ErrLogoTooLarge
		}
		return entity.Totals{}, apperror.ErrUnsupportedImage
	}
	src := "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data)
	return m.mutate(func(d *entity.Receipt) error {
		d.LogoSrc = src
		return nil
	})
}

func (m *ReceiptModel) ClearLogo() entity.Totals {
	t, _ := m.mutate(func(d *entity.Receipt) error {
		d.LogoSrc = ""
		return nil
	})
	return t
}

// AddLineItem appends an empty row.
func (m *ReceiptModel) AddLineItem() entity.Totals {
	t, _ := m.mutate(func(d *entity.Receipt) error {
		d.Items = append(d.Items, entity.LineItem{})
		return nil
	})
	return t
}

func (m *ReceiptModel) UpdateLineItem(index int, name, price string) (entity.Totals, error) {
	return m.mutate(func(d *entity.Receipt) error {
		if index < 0 || index >= len(d.Items) {
			return apperror.NewNotFoundError(fmt.Sprintf("Line item %d", index))
		}
		d.Items[index] = entity.LineItem{Name: name, Price: price}
		return nil
	})
}

// RemoveLineItem deletes a row. Out of range indices are ignored.
func (m *ReceiptModel) RemoveLineItem(index int) entity.Totals {
	t, _ := m.mutate(func(d *entity.Receipt) error {
		if index < 0 || index >= len(d.Items) {
			return nil
		}
		d.Items = append(d.Items[:index:index], d.Items[index+1:]...)
		return nil
	})
	return t
}

func (m *ReceiptModel) ComputeTotals() entity.Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ComputeTotals(m.draft)
}

func (m *ReceiptModel) TransactionCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.TransactionCode
}

// ResetToDefaults clears the draft once confirmer approves. A declined
// prompt leaves the draft untouched.
func (m *ReceiptModel) ResetToDefaults(ctx context.Context, confirmer Confirmer) (entity.Totals, error) {
	if confirmer == nil || !confirmer.Confirm(ctx, ResetPrompt) {
		return entity.Totals{}, apperror.NewConfirmationError(ResetPrompt)
	}
	d, err := m.defaults()
	if err != nil {
		return entity.Totals{}, err
	}
	return m.mutate(func(cur *entity.Receipt) error {
		*cur = d
		return nil
	})
}

// Snapshot returns a deep copy of the draft.
func (m *ReceiptModel) Snapshot() entity.Receipt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.Clone()
}

// Load replaces the draft with a saved receipt.
func (m *ReceiptModel) Load(r entity.Receipt) entity.Totals {
	d := r.Clone()
	if !strings.HasPrefix(d.LogoSrc, "data:") {
		d.LogoSrc = ""
	}
	if len(d.Items) == 0 {
		d.Items = []entity.LineItem{{}}
	}
	if d.LogoSize == "" {
		d.LogoSize = entity.DefaultLogoSize
	}
	d.PaymentMethod = enum.ParsePaymentMethod(d.PaymentMethod.String())

	t, _ := m.mutate(func(cur *entity.Receipt) error {
		if d.TransactionCode == "" {
			d.TransactionCode = cur.TransactionCode
		}
		*cur = d
		return nil
	})
	return t
}

// View renders the draft into display strings.
func (m *ReceiptModel) View() render.View {
	m.mu.Lock()
	d := m.draft.Clone()
	m.mu.Unlock()
	return BuildView(d, m.catalog)
}

// ComputeTotals derives the amounts of a receipt. Unparseable prices and
// tax rates count as zero.
func ComputeTotals(r entity.Receipt) entity.Totals {
	subtotal := decimal.Zero
	count := 0
	for _, it := range r.Items {
		if it.IsBlank() {
			continue
		}
		count++
		if p, ok := it.ParsedPrice(); ok {
			subtotal = subtotal.Add(p)
		}
	}

	rate := money.ParseOr(r.TaxRate, decimal.Zero)
	tax := money.Percent(subtotal, rate)
	total := subtotal.Add(tax)

	t := entity.Totals{
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
		Tendered:  decimal.Zero,
		Change:    decimal.Zero,
		ItemCount: count,
		Cash:      r.PaymentMethod.IsCash(),
	}
	if t.Cash && total.IsPositive() {
		t.Tendered = money.RoundUpToTen(total)
		t.Change = t.Tendered.Sub(total)
	}
	return t
}

// BuildView formats a receipt for rendering and printing.
func BuildView(r entity.Receipt, catalog *config.Catalog) render.View {
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}
	totals := ComputeTotals(r)

	v := render.View{
		StoreName:       r.StoreName,
		Phone:           r.Phone,
		ItemCount:       totals.ItemCount,
		TransactionCode: r.TransactionCode,
		DateLine:        DateLine(r.Date, r.Time),
		Font:            catalog.Font(r.Font),
		Template:        catalog.Template(r.Template),
		LogoWidth:       logoWidth(r.LogoSize),
	}

	address := r.StoreAddress
	if address == "" {
		address = addressPlaceholder
	}
	v.AddressLines = splitLines(address)

	if r.Cashier != "" {
		v.Meta = append(v.Meta, render.Row{Label: "CASHIER", Value: r.Cashier})
	}
	if r.Register != "" {
		v.Meta = append(v.Meta, render.Row{Label: "REG #", Value: r.Register})
	}
	if r.Transaction != "" {
		v.Meta = append(v.Meta, render.Row{Label: "TRANS #", Value: r.Transaction})
	}

	for _, it := range r.Items {
		if it.IsBlank() {
			continue
		}
		name := it.Name
		if name == "" {
			name = unnamedItem
		}
		price, _ := it.ParsedPrice()
		v.Items = append(v.Items, render.Row{Label: name, Value: money.Format(price)})
	}

	taxLabel := "TAX"
	if rate, ok := money.Parse(r.TaxRate); ok {
		taxLabel = "TAX " + rate.String() + "%"
	}
	v.Totals = []render.Row{
		{Label: "SUBTOTAL", Value: money.Format(totals.Subtotal)},
		{Label: taxLabel, Value: money.Format(totals.Tax)},
		{Label: "TOTAL", Value: money.Format(totals.Total), Bold: true},
	}

	if totals.Cash {
		v.Payment = []render.Row{
			{Label: "CASH TEND", Value: money.Format(totals.Tendered)},
			{Label: "CHANGE DUE", Value: money.Format(totals.Change)},
		}
	} else {
		v.Payment = []render.Row{
			{Label: r.PaymentMethod.Label(r.CardLast4), Value: ""},
			{Label: "CHARGED", Value: money.Format(totals.Total)},
		}
	}

	if r.Footer != "" {
		v.Footer = splitLines(r.Footer)
	}
	v.Logo = decodeDataURL(r.LogoSrc)
	return v
}

// DateLine formats the date and time fields as "JAN 2, 2006, 3:04 PM". It
// returns "" when either field is missing or invalid.
func DateLine(date, clock string) string {
	if date == "" || clock == "" {
		return ""
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, time.Local)
	if err != nil {
		return ""
	}
	return strings.ToUpper(t.Format(dateLineLayout))
}

func logoWidth(size string) int {
	n, err := strconv.Atoi(strings.TrimSpace(size))
	if err != nil || n <= 0 {
		n, _ = strconv.Atoi(entity.DefaultLogoSize)
	}
	return n
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

// decodeDataURL returns the payload of a base64 data URL, or nil.
func decodeDataURL(src string) []byte {
	if !strings.HasPrefix(src, "data:") {
		return nil
	}
	meta, payload, ok := strings.Cut(src, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	return b
}
