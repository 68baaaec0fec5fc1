package entity

import (
	"bytes"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/sangkips/receipt-studio/internal/domain/enum"
	"github.com/sangkips/receipt-studio/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultLogoSize is the logo width in pixels when none is set.
const DefaultLogoSize = "150"

// LineItem is one row of the receipt. Price keeps the raw text the user
// typed so it can be shown back unchanged.
type LineItem struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// ParsedPrice returns the price and whether it was a valid number.
func (i LineItem) ParsedPrice() (decimal.Decimal, bool) {
	return money.Parse(i.Price)
}

// IsBlank reports a row with neither name nor price text.
func (i LineItem) IsBlank() bool {
	return i.Name == "" && i.Price == ""
}

// UnmarshalJSON accepts the price either as a string or as a JSON number.
func (i *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string          `json:"name"`
		Price json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.Name = raw.Name
	i.Price = ""

	p := bytes.TrimSpace(raw.Price)
	if len(p) == 0 || bytes.Equal(p, []byte("null")) {
		return nil
	}
	if p[0] == '"' {
		return json.Unmarshal(p, &i.Price)
	}
	var n json.Number
	if err := json.Unmarshal(p, &n); err != nil {
		return err
	}
	i.Price = n.String()
	return nil
}

// Receipt is the editable draft. The same shape is persisted inside each
// history entry.
type Receipt struct {
	StoreName       string             `json:"storeName"`
	StoreAddress    string             `json:"storeAddress"`
	Phone           string             `json:"phone"`
	Cashier         string             `json:"cashier"`
	Font            string             `json:"font"`
	Template        string             `json:"template"`
	Register        string             `json:"register"`
	Transaction     string             `json:"transaction"`
	TaxRate         string             `json:"taxRate"`
	LogoSrc         string             `json:"logoSrc"`
	LogoSize        string             `json:"logoSize"`
	PaymentMethod   enum.PaymentMethod `json:"paymentMethod"`
	CardLast4       string             `json:"cardLast4"`
	Footer          string             `json:"footer"`
	Date            string             `json:"date"`
	Time            string             `json:"time"`
	Items           []LineItem         `json:"items"`
	TransactionCode string             `json:"transactionCode"`
}

// Clone returns a deep copy; the copy shares no slices with r.
func (r Receipt) Clone() Receipt {
	c := r
	if r.Items != nil {
		c.Items = make([]LineItem, len(r.Items))
		copy(c.Items, r.Items)
	}
	return c
}

// HasLogo reports whether an inline image is attached.
func (r Receipt) HasLogo() bool {
	return r.LogoSrc != ""
}

// Totals are the derived amounts of a receipt. Amounts are full precision;
// round only when formatting.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	Tendered  decimal.Decimal `json:"tendered"`
	Change    decimal.Decimal `json:"change"`
	ItemCount int             `json:"itemCount"`
	Cash      bool            `json:"cash"`
}

// HistoryEntry is an immutable snapshot saved on download. The receipt
// fields are flattened into the entry when serialized.
type HistoryEntry struct {
	ID        snowflake.ID `json:"id"`
	Timestamp string       `json:"timestamp"`
	Total     string       `json:"total"`
	Receipt
}

// Clone returns a deep copy of the entry.
func (e HistoryEntry) Clone() HistoryEntry {
	c := e
	c.Receipt = e.Receipt.Clone()
	return c
}

// DisplayName is the store name shown in history listings.
func (e HistoryEntry) DisplayName() string {
	if e.StoreName == "" {
		return "Unnamed Store"
	}
	return e.StoreName
}
