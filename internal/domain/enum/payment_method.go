package enum

import (
	"encoding/json"
	"strings"
)

// PaymentMethod is how the receipt was paid: cash or a card brand.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodVisa       PaymentMethod = "VISA"
	PaymentMethodMastercard PaymentMethod = "MASTERCARD"
	PaymentMethodAmex       PaymentMethod = "AMEX"
	PaymentMethodDiscover   PaymentMethod = "DISCOVER"
)

// DefaultCardLast4 is printed when a card payment has no digits set.
const DefaultCardLast4 = "1234"

// ParsePaymentMethod normalizes user input. Empty input means cash; any other
// label is kept as a card brand.
func ParsePaymentMethod(s string) PaymentMethod {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return PaymentMethodCash
	}
	return PaymentMethod(s)
}

func (p PaymentMethod) IsCash() bool {
	return p == PaymentMethodCash || p == ""
}

func (p PaymentMethod) String() string {
	if p == "" {
		return string(PaymentMethodCash)
	}
	return string(p)
}

// Label is the payment line printed on the receipt, e.g. "VISA **** 4242".
func (p PaymentMethod) Label(last4 string) string {
	if p.IsCash() {
		return string(PaymentMethodCash)
	}
	last4 = strings.TrimSpace(last4)
	if last4 == "" {
		last4 = DefaultCardLast4
	}
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return p.String() + " **** " + last4
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*p = ParsePaymentMethod(str)
	return nil
}
