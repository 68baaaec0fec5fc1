package enum

// ReceiptField names an editable scalar field of the draft receipt. The names
// match the JSON keys of the persisted receipt.
type ReceiptField string

const (
	FieldStoreName     ReceiptField = "storeName"
	FieldStoreAddress  ReceiptField = "storeAddress"
	FieldPhone         ReceiptField = "phone"
	FieldCashier       ReceiptField = "cashier"
	FieldFont          ReceiptField = "font"
	FieldTemplate      ReceiptField = "template"
	FieldRegister      ReceiptField = "register"
	FieldTransaction   ReceiptField = "transaction"
	FieldTaxRate       ReceiptField = "taxRate"
	FieldLogoSize      ReceiptField = "logoSize"
	FieldPaymentMethod ReceiptField = "paymentMethod"
	FieldCardLast4     ReceiptField = "cardLast4"
	FieldFooter        ReceiptField = "footer"
	FieldDate          ReceiptField = "date"
	FieldTime          ReceiptField = "time"
)

var receiptFields = map[ReceiptField]struct{}{
	FieldStoreName:     {},
	FieldStoreAddress:  {},
	FieldPhone:         {},
	FieldCashier:       {},
	FieldFont:          {},
	FieldTemplate:      {},
	FieldRegister:      {},
	FieldTransaction:   {},
	FieldTaxRate:       {},
	FieldLogoSize:      {},
	FieldPaymentMethod: {},
	FieldCardLast4:     {},
	FieldFooter:        {},
	FieldDate:          {},
	FieldTime:          {},
}

func (f ReceiptField) IsValid() bool {
	_, ok := receiptFields[f]
	return ok
}
