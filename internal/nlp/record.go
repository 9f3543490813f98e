package nlp

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TxType classifies a transaction by the keyword found in the message.
type TxType string

const (
	TxSale     TxType = "sale"
	TxPurchase TxType = "purchase"
	TxExpense  TxType = "expense"
	TxIncome   TxType = "income"
	TxUnknown  TxType = "unknown"
)

// ErrEmptyItem is returned when nothing usable as an item name remains
// after all matched spans are removed.
var ErrEmptyItem = errors.New("empty item name")

// Record is one parsed transaction, ready to be appended to a sheet.
type Record struct {
	ItemName  string              `json:"item_name"`
	Quantity  decimal.NullDecimal `json:"quantity"`
	Unit      string              `json:"unit,omitempty"`
	Amount    decimal.NullDecimal `json:"amount"`
	Type      TxType              `json:"transaction_type"`
	Note      string              `json:"note,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// Build assembles a Record from extracted fields, applying defaults. The
// clock value is injected: the same text and instant always produce an
// identical record.
func Build(f Fields, now time.Time) (Record, error) {
	item := f.Item
	if item == "" {
		return Record{}, ErrEmptyItem
	}
	r := Record{
		ItemName:  item,
		Quantity:  f.Quantity,
		Unit:      f.Unit,
		Amount:    f.Amount,
		Type:      f.Type,
		Note:      f.Note,
		Timestamp: now,
	}
	if r.Amount.Valid && !r.Quantity.Valid {
		r.Quantity = decimal.NullDecimal{Decimal: decimal.NewFromInt(1), Valid: true}
	}
	if r.Quantity.Valid && r.Unit == "" {
		r.Unit = "unit"
	}
	return r, nil
}

// Header is the canonical column order of a managed sheet.
var Header = []string{"item", "quantity", "amount", "type", "note", "timestamp"}

// Row maps the record onto the canonical column order. The unit rides in
// the quantity cell ("2 unit") since there is no unit column.
func (r Record) Row() []interface{} {
	qty, amount := "", ""
	if r.Quantity.Valid {
		qty = r.Quantity.Decimal.String()
		if r.Unit != "" {
			qty += " " + r.Unit
		}
	}
	if r.Amount.Valid {
		amount = r.Amount.Decimal.String()
	}
	return []interface{}{
		r.ItemName,
		qty,
		amount,
		string(r.Type),
		r.Note,
		r.Timestamp.Format("2006-01-02 15:04:05"),
	}
}
