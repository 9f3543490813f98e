package nlp

import (
	"testing"
	"time"
)

func testParser() *Parser { return NewParser(DefaultVocabulary()) }

func TestExtract_QuantityWithUnit(t *testing.T) {
	f := testParser().Extract("Monitor 2 unit")
	if !f.Quantity.Valid || f.Quantity.Decimal.String() != "2" {
		t.Fatalf("quantity not extracted: %+v", f)
	}
	if f.Unit != "unit" {
		t.Fatalf("want unit %q, got %q", "unit", f.Unit)
	}
	if f.Item != "Monitor" {
		t.Fatalf("want item Monitor, got %q", f.Item)
	}
}

func TestExtract_BareNumberWithoutUnitStaysInResidual(t *testing.T) {
	f := testParser().Extract("kertas A4 80 gsm terjual 3 pcs")
	if !f.Quantity.Valid || f.Quantity.Decimal.String() != "3" || f.Unit != "pcs" {
		t.Fatalf("quantity should come from '3 pcs': %+v", f)
	}
	if f.Item != "kertas A4 80 gsm" {
		t.Fatalf("bare 80 must stay in the item name, got %q", f.Item)
	}
}

func TestExtract_KeywordSets(t *testing.T) {
	cases := []struct {
		in   string
		want TxType
	}{
		{"laptop terjual", TxSale},
		{"laptop DIJUAL", TxSale},
		{"tinta dibeli", TxPurchase},
		{"listrik biaya", TxExpense},
		{"pemasukan sewa", TxIncome},
		{"laptop bekas", TxUnknown},
	}
	for _, c := range cases {
		if got := testParser().Extract(c.in).Type; got != c.want {
			t.Fatalf("%q: want %s, got %s", c.in, c.want, got)
		}
	}
}

func TestExtract_FirstMonetaryTokenWins(t *testing.T) {
	f := testParser().Extract("genset terjual seharga 5jt 300rb")
	if !f.Amount.Valid || f.Amount.Decimal.String() != "5000000" {
		t.Fatalf("first monetary token must win: %+v", f)
	}
	// The second token is ignored, not merged: it stays in the residual.
	if f.Item != "genset 300rb" {
		t.Fatalf("ignored token must stay in residual, got %q", f.Item)
	}
}

func TestExtract_LoneNumberBecomesAmount(t *testing.T) {
	f := testParser().Extract("pulsa 50000")
	if !f.Amount.Valid || f.Amount.Decimal.String() != "50000" {
		t.Fatalf("lone number must be the amount: %+v", f)
	}
	if f.Quantity.Valid {
		t.Fatalf("no quantity expected: %+v", f)
	}
	if f.Item != "pulsa" {
		t.Fatalf("want item pulsa, got %q", f.Item)
	}
}

func TestExtract_PriceMarkerConsumed(t *testing.T) {
	f := testParser().Extract("proyektor dibeli harga 3.5jt")
	if !f.Amount.Valid || f.Amount.Decimal.String() != "3500000" {
		t.Fatalf("amount not extracted: %+v", f)
	}
	if f.Item != "proyektor" {
		t.Fatalf("marker word must be consumed with the amount, got %q", f.Item)
	}
}

func TestExtract_NoteMarker(t *testing.T) {
	f := testParser().Extract("Printer terjual 1 unit catatan: pembayaran transfer")
	if f.Item != "Printer" {
		t.Fatalf("want item Printer, got %q", f.Item)
	}
	if f.Note != "pembayaran transfer" {
		t.Fatalf("want note, got %q", f.Note)
	}
}

func TestExtract_EndToEndSale(t *testing.T) {
	f := testParser().Extract("Laptop Asus terjual 2 unit seharga 15jt")
	r, err := Build(f, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.ItemName != "Laptop Asus" {
		t.Fatalf("item: %q", r.ItemName)
	}
	if r.Quantity.Decimal.String() != "2" || r.Unit != "unit" {
		t.Fatalf("quantity: %+v unit %q", r.Quantity, r.Unit)
	}
	if r.Amount.Decimal.String() != "15000000" {
		t.Fatalf("amount: %+v", r.Amount)
	}
	if r.Type != TxSale {
		t.Fatalf("type: %s", r.Type)
	}
}

func TestExtract_EndToEndPurchase(t *testing.T) {
	f := testParser().Extract("Beli kertas A4 5 rim harga 250rb")
	r, err := Build(f, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.ItemName != "kertas A4" {
		t.Fatalf("item: %q", r.ItemName)
	}
	if r.Quantity.Decimal.String() != "5" || r.Unit != "rim" {
		t.Fatalf("quantity: %+v unit %q", r.Quantity, r.Unit)
	}
	if r.Amount.Decimal.String() != "250000" {
		t.Fatalf("amount: %+v", r.Amount)
	}
	if r.Type != TxPurchase {
		t.Fatalf("type: %s", r.Type)
	}
}

func TestExtract_CustomVocabulary(t *testing.T) {
	v := DefaultVocabulary()
	v.Units = append([]string{"karung"}, v.Units...)
	f := NewParser(v).Extract("beras 10 karung")
	if !f.Quantity.Valid || f.Unit != "karung" {
		t.Fatalf("custom unit not honored: %+v", f)
	}
}
