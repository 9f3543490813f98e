package nlp

// Vocabulary holds the fixed token sets the extractor matches against.
// A Vocabulary is treated as immutable once handed to a Parser; custom
// grammars are supported by constructing an alternate Vocabulary, never
// by mutating a shared one.
type Vocabulary struct {
	// Units are quantity-unit tokens ("2 unit", "5 kg").
	Units []string
	// PriceMarkers are words that mark the following number as a price.
	PriceMarkers []string
	// Keywords maps a transaction type to the words that imply it.
	Keywords map[TxType][]string
	// NoteMarker separates the item name from a trailing free-text note.
	NoteMarker string
}

// DefaultVocabulary returns the Indonesian shorthand grammar the bot
// understands out of the box.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Units:        []string{"unit", "buah", "pcs", "kg", "gram", "liter", "rim", "lusin", "box"},
		PriceMarkers: []string{"harga", "seharga", "senilai", "sebesar"},
		Keywords: map[TxType][]string{
			TxSale:     {"terjual", "dijual", "sold", "laku"},
			TxPurchase: {"dibeli", "beli", "bought", "purchase"},
			TxExpense:  {"biaya", "expense", "cost", "pengeluaran"},
			TxIncome:   {"pemasukan", "income", "revenue", "hasil"},
		},
		NoteMarker: "catatan",
	}
}

func (v Vocabulary) isUnit(w string) bool {
	for _, u := range v.Units {
		if w == u {
			return true
		}
	}
	return false
}

func (v Vocabulary) isPriceMarker(w string) bool {
	for _, m := range v.PriceMarkers {
		if w == m {
			return true
		}
	}
	return false
}
