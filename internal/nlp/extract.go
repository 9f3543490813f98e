package nlp

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Fields is the outcome of running the extraction rules over one message.
// Quantity and Amount are null when no matching span was found.
type Fields struct {
	Item     string
	Note     string
	Quantity decimal.NullDecimal
	Unit     string
	Amount   decimal.NullDecimal
	Type     TxType
}

// Parser applies the ordered extraction rules of a Vocabulary.
type Parser struct {
	vocab Vocabulary
}

func NewParser(vocab Vocabulary) *Parser {
	return &Parser{vocab: vocab}
}

type span struct{ start, end int }

// Extract pulls amount, quantity+unit and transaction type out of text
// and leaves whatever remains as item name and note. Rules run in a fixed
// priority order and each byte of input is consumed at most once:
//
//  1. the first token carrying a magnitude suffix or preceded by a price
//     marker becomes the amount; later monetary tokens stay in the
//     residual untouched,
//  2. the first bare number directly followed by a unit token becomes the
//     quantity; a bare number without a unit is never a quantity,
//  3. a lone number that matched neither rule is attributed to amount,
//  4. the leftmost transaction keyword sets the type,
//  5. the remaining text, original casing intact, is the item name; text
//     after the note marker becomes the note.
func (p *Parser) Extract(text string) Fields {
	trimmed := strings.TrimSpace(text)
	lowered, tokens := Normalize(text)

	var f Fields
	f.Type = TxUnknown
	consumed := make([]bool, len(tokens))
	var spans []span

	// Rule 1: monetary amount.
	for i, tok := range tokens {
		start := tok.Start
		monetary := tok.Magnitude > 1
		if ms, ok := p.precedingMarker(lowered, tok.Start); ok {
			monetary = true
			start = ms
		}
		if !monetary {
			continue
		}
		f.Amount = decimal.NullDecimal{Decimal: tok.Resolved(), Valid: true}
		consumed[i] = true
		spans = append(spans, span{start, tok.End})
		break
	}

	// Rule 2: quantity followed by a unit token.
	for i, tok := range tokens {
		if consumed[i] || tok.Magnitude > 1 {
			continue
		}
		ws, we, ok := followingWord(lowered, tok.End)
		if !ok || !p.vocab.isUnit(lowered[ws:we]) {
			continue
		}
		f.Quantity = decimal.NullDecimal{Decimal: tok.Value, Valid: true}
		f.Unit = lowered[ws:we]
		consumed[i] = true
		spans = append(spans, span{tok.Start, we})
		break
	}

	// Rule 3: a single leftover number with no unit is the amount.
	if !f.Amount.Valid && !f.Quantity.Valid && len(tokens) == 1 {
		tok := tokens[0]
		f.Amount = decimal.NullDecimal{Decimal: tok.Resolved(), Valid: true}
		spans = append(spans, span{tok.Start, tok.End})
	}

	// Rule 4: leftmost transaction-type keyword.
	if kw, ok := p.leftmostKeyword(lowered); ok {
		f.Type = kw.txType
		spans = append(spans, span{kw.start, kw.end})
	}

	// Rule 5: residual text.
	residual := removeSpans(trimmed, spans)
	f.Item, f.Note = p.splitNote(residual)
	return f
}

type keywordHit struct {
	txType     TxType
	start, end int
}

// leftmostKeyword scans all four keyword sets and returns the earliest
// whole-word occurrence. Ties cannot occur: two distinct keywords cannot
// start at the same offset and both match whole words.
func (p *Parser) leftmostKeyword(lowered string) (keywordHit, bool) {
	best := keywordHit{start: -1}
	for _, txType := range []TxType{TxSale, TxPurchase, TxExpense, TxIncome} {
		for _, w := range p.vocab.Keywords[txType] {
			i := indexWord(lowered, w)
			if i >= 0 && (best.start < 0 || i < best.start) {
				best = keywordHit{txType: txType, start: i, end: i + len(w)}
			}
		}
	}
	return best, best.start >= 0
}

// precedingMarker reports the start offset of a price-marker word sitting
// immediately before pos, separated only by spaces.
func (p *Parser) precedingMarker(lowered string, pos int) (int, bool) {
	end := pos
	for end > 0 && lowered[end-1] == ' ' {
		end--
	}
	start := end
	for start > 0 && isWordByte(lowered[start-1]) {
		start--
	}
	if start == end || !p.vocab.isPriceMarker(lowered[start:end]) {
		return 0, false
	}
	return start, true
}

// followingWord finds the word immediately after pos, skipping spaces.
func followingWord(s string, pos int) (int, int, bool) {
	start := pos
	for start < len(s) && s[start] == ' ' {
		start++
	}
	end := start
	for end < len(s) && isWordByte(s[end]) {
		end++
	}
	if end == start {
		return 0, 0, false
	}
	return start, end, true
}

// indexWord returns the offset of w in s as a whole word, or -1.
func indexWord(s, w string) int {
	for from := 0; from <= len(s)-len(w); {
		i := strings.Index(s[from:], w)
		if i < 0 {
			return -1
		}
		i += from
		j := i + len(w)
		if (i == 0 || !isWordByte(s[i-1])) && (j == len(s) || !isWordByte(s[j])) {
			return i
		}
		from = i + 1
	}
	return -1
}

// removeSpans cuts the matched spans out of text and collapses the
// whitespace that is left behind.
func removeSpans(text string, spans []span) string {
	if len(spans) == 0 {
		return strings.Join(strings.Fields(text), " ")
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		if sp.start > prev {
			b.WriteString(text[prev:sp.start])
			b.WriteByte(' ')
		}
		if sp.end > prev {
			prev = sp.end
		}
	}
	if prev < len(text) {
		b.WriteString(text[prev:])
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// splitNote separates "item ... catatan <note>" into its two halves.
func (p *Parser) splitNote(residual string) (string, string) {
	lowered := asciiLower(residual)
	i := indexWord(lowered, p.vocab.NoteMarker)
	if i < 0 {
		return residual, ""
	}
	item := strings.TrimSpace(residual[:i])
	note := strings.TrimSpace(residual[i+len(p.vocab.NoteMarker):])
	note = strings.TrimSpace(strings.TrimPrefix(note, ":"))
	return item, note
}
