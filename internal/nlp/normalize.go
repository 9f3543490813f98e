package nlp

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// NumToken is one numeric-shorthand occurrence found in the input.
// Start and End are byte offsets into the normalized text; lowering is
// ASCII-only and length-preserving, so the same offsets are valid in the
// trimmed original-case text.
type NumToken struct {
	Raw       string
	Start     int
	End       int
	Value     decimal.Decimal
	Magnitude int64
}

// Resolved returns the literal value with its magnitude suffix applied.
func (t NumToken) Resolved() decimal.Decimal {
	return t.Value.Mul(decimal.NewFromInt(t.Magnitude))
}

// A number literal, optionally followed by a magnitude suffix. The
// trailing boundary lives inside the suffix branch so a bare number does
// not swallow the whitespace before the next word.
var numRe = regexp.MustCompile(`\b(\d+(?:[.,]\d+)*)(?:\s?(jt|juta|rb|ribu)\b)?`)

// Normalize lower-cases and trims raw text and scans it for numeric
// shorthand. It never fails: text without shorthand yields the normalized
// text and an empty token list.
func Normalize(text string) (string, []NumToken) {
	normalized := asciiLower(strings.TrimSpace(text))

	var tokens []NumToken
	for _, m := range numRe.FindAllStringSubmatchIndex(normalized, -1) {
		lit := normalized[m[2]:m[3]]
		value, err := resolveLiteral(lit)
		if err != nil {
			continue
		}
		tok := NumToken{
			Raw:       normalized[m[0]:m[1]],
			Start:     m[0],
			End:       m[1],
			Value:     value,
			Magnitude: 1,
		}
		if m[4] >= 0 {
			switch normalized[m[4]:m[5]] {
			case "jt", "juta":
				tok.Magnitude = 1_000_000
			case "rb", "ribu":
				tok.Magnitude = 1_000
			}
		}
		tokens = append(tokens, tok)
	}
	return normalized, tokens
}

// resolveLiteral turns a literal like "2.5", "15.000.000" or "1,5" into a
// value. The last separator counts as a decimal point only when 1-2
// digits follow it; every other separator is thousands grouping.
func resolveLiteral(s string) (decimal.Decimal, error) {
	intPart, fracPart := s, ""
	if i := strings.LastIndexAny(s, ".,"); i >= 0 && len(s)-i-1 <= 2 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	clean := strings.NewReplacer(".", "", ",", "").Replace(intPart)
	if fracPart != "" {
		clean += "." + fracPart
	}
	return decimal.NewFromString(clean)
}

// asciiLower lowers A-Z only, keeping byte offsets stable for any input.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
