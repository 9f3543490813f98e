package nlp

import (
	"testing"
)

func TestNormalize_MagnitudeSuffixes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"15jt", "15000000"},
		{"15 jt", "15000000"},
		{"2.5juta", "2500000"},
		{"250rb", "250000"},
		{"1,5ribu", "1500"},
		{"7200000", "7200000"},
	}
	for _, c := range cases {
		_, tokens := Normalize(c.in)
		if len(tokens) != 1 {
			t.Fatalf("%q: want 1 token, got %d", c.in, len(tokens))
		}
		if got := tokens[0].Resolved().String(); got != c.want {
			t.Fatalf("%q: want %s, got %s", c.in, c.want, got)
		}
	}
}

func TestNormalize_SeparatorInference(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.000", "1000"},     // 3 digits after the dot: grouping
		{"15.000.000", "15000000"},
		{"1,5", "1.5"},        // 1 digit after the comma: decimal
		{"10.50", "10.5"},     // 2 digits: decimal
		{"1.234,56", "1234.56"},
	}
	for _, c := range cases {
		_, tokens := Normalize(c.in)
		if len(tokens) != 1 {
			t.Fatalf("%q: want 1 token, got %d", c.in, len(tokens))
		}
		if got := tokens[0].Value.String(); got != c.want {
			t.Fatalf("%q: want %s, got %s", c.in, c.want, got)
		}
	}
}

func TestNormalize_LowersAndTrims(t *testing.T) {
	normalized, tokens := Normalize("  Laptop ASUS  ")
	if normalized != "laptop asus" {
		t.Fatalf("unexpected normalized text: %q", normalized)
	}
	if len(tokens) != 0 {
		t.Fatalf("want no tokens, got %+v", tokens)
	}
}

func TestNormalize_MultipleTokensKeepPositions(t *testing.T) {
	normalized, tokens := Normalize("terjual 2 unit seharga 15jt")
	if len(tokens) != 2 {
		t.Fatalf("want 2 tokens, got %d", len(tokens))
	}
	if normalized[tokens[0].Start:tokens[0].End] != "2" {
		t.Fatalf("first token span mismatch: %+v", tokens[0])
	}
	if normalized[tokens[1].Start:tokens[1].End] != "15jt" {
		t.Fatalf("second token span mismatch: %+v", tokens[1])
	}
	if tokens[1].Magnitude != 1_000_000 {
		t.Fatalf("want jt magnitude, got %d", tokens[1].Magnitude)
	}
}

func TestNormalize_DigitGluedToLetterIsNotAToken(t *testing.T) {
	_, tokens := Normalize("kertas A4")
	if len(tokens) != 0 {
		t.Fatalf("A4 must not yield a numeric token, got %+v", tokens)
	}
}
