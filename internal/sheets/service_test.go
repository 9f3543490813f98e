package sheets

import (
	"reflect"
	"testing"
)

func TestColumnName(t *testing.T) {
	cases := []struct {
		col  int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
	}
	for _, c := range cases {
		if got := columnName(c.col); got != c.want {
			t.Fatalf("columnName(%d): want %s, got %s", c.col, c.want, got)
		}
	}
}

func TestTailRows(t *testing.T) {
	grid := [][]interface{}{
		{"item", "quantity"},
		{"kertas", "5 rim"},
		{"laptop", "2 unit"},
		{"tinta", "3 botol"},
	}
	cases := []struct {
		name   string
		values [][]interface{}
		limit  int
		want   []Row
	}{
		{"empty sheet", nil, 5, nil},
		{"header only", grid[:1], 5, nil},
		{"zero limit", grid, 0, nil},
		{"fewer than limit", grid, 5, []Row{
			{Number: 2, Cells: []string{"kertas", "5 rim"}},
			{Number: 3, Cells: []string{"laptop", "2 unit"}},
			{Number: 4, Cells: []string{"tinta", "3 botol"}},
		}},
		{"more than limit", grid, 2, []Row{
			{Number: 3, Cells: []string{"laptop", "2 unit"}},
			{Number: 4, Cells: []string{"tinta", "3 botol"}},
		}},
	}
	for _, c := range cases {
		if got := tailRows(c.values, c.limit); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%s: want %v, got %v", c.name, c.want, got)
		}
	}
}

func TestRangeFor(t *testing.T) {
	if got := rangeFor("Gudang Utama", "A1"); got != "'Gudang Utama'!A1" {
		t.Fatalf("unexpected range: %q", got)
	}
	if got := rangeFor("Sheet1", ""); got != "'Sheet1'" {
		t.Fatalf("unexpected range: %q", got)
	}
}
