package normalization

import (
	"encoding/json"
	"testing"
)

func TestParsePrice(t *testing.T) {
	ok := map[string]string{
		"12.30":     "12.30",
		"12.3":      "12.30",
		"0":         "0.00",
		"999999.99": "999999.99",
		" 7.05 ":    "7.05",
	}
	for in, want := range ok {
		p, err := ParsePrice(in)
		if err != nil {
			t.Fatalf("ParsePrice(%q): %v", in, err)
		}
		if p.String() != want {
			t.Fatalf("ParsePrice(%q) = %s, want %s", in, p, want)
		}
	}
	for _, in := range []string{"12.345", "-1.00", "1234567", "abc", "", "1.", ".5"} {
		if _, err := ParsePrice(in); err == nil {
			t.Fatalf("ParsePrice(%q) should fail", in)
		}
	}
}

func TestPriceJSON(t *testing.T) {
	var body struct {
		Price *Price `json:"price"`
	}
	if err := json.Unmarshal([]byte(`{"price":12.345}`), &body); err == nil {
		t.Fatalf("expected three decimals to be rejected")
	}
	if err := json.Unmarshal([]byte(`{"price":"12.30"}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, _ := json.Marshal(body)
	if string(out) != `{"price":"12.30"}` {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestPriceScan(t *testing.T) {
	cases := []struct {
		src  interface{}
		want string
	}{
		{"12.3000", "12.30"},
		{[]byte("4.50"), "4.50"},
		{float64(19.99), "19.99"},
		{int64(3), "3.00"},
	}
	for _, tc := range cases {
		var p Price
		if err := p.Scan(tc.src); err != nil {
			t.Fatalf("Scan(%v): %v", tc.src, err)
		}
		if p.String() != tc.want {
			t.Fatalf("Scan(%v) = %s, want %s", tc.src, p, tc.want)
		}
	}
}
