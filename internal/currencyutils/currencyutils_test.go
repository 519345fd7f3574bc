package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2400.00", "2400"},
		{"2,400.00", "2400"},
		{"1,23,456.78", "123456.78"},
		{"12,34,567.89", "1234567.89"},
		{"₹2400", "2400"},
		{"Rs. 2,400.50", "2400.5"},
		{"INR 100", "100"},
		{"(500.00)", "-500"},
		{"-10", "-10"},
		{"+10", "10"},
		{"", "0"},
	}

	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if err != nil {
			t.Errorf("ParseAmount(%q) returned error: %v", c.in, err)
			continue
		}
		want, _ := decimal.NewFromString(c.want)
		if !got.Equal(want) {
			t.Errorf("ParseAmount(%q) = %s, want %s", c.in, got, want)
		}
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, in := range []string{"N/A", "BUY", "--", "1.2.3"} {
		if _, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q) unexpectedly succeeded", in)
		}
	}
}

func TestLooksLikeNumber(t *testing.T) {
	if !LooksLikeNumber("2,400.00") {
		t.Error("expected '2,400.00' to look like a number")
	}
	if !LooksLikeNumber("(500.00)") {
		t.Error("expected '(500.00)' to look like a number")
	}
	if LooksLikeNumber("RELIANCE") {
		t.Error("expected 'RELIANCE' not to look like a number")
	}
	if LooksLikeNumber("") {
		t.Error("expected empty string not to look like a number")
	}
}

func TestFormatAmount(t *testing.T) {
	d := decimal.NewFromFloat(2400)
	if got := FormatAmount(d); got != "2400.00" {
		t.Errorf("FormatAmount = %q, want %q", got, "2400.00")
	}
}
