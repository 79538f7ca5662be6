package driver

import (
	"math/big"
	"testing"
)

func TestDecimalToRat(t *testing.T) {
	cases := []struct {
		name string
		d    Decimal
		want *big.Rat
	}{
		{"integer", Decimal{Mantissa: big.NewInt(42), Exp: 0}, big.NewRat(42, 1)},
		{"scaled down", Decimal{Mantissa: big.NewInt(12345), Exp: -2}, big.NewRat(12345, 100)},
		{"scaled up", Decimal{Mantissa: big.NewInt(7), Exp: 3}, big.NewRat(7000, 1)},
		{"negative", Decimal{Mantissa: big.NewInt(-125), Exp: -1}, big.NewRat(-125, 10)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DecimalToRat(c.d)
			if got.Cmp(c.want) != 0 {
				t.Errorf("DecimalToRat(%v) = %s, want %s", c.d, got.RatString(), c.want.RatString())
			}
		})
	}
}

func TestDecimalToRatNilMantissa(t *testing.T) {
	if got := DecimalToRat(Decimal{}); got != nil {
		t.Errorf("DecimalToRat(zero value) = %v, want nil", got)
	}
}

type fixedValuer struct{ v any }

func (f fixedValuer) HdbValue() (any, error) { return f.v, nil }

func TestResolveValueAppliesValuer(t *testing.T) {
	got, err := resolveValue(fixedValuer{v: int64(7)})
	if err != nil {
		t.Fatalf("resolveValue: %v", err)
	}
	if got != int64(7) {
		t.Errorf("resolveValue = %v, want 7", got)
	}
}

func TestResolveValuePassesThroughPlainValues(t *testing.T) {
	got, err := resolveValue("plain")
	if err != nil {
		t.Fatalf("resolveValue: %v", err)
	}
	if got != "plain" {
		t.Errorf("resolveValue = %v, want %q", got, "plain")
	}
}
