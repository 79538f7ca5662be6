package encoding

import (
	"bytes"
	"math/big"
	"testing"
)

func TestPrimitivesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, nil)
	enc.Int8(-7)
	enc.Int16(-1000)
	enc.Uint16(60000)
	enc.Int32(-100000)
	enc.Uint32(4000000000)
	enc.Int64(-1 << 40)
	enc.Uint64(1 << 63)
	enc.Float32(3.5)
	enc.Float64(-2.25)
	enc.Bool(true)
	enc.Bool(false)

	dec := NewDecoder(&buf, nil)
	if got := dec.Int8(); got != -7 {
		t.Fatalf("Int8 = %d, want -7", got)
	}
	if got := dec.Int16(); got != -1000 {
		t.Fatalf("Int16 = %d, want -1000", got)
	}
	if got := dec.Uint16(); got != 60000 {
		t.Fatalf("Uint16 = %d, want 60000", got)
	}
	if got := dec.Int32(); got != -100000 {
		t.Fatalf("Int32 = %d, want -100000", got)
	}
	if got := dec.Uint32(); got != 4000000000 {
		t.Fatalf("Uint32 = %d, want 4000000000", got)
	}
	if got := dec.Int64(); got != -1<<40 {
		t.Fatalf("Int64 = %d, want %d", got, int64(-1)<<40)
	}
	if got := dec.Uint64(); got != 1<<63 {
		t.Fatalf("Uint64 = %d, want %d", got, uint64(1)<<63)
	}
	if got := dec.Float32(); got != 3.5 {
		t.Fatalf("Float32 = %v, want 3.5", got)
	}
	if got := dec.Float64(); got != -2.25 {
		t.Fatalf("Float64 = %v, want -2.25", got)
	}
	if got := dec.Bool(); !got {
		t.Fatal("Bool = false, want true")
	}
	if got := dec.Bool(); got {
		t.Fatal("Bool = true, want false")
	}
	if err := dec.Error(); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
}

func TestLIVarUint32RoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 245, 246, 65535, 65536, 4000000000}
	for _, n := range cases {
		var buf bytes.Buffer
		enc := NewEncoder(&buf, nil)
		enc.LIVarUint32(n)
		dec := NewDecoder(&buf, nil)
		got, ok := dec.LIVarUint32()
		if !ok {
			t.Fatalf("LIVarUint32(%d): unexpected NULL", n)
		}
		if got != n {
			t.Fatalf("LIVarUint32(%d) round trip = %d", n, got)
		}
	}
}

func TestLIVarNull(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, nil)
	enc.LIVarNull()
	dec := NewDecoder(&buf, nil)
	if _, ok := dec.LIVarUint32(); ok {
		t.Fatal("expected NULL discriminator to decode as not-ok")
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	cases := []struct {
		m   *big.Int
		exp int
	}{
		{big.NewInt(0), 0},
		{big.NewInt(12345), -2},
		{big.NewInt(-98765), 3},
		{big.NewInt(1), 0},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		enc := NewEncoder(&buf, nil)
		enc.Decimal(c.m, c.exp)
		dec := NewDecoder(&buf, nil)
		m, exp, ok, err := dec.Decimal()
		if err != nil {
			t.Fatalf("Decimal(%v, %d): %v", c.m, c.exp, err)
		}
		if !ok {
			t.Fatalf("Decimal(%v, %d): unexpected NULL", c.m, c.exp)
		}
		if m.Cmp(c.m) != 0 || exp != c.exp {
			t.Fatalf("Decimal round trip = (%v, %d), want (%v, %d)", m, exp, c.m, c.exp)
		}
	}
}

func TestFixedRoundTrip(t *testing.T) {
	cases := []*big.Int{big.NewInt(0), big.NewInt(255), big.NewInt(-255), big.NewInt(123456789)}
	for _, m := range cases {
		var buf bytes.Buffer
		enc := NewEncoder(&buf, nil)
		enc.Fixed(m, 8)
		dec := NewDecoder(&buf, nil)
		got := dec.Fixed(8)
		if got.Cmp(m) != 0 {
			t.Fatalf("Fixed round trip = %v, want %v", got, m)
		}
	}
}

func TestDecoderLatchesError(t *testing.T) {
	dec := NewDecoder(bytes.NewReader(nil), nil)
	if got := dec.Int32(); got != 0 {
		t.Fatalf("Int32 on empty reader = %d, want 0", got)
	}
	if dec.Error() == nil {
		t.Fatal("expected latched error after short read")
	}
	if got := dec.Int64(); got != 0 {
		t.Fatalf("Int64 after latched error = %d, want 0", got)
	}
}
