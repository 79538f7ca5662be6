package cesu8

import (
	"testing"

	"golang.org/x/text/transform"
)

func TestRuneLen(t *testing.T) {
	cases := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'é', 2},   // é, 2-byte UTF-8
		{'中', 3},   // 中, 3-byte UTF-8
		{'\U0001F600', 6}, // 😀, above the BMP: two 3-byte surrogate halves
	}
	for _, c := range cases {
		if got := RuneLen(c.r); got != c.want {
			t.Errorf("RuneLen(%q) = %d, want %d", c.r, got, c.want)
		}
	}
}

func TestEncodeDecodeRuneRoundTrip(t *testing.T) {
	runes := []rune{'a', 'é', '中', '\U0001F600', '\U0001F4A9'}
	for _, r := range runes {
		buf := make([]byte, CESUMax)
		n := EncodeRune(buf, r)
		got, sz := DecodeRune(buf[:n])
		if got != r {
			t.Errorf("DecodeRune(EncodeRune(%q)) = %q", r, got)
		}
		if sz != n {
			t.Errorf("DecodeRune width = %d, want %d", sz, n)
		}
	}
}

func TestStringSize(t *testing.T) {
	s := "aé\U0001F600"
	want := 1 + 2 + 6
	if got := StringSize(s); got != want {
		t.Errorf("StringSize(%q) = %d, want %d", s, got, want)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	input := "hello, 中文, \U0001F600!"

	toCESU8 := NewEncoder()
	cesu, _, err := transform.Bytes(toCESU8, []byte(input))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(cesu) != StringSize(input) {
		t.Fatalf("encoded length = %d, want %d", len(cesu), StringSize(input))
	}

	toUTF8 := NewDecoder()
	back, _, err := transform.Bytes(toUTF8, cesu)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(back) != input {
		t.Fatalf("round trip = %q, want %q", back, input)
	}
}
