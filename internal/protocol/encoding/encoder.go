package encoding

import (
	"encoding/binary"
	"io"
	"math"
	"math/big"

	"golang.org/x/text/transform"
)

// Encoder writes little-endian primitives and HANA-specific typed values
// to an io.Writer.
type Encoder struct {
	wr io.Writer
	b  [32]byte
	tr transform.Transformer
}

// NewEncoder creates an Encoder over wr. encoder, if non-nil, transforms
// outgoing UTF-8 byte sequences to CESU-8.
func NewEncoder(wr io.Writer, encoder transform.Transformer) *Encoder {
	return &Encoder{wr: wr, tr: encoder}
}

// Reset rebinds the Encoder to a new writer.
func (e *Encoder) Reset(wr io.Writer) { e.wr = wr }

func (e *Encoder) write(p []byte) { e.wr.Write(p) }

// Byte writes a single byte.
func (e *Encoder) Byte(b byte) { e.b[0] = b; e.write(e.b[:1]) }

// Bytes writes p verbatim.
func (e *Encoder) Bytes(p []byte) { e.write(p) }

// Bool writes a one-byte boolean.
func (e *Encoder) Bool(b bool) {
	if b {
		e.Byte(1)
	} else {
		e.Byte(0)
	}
}

// Int8 writes a signed byte.
func (e *Encoder) Int8(v int8) { e.Byte(byte(v)) }

// Int16 writes a little-endian int16.
func (e *Encoder) Int16(v int16) {
	binary.LittleEndian.PutUint16(e.b[:2], uint16(v))
	e.write(e.b[:2])
}

// Uint16 writes a little-endian uint16.
func (e *Encoder) Uint16(v uint16) {
	binary.LittleEndian.PutUint16(e.b[:2], v)
	e.write(e.b[:2])
}

// Int32 writes a little-endian int32.
func (e *Encoder) Int32(v int32) {
	binary.LittleEndian.PutUint32(e.b[:4], uint32(v))
	e.write(e.b[:4])
}

// Uint32 writes a little-endian uint32.
func (e *Encoder) Uint32(v uint32) {
	binary.LittleEndian.PutUint32(e.b[:4], v)
	e.write(e.b[:4])
}

// Int64 writes a little-endian int64.
func (e *Encoder) Int64(v int64) {
	binary.LittleEndian.PutUint64(e.b[:8], uint64(v))
	e.write(e.b[:8])
}

// Uint64 writes a little-endian uint64.
func (e *Encoder) Uint64(v uint64) {
	binary.LittleEndian.PutUint64(e.b[:8], v)
	e.write(e.b[:8])
}

// Float32 writes an IEEE-754 single precision float.
func (e *Encoder) Float32(v float32) {
	binary.LittleEndian.PutUint32(e.b[:4], math.Float32bits(v))
	e.write(e.b[:4])
}

// Float64 writes an IEEE-754 double precision float.
func (e *Encoder) Float64(v float64) {
	binary.LittleEndian.PutUint64(e.b[:8], math.Float64bits(v))
	e.write(e.b[:8])
}

// Zeroes writes n zero bytes, used for header filler and Part padding.
func (e *Encoder) Zeroes(n int) {
	if n <= 0 {
		return
	}
	z := make([]byte, n)
	e.write(z)
}

// LIVarUint32 writes n as a LENIND-encoded length.
func (e *Encoder) LIVarUint32(n uint32) {
	switch {
	case n <= lenIndMaxTiny:
		e.Byte(byte(n))
	case n <= 1<<16-1:
		e.Byte(lenIndInt16)
		e.Uint16(uint16(n))
	default:
		e.Byte(lenIndInt32)
		e.Uint32(n)
	}
}

// LIVarNull writes the NULL/empty LENIND discriminator.
func (e *Encoder) LIVarNull() { e.Byte(lenIndNull) }

// CESU8Bytes transforms p (UTF-8) to CESU-8 and writes it.
func (e *Encoder) CESU8Bytes(p []byte) error {
	if e.tr == nil {
		e.write(p)
		return nil
	}
	e.tr.Reset()
	out, _, err := transform.Bytes(e.tr, p)
	if err != nil {
		return err
	}
	e.write(out)
	return nil
}

// Decimal writes m*10^exp as a 16-byte packed decimal.
func (e *Encoder) Decimal(m *big.Int, exp int) {
	const size = 16
	const bias = 6176
	bs := make([]byte, size)
	neg := m.Sign() < 0
	abs := new(big.Int).Abs(m)
	bits := abs.Bits()
	for i := 0; i < len(bits) && i*int(wordSize) < 15; i++ {
		w := bits[i]
		for j := 0; j < int(wordSize) && i*int(wordSize)+j < 15; j++ {
			bs[i*int(wordSize)+j] = byte(w >> uint(j*8))
		}
	}
	biased := uint16(exp + bias)
	bs[14] |= byte(biased << 1)
	bs[15] = byte(biased >> 7)
	if neg {
		bs[15] |= 0x80
	}
	e.write(bs)
}

// Fixed writes m as a size-byte two's-complement fixed-point mantissa.
func (e *Encoder) Fixed(m *big.Int, size int) {
	bs := make([]byte, size)
	if m.Sign() < 0 {
		abs := new(big.Int).Abs(m)
		abs.Sub(abs, natOne)
		bits := abs.Bits()
		for i := 0; i < len(bits) && i*int(wordSize) < size; i++ {
			w := bits[i]
			for j := 0; j < int(wordSize) && i*int(wordSize)+j < size; j++ {
				bs[i*int(wordSize)+j] = ^byte(w >> uint(j*8))
			}
		}
		for i := len(bits) * int(wordSize); i < size; i++ {
			bs[i] = 0xff
		}
	} else {
		bits := m.Bits()
		for i := 0; i < len(bits) && i*int(wordSize) < size; i++ {
			w := bits[i]
			for j := 0; j < int(wordSize) && i*int(wordSize)+j < size; j++ {
				bs[i*int(wordSize)+j] = byte(w >> uint(j*8))
			}
		}
	}
	e.write(bs)
}
