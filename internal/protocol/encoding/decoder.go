package encoding

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
	"unsafe"

	"golang.org/x/text/transform"
)

const readScratchSize = 4096

var natOne = big.NewInt(1)

// wordSize is the number of bytes in a big.Word, used when assembling
// packed-decimal and fixed-point mantissas byte by byte.
const wordSize = unsafe.Sizeof(big.Word(0))

// Decoder reads little-endian primitives and HANA-specific typed values
// from an io.Reader. A single fatal read error latches; once set, every
// subsequent read returns the zero value so that callers can decode an
// entire Part body without checking errors after every field and inspect
// Error() once at the end.
type Decoder struct {
	rd  io.Reader
	err error
	b   []byte
	tr  transform.Transformer
	cnt int
}

// NewDecoder creates a Decoder over rd. decoder, if non-nil, is used to
// transform CESU-8 encoded byte sequences into UTF-8 on read.
func NewDecoder(rd io.Reader, decoder transform.Transformer) *Decoder {
	return &Decoder{rd: rd, b: make([]byte, readScratchSize), tr: decoder}
}

// Reset rebinds the Decoder to a new reader and clears all state, so the
// Decoder can be pooled across replies on the same connection.
func (d *Decoder) Reset(rd io.Reader) {
	d.rd = rd
	d.err = nil
	d.cnt = 0
}

// Error returns the latched fatal read error, if any.
func (d *Decoder) Error() error { return d.err }

// ResetError returns and clears the latched error.
func (d *Decoder) ResetError() error {
	err := d.err
	d.err = nil
	return err
}

// ResetCnt resets the byte-read counter used to detect under/over-reads
// relative to a Part's declared buffer length.
func (d *Decoder) ResetCnt() { d.cnt = 0 }

// Cnt returns the number of bytes read since the last ResetCnt.
func (d *Decoder) Cnt() int { return d.cnt }

func (d *Decoder) readFull(buf []byte) error {
	if d.err != nil {
		return d.err
	}
	n, err := io.ReadFull(d.rd, buf)
	d.cnt += n
	d.err = err
	return err
}

// Skip discards cnt bytes, e.g. trailing padding or an unrecognized Part
// body, without allocating a buffer sized to cnt.
func (d *Decoder) Skip(cnt int) {
	for n := 0; n < cnt; {
		to := cnt - n
		if to > readScratchSize {
			to = readScratchSize
		}
		if err := d.readFull(d.b[:to]); err != nil {
			return
		}
		n += to
	}
}

// Byte reads a single byte.
func (d *Decoder) Byte() byte {
	if d.readFull(d.b[:1]) != nil {
		return 0
	}
	return d.b[0]
}

// Bytes fills p from the reader.
func (d *Decoder) Bytes(p []byte) { d.readFull(p) }

// Bool reads a one-byte boolean.
func (d *Decoder) Bool() bool { return d.Byte() != 0 }

// Int8 reads a signed byte.
func (d *Decoder) Int8() int8 { return int8(d.Byte()) }

// Int16 reads a little-endian int16.
func (d *Decoder) Int16() int16 {
	if d.readFull(d.b[:2]) != nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(d.b[:2]))
}

// Uint16 reads a little-endian uint16.
func (d *Decoder) Uint16() uint16 {
	if d.readFull(d.b[:2]) != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(d.b[:2])
}

// Int32 reads a little-endian int32.
func (d *Decoder) Int32() int32 {
	if d.readFull(d.b[:4]) != nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(d.b[:4]))
}

// Uint32 reads a little-endian uint32.
func (d *Decoder) Uint32() uint32 {
	if d.readFull(d.b[:4]) != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(d.b[:4])
}

// Int64 reads a little-endian int64.
func (d *Decoder) Int64() int64 {
	if d.readFull(d.b[:8]) != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(d.b[:8]))
}

// Uint64 reads a little-endian uint64.
func (d *Decoder) Uint64() uint64 {
	if d.readFull(d.b[:8]) != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(d.b[:8])
}

// Float32 reads an IEEE-754 single precision float.
func (d *Decoder) Float32() float32 {
	if d.readFull(d.b[:4]) != nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(d.b[:4]))
}

// Float64 reads an IEEE-754 double precision float.
func (d *Decoder) Float64() float64 {
	if d.readFull(d.b[:8]) != nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(d.b[:8]))
}

// LIVarUint32 reads a LENIND-encoded length: 1 byte if <=245, else a
// discriminator byte followed by a 2- or 4-byte length. ok is false for
// the NULL/empty discriminator (255).
func (d *Decoder) LIVarUint32() (n uint32, ok bool) {
	b := d.Byte()
	switch {
	case b == lenIndNull:
		return 0, false
	case b == lenIndInt16:
		return uint32(d.Uint16()), true
	case b == lenIndInt32:
		return d.Uint32(), true
	default:
		return uint32(b), true
	}
}

// CESU8Bytes reads size CESU-8 bytes and transforms them to UTF-8.
func (d *Decoder) CESU8Bytes(size int) ([]byte, error) {
	if d.err != nil {
		return nil, nil
	}
	var p []byte
	if size > readScratchSize {
		p = make([]byte, size)
	} else {
		p = d.b[:size]
	}
	if d.readFull(p) != nil {
		return nil, nil
	}
	if d.tr == nil {
		out := make([]byte, len(p))
		copy(out, p)
		return out, nil
	}
	d.tr.Reset()
	r, _, err := transform.Bytes(d.tr, p)
	return r, err
}

// Decimal reads a 16-byte packed decimal (DECIMAL wire encoding) and
// returns its mantissa and decimal exponent. ok is false for NULL.
func (d *Decoder) Decimal() (m *big.Int, exp int, ok bool, err error) {
	const size = 16
	const bias = 6176
	bs := make([]byte, size)
	if d.readFull(bs) != nil {
		return nil, 0, false, nil
	}
	if bs[15]&0x70 == 0x70 { // NULL: bits 4-6 set
		return nil, 0, false, nil
	}
	if bs[15]&0x60 == 0x60 {
		return nil, 0, false, fmt.Errorf("encoding: unsupported decimal special value % x", bs)
	}
	neg := bs[15]&0x80 != 0
	exp = int((((uint16(bs[15])<<8)|uint16(bs[14]))<<1)>>2) - bias
	bs[14] &= 0x01

	msb := 14
	for msb > 0 && bs[msb] == 0 {
		msb--
	}
	numWords := msb/int(wordSize) + 1
	ws := make([]big.Word, numWords)
	for i, b := range bs[:msb+1] {
		ws[i/int(wordSize)] |= big.Word(b) << uint(i%int(wordSize)*8)
	}
	m = new(big.Int).SetBits(ws)
	if neg {
		m.Neg(m)
	}
	return m, exp, true, nil
}

// Fixed reads a size-byte two's-complement fixed-point mantissa (used by
// small fixed-point DECIMAL(p,s) columns).
func (d *Decoder) Fixed(size int) *big.Int {
	bs := make([]byte, size)
	if d.readFull(bs) != nil {
		return nil
	}
	neg := bs[size-1]&0x80 != 0

	msb := size - 1
	for msb > 0 && bs[msb] == 0 {
		msb--
	}
	numWords := msb/int(wordSize) + 1
	ws := make([]big.Word, numWords)
	for i, b := range bs[:msb+1] {
		if neg {
			b = ^b
		}
		ws[i/int(wordSize)] |= big.Word(b) << uint(i%int(wordSize)*8)
	}
	m := new(big.Int).SetBits(ws)
	if neg {
		m.Add(m, natOne)
		m.Neg(m)
	}
	return m
}
