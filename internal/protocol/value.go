package protocol

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/hdbdrv/gohdb/internal/protocol/cesu8"
	"github.com/hdbdrv/gohdb/internal/protocol/encoding"
)

// Decimal is an arbitrary-precision decimal: value == Mantissa * 10^Exp.
type Decimal struct {
	Mantissa *big.Int
	Exp      int
}

func (d Decimal) String() string {
	if d.Mantissa == nil {
		return "NULL"
	}
	return fmt.Sprintf("%se%d", d.Mantissa.String(), d.Exp)
}

// epoch anchors for the HANA temporal wire encodings.
var epoch0001 = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)

// DayDate decodes days-since-0001-01-01 into a UTC date. The high bit of
// the wire int is the NULL marker and must be checked by the caller.
func dayDateToTime(days int32) time.Time { return epoch0001.AddDate(0, 0, int(days-1)) }
func timeToDayDate(t time.Time) int32    { return int32(t.UTC().Sub(epoch0001).Hours()/24) + 1 }

// SecondTime decodes seconds-since-midnight.
func secondTimeToDuration(sec int32) time.Duration { return time.Duration(sec-1) * time.Second }
func durationToSecondTime(d time.Duration) int32    { return int32(d/time.Second) + 1 }

// LongDate/SecondDate decode 100ns ticks since 0001-01-01T00:00:00.
func longDateToTime(ticks int64) time.Time {
	return epoch0001.Add(time.Duration(ticks-1) * 100 * time.Nanosecond)
}
func timeToLongDate(t time.Time) int64 {
	return int64(t.UTC().Sub(epoch0001)/(100*time.Nanosecond)) + 1
}
func secondDateToTime(secs int64) time.Time { return epoch0001.Add(time.Duration(secs-1) * time.Second) }
func timeToSecondDate(t time.Time) int64    { return int64(t.UTC().Sub(epoch0001)/time.Second) + 1 }

// decodeField reads one field value of the given TypeCode and scale (the
// scale is only consulted for FIXED8/12/16 columns). The returned value is
// one of: nil, int64, float64, bool, []byte, string, Decimal, time.Time,
// time.Duration (SECONDTIME), uint32 (TIME, the raw wire value), or
// *LobDescriptor (for LOB columns, resolved further by the result-set
// engine).
func decodeField(dec *encoding.Decoder, tc TypeCode, scale int) (any, error) {
	switch tc {
	case TcFixed8:
		return decodeFixed(dec, 8, scale), nil
	case TcFixed12:
		return decodeFixed(dec, 12, scale), nil
	case TcFixed16:
		return decodeFixed(dec, 16, scale), nil
	case TcNull:
		return nil, nil
	case TcDecimal:
		return decodeHighBitField(dec, tc)
	}
	if tc.highBitNull() {
		return decodeHighBitField(dec, tc)
	}
	return nil, fmt.Errorf("protocol: unsupported field type %s", tc)
}

func decodeHighBitField(dec *encoding.Decoder, tc TypeCode) (any, error) {
	switch tc {
	case TcTinyint:
		b := dec.Byte()
		if b&0x80 != 0 {
			return nil, nil
		}
		return int64(b), nil
	case TcSmallint:
		v := dec.Int16()
		if v < 0 {
			return nil, nil
		}
		return int64(v), nil
	case TcInteger:
		v := dec.Uint32()
		if v == 0x80000000 {
			return nil, nil
		}
		return int64(int32(v)), nil
	case TcBigint:
		v := dec.Int64()
		return v, nil
	case TcReal:
		bits := dec.Uint32()
		if bits == 0xFFFFFFFF {
			return nil, nil
		}
		return float64(math.Float32frombits(bits)), nil
	case TcDouble:
		bits := dec.Uint64()
		if bits == 0xFFFFFFFFFFFFFFFF {
			return nil, nil
		}
		return math.Float64frombits(bits), nil
	case TcBoolean:
		b := dec.Byte()
		if b == 2 {
			return nil, nil
		}
		return b != 0, nil
	case TcDecimal:
		m, exp, ok, err := dec.Decimal()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return Decimal{Mantissa: m, Exp: exp}, nil
	case TcChar, TcVarchar, TcString, TcAlphanum:
		return decodeLIBytes(dec, false)
	case TcNchar, TcNvarchar, TcNstring, TcShorttext:
		return decodeLIBytes(dec, true)
	case TcBinary, TcVarbinary, TcBstring:
		return decodeLIBytes(dec, false)
	case TcDate:
		days := dec.Uint16()
		if days == 0xFFFF {
			return nil, nil
		}
		return dayDateToTime(int32(days)), nil
	case TcTime:
		v := dec.Uint32()
		if v == 0xFFFFFFFF {
			return nil, nil
		}
		return v, nil
	case TcTimestamp:
		days := dec.Uint16()
		msec := dec.Uint32()
		if days == 0xFFFF {
			return nil, nil
		}
		return dayDateToTime(int32(days)).Add(time.Duration(msec) * time.Millisecond), nil
	case TcDaydate:
		v := dec.Int32()
		if v == -1 {
			return nil, nil
		}
		return dayDateToTime(v), nil
	case TcSecondtime:
		v := dec.Int32()
		if v == -1 {
			return nil, nil
		}
		return secondTimeToDuration(v), nil
	case TcSeconddate:
		v := dec.Int64()
		if v == -1 {
			return nil, nil
		}
		return secondDateToTime(v), nil
	case TcLongdate:
		v := dec.Int64()
		if v == -1 {
			return nil, nil
		}
		return longDateToTime(v), nil
	case TcGeometry, TcPoint:
		return decodeLIBytes(dec, false)
	case TcBlob, TcClob, TcNclob, TcBlocator, TcNlocator, TcText, TcBintext:
		return decodeLobDescriptor(dec, tc.IsCharBased())
	default:
		return nil, fmt.Errorf("protocol: unsupported field type %s", tc)
	}
}

// LobDescriptor is a LOB column's server-side locator reference plus
// whatever leading bytes the server judged small enough to inline with
// the row instead of requiring a READLOB round trip.
type LobDescriptor struct {
	CharLength int64
	ByteLength int64
	ID         LocatorID
	Data       []byte
	Last       bool
	CharBased  bool
}

func decodeLobDescriptor(dec *encoding.Decoder, charBased bool) (any, error) {
	dec.Byte() // lob sub-typecode, redundant with the column's own TypeCode
	opt := LobOptions(dec.Byte())
	if opt&LoNullIndicator != 0 {
		return nil, nil
	}
	dec.Skip(2)
	charLen := dec.Int64()
	byteLen := dec.Int64()
	id := LocatorID(dec.Uint64())
	size := int(dec.Int32())
	data := make([]byte, size)
	dec.Bytes(data)
	return &LobDescriptor{CharLength: charLen, ByteLength: byteLen, ID: id, Data: data, Last: opt.IsLast(), CharBased: charBased}, nil
}

// decodeFixed decodes a FIXED8/12/16 column given its declared scale.
// Fixed-point columns carry their own nullability via ResultSetMetadata;
// callers check that separately and never invoke this for a NULL value.
func decodeFixed(dec *encoding.Decoder, size, scale int) any {
	m := dec.Fixed(size)
	return Decimal{Mantissa: m, Exp: -scale}
}

func decodeLIBytes(dec *encoding.Decoder, cesu8 bool) (any, error) {
	n, ok := dec.LIVarUint32()
	if !ok {
		return nil, nil
	}
	if cesu8 {
		b, err := dec.CESU8Bytes(int(n))
		if err != nil {
			return string(b), &ConversionError{Reason: "invalid CESU-8 sequence", cause: err}
		}
		return string(b), nil
	}
	b := make([]byte, n)
	dec.Bytes(b)
	return b, nil
}

// encodedFieldSize returns the number of bytes encodeField will write for
// v, used by Part.size() to size the write buffer up front.
func encodedFieldSize(tc TypeCode, v any) int {
	if v == nil {
		return fixedFieldSize(tc)
	}
	switch tc {
	case TcTinyint:
		return 1
	case TcSmallint:
		return 2
	case TcInteger:
		return 4
	case TcBigint:
		return 8
	case TcReal:
		return 4
	case TcDouble:
		return 8
	case TcBoolean:
		return 1
	case TcDecimal:
		return 16
	case TcFixed8:
		return 8
	case TcFixed12:
		return 12
	case TcFixed16:
		return 16
	case TcDate:
		return 2
	case TcDaydate:
		return 4
	case TcSecondtime:
		return 4
	case TcSeconddate, TcLongdate:
		return 8
	case TcTimestamp:
		return 6
	case TcChar, TcVarchar, TcString, TcAlphanum, TcBinary, TcVarbinary, TcBstring, TcGeometry, TcPoint:
		n := len(v.([]byte))
		return encoding.LenIndSize(n) + n
	case TcNchar, TcNvarchar, TcNstring, TcShorttext:
		n := cesu8Len(v)
		return encoding.LenIndSize(n) + n
	case TcBlob, TcClob, TcNclob, TcBlocator, TcNlocator, TcText, TcBintext:
		return 9 // lob options byte + length-indicator placeholder + locator
	default:
		return 0
	}
}

func fixedFieldSize(tc TypeCode) int {
	switch tc {
	case TcTinyint:
		return 1
	case TcSmallint:
		return 2
	case TcInteger:
		return 4
	case TcBigint:
		return 8
	case TcReal:
		return 4
	case TcDouble:
		return 8
	case TcBoolean:
		return 1
	case TcDecimal, TcFixed16:
		return 16
	case TcFixed8:
		return 8
	case TcFixed12:
		return 12
	case TcDate:
		return 2
	case TcDaydate, TcSecondtime:
		return 4
	case TcSeconddate, TcLongdate:
		return 8
	case TcTimestamp:
		return 6
	case TcBlob, TcClob, TcNclob, TcBlocator, TcNlocator, TcText, TcBintext:
		return 9 // options byte + two Int32 zeroes, matching encodeNullField
	default:
		return 1 // LENIND NULL byte
	}
}

func cesu8Len(v any) int {
	switch s := v.(type) {
	case string:
		return cesu8.StringSize(s)
	case []byte:
		return cesu8.StringSize(string(s))
	default:
		return 0
	}
}

// encodeField writes v (nil for NULL) as a value of the given TypeCode.
func encodeField(enc *encoding.Encoder, tc TypeCode, scale int, v any) error {
	if v == nil {
		encodeNullField(enc, tc)
		return nil
	}
	switch tc {
	case TcTinyint:
		enc.Byte(byte(mustInt64(v)))
	case TcSmallint:
		enc.Int16(int16(mustInt64(v)))
	case TcInteger:
		enc.Int32(int32(mustInt64(v)))
	case TcBigint:
		enc.Int64(mustInt64(v))
	case TcReal:
		enc.Float32(float32(mustFloat64(v)))
	case TcDouble:
		enc.Float64(mustFloat64(v))
	case TcBoolean:
		enc.Bool(v.(bool))
	case TcDecimal:
		d := v.(Decimal)
		enc.Decimal(d.Mantissa, d.Exp)
	case TcFixed8, TcFixed12, TcFixed16:
		d := v.(Decimal)
		size := map[TypeCode]int{TcFixed8: 8, TcFixed12: 12, TcFixed16: 16}[tc]
		enc.Fixed(d.Mantissa, size)
	case TcDate:
		enc.Uint16(uint16(timeToDayDate(v.(time.Time))))
	case TcDaydate:
		enc.Int32(timeToDayDate(v.(time.Time)))
	case TcSecondtime:
		enc.Int32(durationToSecondTime(v.(time.Duration)))
	case TcSeconddate:
		enc.Int64(timeToSecondDate(v.(time.Time)))
	case TcLongdate:
		enc.Int64(timeToLongDate(v.(time.Time)))
	case TcTimestamp:
		t := v.(time.Time)
		enc.Uint16(uint16(timeToDayDate(t)))
		midnight := time.Time(t).Truncate(24 * 3600 * 1e9)
		enc.Uint32(uint32(time.Time(t).Sub(midnight) / 1e6))
	case TcChar, TcVarchar, TcString, TcAlphanum, TcBinary, TcVarbinary, TcBstring, TcGeometry, TcPoint:
		b := v.([]byte)
		enc.LIVarUint32(uint32(len(b)))
		enc.Bytes(b)
	case TcNchar, TcNvarchar, TcNstring, TcShorttext:
		var b []byte
		switch s := v.(type) {
		case string:
			b = []byte(s)
		case []byte:
			b = s
		}
		enc.LIVarUint32(uint32(cesu8.StringSize(string(b))))
		return enc.CESU8Bytes(b)
	case TcBlob, TcClob, TcNclob, TcBlocator, TcNlocator, TcText, TcBintext:
		// Binding a LOB parameter only reserves a locator; the actual
		// content is pushed afterwards through one or more WRITELOB
		// requests against the id the server returns in WriteLobReply.
		enc.Byte(0)
		enc.Int32(0)
		enc.Int32(0)
	default:
		return fmt.Errorf("protocol: unsupported field type %s for encode", tc)
	}
	return nil
}

func encodeNullField(enc *encoding.Encoder, tc TypeCode) {
	switch tc {
	case TcTinyint:
		enc.Byte(0x80)
	case TcSmallint:
		enc.Int16(-1)
	case TcInteger:
		enc.Uint32(0x80000000)
	case TcBigint:
		enc.Int64(-1)
	case TcReal:
		enc.Uint32(0xFFFFFFFF)
	case TcDouble:
		enc.Uint64(0xFFFFFFFFFFFFFFFF)
	case TcBoolean:
		enc.Byte(2)
	case TcDecimal, TcFixed16:
		enc.Zeroes(14)
		enc.Byte(0x00)
		enc.Byte(0x70)
	case TcFixed8:
		enc.Bytes(bytesOfFF(8))
	case TcFixed12:
		enc.Bytes(bytesOfFF(12))
	case TcDate:
		enc.Uint16(0xFFFF)
	case TcDaydate, TcSecondtime:
		enc.Int32(-1)
	case TcSeconddate, TcLongdate:
		enc.Int64(-1)
	case TcTimestamp:
		enc.Uint16(0xFFFF)
		enc.Uint32(0)
	case TcBlob, TcClob, TcNclob, TcBlocator, TcNlocator, TcText, TcBintext:
		enc.Byte(byte(LoNullIndicator))
		enc.Int32(0)
		enc.Int32(0)
	default:
		enc.LIVarNull()
	}
}

func bytesOfFF(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xFF
	}
	return b
}

func mustInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	default:
		return 0
	}
}

func mustFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		return 0
	}
}

