package protocol

import "fmt"

// TypeCode identifies the wire type of a column, parameter, or scalar
// value. The high bit of the byte on the wire signals NULL for most types;
// a handful of legacy types instead use a distinct NULL type code.
type TypeCode byte

// TypeCode values, as transmitted by HANA.
const (
	TcNull      TypeCode = 0
	TcTinyint   TypeCode = 1
	TcSmallint  TypeCode = 2
	TcInteger   TypeCode = 3
	TcBigint    TypeCode = 4
	TcDecimal   TypeCode = 5
	TcReal      TypeCode = 6
	TcDouble    TypeCode = 7
	TcChar      TypeCode = 8
	TcVarchar   TypeCode = 9
	TcNchar     TypeCode = 10
	TcNvarchar  TypeCode = 11
	TcBinary    TypeCode = 12
	TcVarbinary TypeCode = 13
	TcDate      TypeCode = 14
	TcTime      TypeCode = 15
	TcTimestamp TypeCode = 16
	TcClob      TypeCode = 25
	TcNclob     TypeCode = 26
	TcBlob      TypeCode = 27
	TcBoolean   TypeCode = 28
	TcString    TypeCode = 29
	TcNstring   TypeCode = 30
	TcBlocator  TypeCode = 31
	TcNlocator  TypeCode = 32
	TcBstring   TypeCode = 33
	TcText      TypeCode = 51
	TcShorttext TypeCode = 52
	TcBintext   TypeCode = 53
	TcAlphanum  TypeCode = 55
	TcLongdate  TypeCode = 61 // TIMESTAMP
	TcSeconddate TypeCode = 62
	TcDaydate    TypeCode = 63
	TcSecondtime TypeCode = 64
	TcFixed8     TypeCode = 81
	TcFixed12    TypeCode = 82
	TcFixed16    TypeCode = 76
	TcGeometry   TypeCode = 74
	TcPoint      TypeCode = 75
)

var typeCodeName = map[TypeCode]string{
	TcNull: "NULL", TcTinyint: "TINYINT", TcSmallint: "SMALLINT", TcInteger: "INT",
	TcBigint: "BIGINT", TcDecimal: "DECIMAL", TcReal: "REAL", TcDouble: "DOUBLE",
	TcChar: "CHAR", TcVarchar: "VARCHAR", TcNchar: "NCHAR", TcNvarchar: "NVARCHAR",
	TcBinary: "BINARY", TcVarbinary: "VARBINARY", TcDate: "DATE", TcTime: "TIME",
	TcTimestamp: "TIMESTAMP", TcClob: "CLOB", TcNclob: "NCLOB", TcBlob: "BLOB",
	TcBoolean: "BOOLEAN", TcString: "STRING", TcNstring: "NSTRING",
	TcBlocator: "BLOCATOR", TcNlocator: "NLOCATOR", TcBstring: "BSTRING",
	TcText: "TEXT", TcShorttext: "SHORTTEXT", TcBintext: "BINTEXT", TcAlphanum: "ALPHANUM",
	TcLongdate: "LONGDATE", TcSeconddate: "SECONDDATE", TcDaydate: "DAYDATE",
	TcSecondtime: "SECONDTIME", TcFixed8: "FIXED8", TcFixed12: "FIXED12", TcFixed16: "FIXED16",
	TcGeometry: "ST_GEOMETRY", TcPoint: "ST_POINT",
}

func (tc TypeCode) String() string {
	if s, ok := typeCodeName[tc]; ok {
		return s
	}
	return fmt.Sprintf("TypeCode(%d)", byte(tc))
}

// highBitNull reports whether the NULL-ness of a value of this type is
// signalled via the high bit of the type tag on the wire (as opposed to a
// dedicated NULL type code or LENIND 255).
func (tc TypeCode) highBitNull() bool {
	switch tc {
	case TcTinyint, TcSmallint, TcInteger, TcBigint, TcReal, TcDouble, TcChar,
		TcVarchar, TcNchar, TcNvarchar, TcBinary, TcVarbinary, TcDate, TcTime,
		TcTimestamp, TcClob, TcNclob, TcBlob, TcBoolean, TcString, TcNstring,
		TcBlocator, TcNlocator, TcBstring, TcText, TcShorttext, TcBintext,
		TcAlphanum, TcLongdate, TcSeconddate, TcDaydate, TcSecondtime,
		TcFixed8, TcFixed12, TcFixed16, TcGeometry, TcPoint:
		return true
	default:
		return false
	}
}

// IsLob reports whether values of this type are transmitted as a locator
// rather than inline.
func (tc TypeCode) IsLob() bool {
	switch tc {
	case TcBlob, TcClob, TcNclob, TcBlocator, TcNlocator, TcText, TcBintext:
		return true
	default:
		return false
	}
}

// IsCharBased reports whether this LOB type carries characters (as opposed
// to raw binary), and therefore travels as CESU-8 chunks.
func (tc TypeCode) IsCharBased() bool {
	switch tc {
	case TcClob, TcNclob, TcNlocator, TcText:
		return true
	default:
		return false
	}
}
