package driver

import (
	"math/big"

	"github.com/hdbdrv/gohdb/internal/protocol"
)

// Valuer lets a caller-supplied type control how it is bound as a
// statement parameter, analogous to database/sql/driver.Valuer but
// without pulling in database/sql for a core that never registers
// itself as a database/sql.Driver.
type Valuer interface {
	HdbValue() (any, error)
}

// resolveValue applies Valuer conversion, if the argument implements it,
// leaving every other value untouched for encodeField/encodeNullField to
// interpret against the target column's TypeCode.
func resolveValue(v any) (any, error) {
	if vv, ok := v.(Valuer); ok {
		return vv.HdbValue()
	}
	return v, nil
}

// resolveArgs applies resolveValue across a row of bind parameters,
// returning a new slice (args is never mutated in place, since callers may
// reuse it across AddBatch calls).
func resolveArgs(args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, v := range args {
		rv, err := resolveValue(v)
		if err != nil {
			return nil, err
		}
		out[i] = rv
	}
	return out, nil
}

// Decimal is a fixed/decimal column value as read back from a result
// set or output parameter: value == Mantissa * 10^Exp.
type Decimal = protocol.Decimal

// DecimalToRat converts a Decimal into an exact big.Rat, for arithmetic
// or formatting beyond Decimal.String's fixed notation.
func DecimalToRat(d Decimal) *big.Rat {
	if d.Mantissa == nil {
		return nil
	}
	r := new(big.Rat).SetInt(d.Mantissa)
	if d.Exp == 0 {
		return r
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(d.Exp))), nil)
	if d.Exp > 0 {
		return r.Mul(r, new(big.Rat).SetInt(scale))
	}
	return r.Quo(r, new(big.Rat).SetInt(scale))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
