package protocol

import (
	"fmt"

	"github.com/hdbdrv/gohdb/internal/protocol/cesu8"
	"github.com/hdbdrv/gohdb/internal/protocol/encoding"
)

// StatementID is the server-issued 8-byte handle identifying a prepared
// statement for the lifetime of the connection.
type StatementID uint64

func (id StatementID) kind() PartKind { return PkStatementID }
func (id StatementID) numArg() int    { return 1 }
func (id StatementID) size() int      { return 8 }
func (id StatementID) encode(enc *encoding.Encoder) error { enc.Uint64(uint64(id)); return nil }
func (id *StatementID) decode(dec *encoding.Decoder, ph *PartHeader) error {
	*id = StatementID(dec.Uint64())
	return dec.Error()
}

// ResultsetID is the server-issued 8-byte handle identifying an open
// cursor for as long as rows remain to be fetched.
type ResultsetID uint64

func (id ResultsetID) kind() PartKind { return PkResultsetID }
func (id ResultsetID) numArg() int    { return 1 }
func (id ResultsetID) size() int      { return 8 }
func (id ResultsetID) encode(enc *encoding.Encoder) error { enc.Uint64(uint64(id)); return nil }
func (id *ResultsetID) decode(dec *encoding.Decoder, ph *PartHeader) error {
	*id = ResultsetID(dec.Uint64())
	return dec.Error()
}

// FetchSize is the requested/negotiated row count for one FETCHNEXT
// round trip.
type FetchSize int32

func (s FetchSize) kind() PartKind { return PkFetchSize }
func (s FetchSize) numArg() int    { return 1 }
func (s FetchSize) size() int      { return 4 }
func (s FetchSize) encode(enc *encoding.Encoder) error { enc.Int32(int32(s)); return nil }
func (s *FetchSize) decode(dec *encoding.Decoder, ph *PartHeader) error {
	*s = FetchSize(dec.Int32())
	return dec.Error()
}

// Command carries the CESU-8 encoded SQL text of a direct-execute or
// prepare request.
type Command string

func (c Command) kind() PartKind { return PkCommand }
func (c Command) numArg() int    { return 1 }
func (c Command) size() int      { return cesu8.StringSize(string(c)) }
func (c Command) encode(enc *encoding.Encoder) error { return enc.CESU8Bytes([]byte(c)) }
func (c *Command) decode(dec *encoding.Decoder, ph *PartHeader) error {
	b, err := dec.CESU8Bytes(int(ph.BufferLength))
	*c = Command(b)
	return err
}

const raSuccessNoInfo = -2
const raExecutionFailed = -3

// RowsAffected reports the per-statement affected-row counts of a DML
// batch. A negative sentinel marks a row whose count is unknown
// (raSuccessNoInfo) or whose execution failed (raExecutionFailed); a
// failed row's detail is correlated back through the accompanying Error
// part's StatementIndex map.
type RowsAffected []int32

func (r RowsAffected) kind() PartKind { return PkRowsAffected }

func (r *RowsAffected) decode(dec *encoding.Decoder, ph *PartHeader) error {
	n := ph.NumArg()
	if cap(*r) < n {
		*r = make(RowsAffected, n)
	} else {
		*r = (*r)[:n]
	}
	for i := 0; i < n; i++ {
		(*r)[i] = dec.Int32()
	}
	return dec.Error()
}

// Total sums the successful row counts, ignoring the sentinel entries.
func (r RowsAffected) Total() int64 {
	var total int64
	for _, n := range r {
		if n > 0 {
			total += int64(n)
		}
	}
	return total
}

// Parameters carries one row (or, for a batch, several rows) of bind
// values for the "in" parameters of a prepared statement.
type Parameters struct {
	Fields []*ParameterDescriptor // "in" fields only, in wire order
	Rows   [][]any
}

func (p *Parameters) kind() PartKind { return PkParameters }

func (p *Parameters) numArg() int {
	if len(p.Fields) == 0 {
		return 0
	}
	return len(p.Rows)
}

func (p *Parameters) size() int {
	n := 0
	for _, row := range p.Rows {
		for i, v := range row {
			n += encodedFieldSize(p.Fields[i].TypeCode, v)
		}
	}
	return n
}

func (p *Parameters) encode(enc *encoding.Encoder) error {
	for _, row := range p.Rows {
		for i, v := range row {
			f := p.Fields[i]
			if v == nil {
				encodeNullField(enc, f.TypeCode)
				continue
			}
			if err := encodeField(enc, f.TypeCode, int(f.Scale), v); err != nil {
				return err
			}
		}
	}
	return nil
}

// OutputParameters carries the single row of "out"/"inout" parameter
// values returned by a stored-procedure CALL.
type OutputParameters struct {
	Fields []*ParameterDescriptor
	Values []any
}

func (p *OutputParameters) kind() PartKind { return PkOutputParameters }

func (p *OutputParameters) decode(dec *encoding.Decoder, ph *PartHeader) error {
	p.Values = make([]any, len(p.Fields))
	for i, f := range p.Fields {
		v, err := decodeField(dec, f.TypeCode, int(f.Scale))
		if err != nil {
			return err
		}
		p.Values[i] = v
	}
	return dec.Error()
}

// Resultset decodes ph.NumArg() rows of a query's result columns,
// against the ResultSetMetadata already negotiated for the statement.
type Resultset struct {
	Fields []*FieldDescriptor
	Rows   [][]any
}

func (r *Resultset) kind() PartKind { return PkResultset }

func (r *Resultset) decode(dec *encoding.Decoder, ph *PartHeader) error {
	n := ph.NumArg()
	cols := len(r.Fields)
	r.Rows = make([][]any, n)
	for i := 0; i < n; i++ {
		row := make([]any, cols)
		for j, f := range r.Fields {
			v, err := decodeField(dec, f.TypeCode, int(f.Scale))
			if err != nil {
				return err
			}
			row[j] = v
		}
		r.Rows[i] = row
	}
	return dec.Error()
}

func (r *Resultset) String() string { return fmt.Sprintf("resultset rows=%d", len(r.Rows)) }
