package protocol

import "github.com/hdbdrv/gohdb/internal/protocol/encoding"

const sqlStateSize = 5

// ErrorPart decodes into a ServerError: HANA reports every SQL error
// that occurred within a segment as one Error Part with ArgumentCount
// entries, one per failed statement in a batch.
type ErrorPart struct {
	ServerError ServerError
}

func (e *ErrorPart) kind() PartKind { return PkError }

func (e *ErrorPart) decode(dec *encoding.Decoder, ph *PartHeader) error {
	n := ph.NumArg()
	e.ServerError.Errors = make([]*SQLError, n)
	for i := 0; i < n; i++ {
		se := &SQLError{}
		se.Code = dec.Int32()
		se.Position = dec.Int32()
		textLen := dec.Int32()
		se.Level = ErrorLevel(dec.Int8())
		var sqlState [sqlStateSize]byte
		dec.Bytes(sqlState[:])
		se.SQLState = string(sqlState[:])
		text, err := dec.CESU8Bytes(int(textLen))
		if err != nil {
			return err
		}
		se.Text = string(text)
		dec.Byte() // buffer length runs one byte past the declared text length
		e.ServerError.Errors[i] = se
	}
	return dec.Error()
}
