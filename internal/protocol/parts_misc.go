package protocol

import (
	"github.com/hdbdrv/gohdb/internal/protocol/cesu8"
	"github.com/hdbdrv/gohdb/internal/protocol/encoding"
)

// ClientID identifies this driver process to the server for the
// lifetime of the TCP connection; sent once on CONNECT. HANA expects an
// ASCII "pid@host" style token but treats it as an opaque byte string.
type ClientID string

func (c ClientID) kind() PartKind { return PkClientID }
func (c ClientID) numArg() int    { return 1 }
func (c ClientID) size() int      { return len(c) }
func (c ClientID) encode(enc *encoding.Encoder) error { enc.Bytes([]byte(c)); return nil }

// SessionContext is an opaque token the server returns after CONNECT
// and the driver echoes back on every subsequent request so the server
// can route it within a distributed (scale-out) landscape.
type SessionContext []byte

func (c SessionContext) kind() PartKind { return PkSessionContext }
func (c SessionContext) numArg() int    { return 1 }
func (c SessionContext) size() int      { return len(c) }
func (c SessionContext) encode(enc *encoding.Encoder) error { enc.Bytes(c); return nil }
func (c *SessionContext) decode(dec *encoding.Decoder, ph *PartHeader) error {
	b := make([]byte, ph.BufferLength)
	dec.Bytes(b)
	*c = b
	return dec.Error()
}

// clientInfoKV is one client_info property (application name, client
// user, etc.) as a CESU-8 key/value pair; ClientInfo carries a list of
// these, set via SetClientInfo and echoed by the server into
// M_SESSION_CONTEXT.
type clientInfoKV struct {
	key, value string
}

// ClientInfo carries session metadata such as APPLICATION and
// APPLICATIONUSER that show up in HANA's session/workload monitors.
type ClientInfo []clientInfoKV

// NewClientInfo builds a ClientInfo part from a property map. Map
// iteration order is unspecified, which is fine here: the server treats
// each key independently.
func NewClientInfo(kv map[string]string) ClientInfo {
	info := make(ClientInfo, 0, len(kv))
	for k, v := range kv {
		info = append(info, clientInfoKV{key: k, value: v})
	}
	return info
}

func (c ClientInfo) kind() PartKind { return PkClientInfo }
func (c ClientInfo) numArg() int    { return len(c) }
func (c ClientInfo) size() int {
	n := 0
	for _, kv := range c {
		n += cesu8.StringSize(kv.key) + 1 + cesu8.StringSize(kv.value) + 1
	}
	return n
}
func (c ClientInfo) encode(enc *encoding.Encoder) error {
	for _, kv := range c {
		if err := enc.CESU8Bytes([]byte(kv.key)); err != nil {
			return err
		}
		enc.Byte(0)
		if err := enc.CESU8Bytes([]byte(kv.value)); err != nil {
			return err
		}
		enc.Byte(0)
	}
	return nil
}

// XaTransactionID carries the XID of a distributed transaction branch
// for XA-coordinated connections; unused outside that mode.
type XaTransactionID struct {
	FormatID       int32
	GlobalTransactionID []byte
	BranchQualifier     []byte
}

func (x *XaTransactionID) kind() PartKind { return PkXATransactionInfo }
func (x *XaTransactionID) numArg() int    { return 1 }
func (x *XaTransactionID) size() int      { return 4 + 4 + len(x.GlobalTransactionID) + 4 + len(x.BranchQualifier) }
func (x *XaTransactionID) encode(enc *encoding.Encoder) error {
	enc.Int32(x.FormatID)
	enc.Int32(int32(len(x.GlobalTransactionID)))
	enc.Bytes(x.GlobalTransactionID)
	enc.Int32(int32(len(x.BranchQualifier)))
	enc.Bytes(x.BranchQualifier)
	return nil
}
func (x *XaTransactionID) decode(dec *encoding.Decoder, ph *PartHeader) error {
	x.FormatID = dec.Int32()
	gn := dec.Int32()
	x.GlobalTransactionID = make([]byte, gn)
	dec.Bytes(x.GlobalTransactionID)
	bn := dec.Int32()
	x.BranchQualifier = make([]byte, bn)
	dec.Bytes(x.BranchQualifier)
	return dec.Error()
}

// ExecutionResult reports the per-row outcome of a batch executed via
// executeBatch/addBatch, distinct from RowsAffected in that it is only
// sent for DB procedure array calls.
type ExecutionResult []int32

func (r ExecutionResult) kind() PartKind { return PkExecutionResult }

func (r *ExecutionResult) decode(dec *encoding.Decoder, ph *PartHeader) error {
	n := ph.NumArg()
	*r = make(ExecutionResult, n)
	for i := 0; i < n; i++ {
		(*r)[i] = dec.Int32()
	}
	return dec.Error()
}

// TableLocation names the physical partition (host, port, schema and
// table name) a row landed on, returned for INSERT statements against a
// partitioned table when client-side routing is negotiated.
type TableLocation struct {
	SchemaName  string
	TableName   string
	PartitionID int32
	Host        string
	Port        int32
}

func (t *TableLocation) kind() PartKind { return PkTableLocation }
func (t *TableLocation) numArg() int    { return 1 }
func (t *TableLocation) size() int {
	return 2 + cesu8.StringSize(t.SchemaName) + 2 + cesu8.StringSize(t.TableName) + 4 + 2 + cesu8.StringSize(t.Host) + 4
}
func (t *TableLocation) encode(enc *encoding.Encoder) error {
	if err := encodeShortLenCESU8(enc, t.SchemaName); err != nil {
		return err
	}
	if err := encodeShortLenCESU8(enc, t.TableName); err != nil {
		return err
	}
	enc.Int32(t.PartitionID)
	if err := encodeShortLenCESU8(enc, t.Host); err != nil {
		return err
	}
	enc.Int32(t.Port)
	return nil
}
func (t *TableLocation) decode(dec *encoding.Decoder, ph *PartHeader) error {
	t.SchemaName = decodeShortLenCESU8(dec)
	t.TableName = decodeShortLenCESU8(dec)
	t.PartitionID = dec.Int32()
	t.Host = decodeShortLenCESU8(dec)
	t.Port = dec.Int32()
	return dec.Error()
}

// decodeShortLenCESU8/encodeShortLenCESU8 read/write an int16-length-
// prefixed CESU-8 string, the layout TableLocation uses for its name
// fields instead of the shared name-offset buffer that ResultSetMetadata
// and ParameterMetadata use for arrays of descriptors.
func decodeShortLenCESU8(dec *encoding.Decoder) string {
	size := dec.Int16()
	b, _ := dec.CESU8Bytes(int(size))
	return string(b)
}

func encodeShortLenCESU8(enc *encoding.Encoder, s string) error {
	enc.Int16(int16(cesu8.StringSize(s)))
	return enc.CESU8Bytes([]byte(s))
}
