package protocol

import (
	"fmt"

	"github.com/hdbdrv/gohdb/internal/protocol/encoding"
)

// connectOptions carries the negotiated session capabilities exchanged
// during CONNECT: locale, distribution mode, data format version, and
// the various feature-support flags the server advertises back.
type connectOptions plainOptions

func newConnectOptions() connectOptions { return connectOptions{} }

func (o connectOptions) kind() PartKind { return PkConnectOptions }
func (o connectOptions) numArg() int    { return len(o) }
func (o connectOptions) size() int      { return plainOptions(o).size() }

func (o connectOptions) encode(enc *encoding.Encoder) error { return plainOptions(o).encode(enc) }
func (o *connectOptions) decode(dec *encoding.Decoder, ph *PartHeader) error {
	*o = connectOptions{}
	plainOptions(*o).decode(dec, ph.NumArg())
	return dec.Error()
}

func (o connectOptions) get(k connectOption) (any, bool) { v, ok := o[int8(k)]; return v, ok }
func (o connectOptions) set(k connectOption, v any)      { o[int8(k)] = v }

// clientContext carries the driver's self-identification (version,
// client type, application program name) sent once per CONNECT.
type clientContext plainOptions

func (o clientContext) kind() PartKind { return PkClientContext }
func (o clientContext) numArg() int    { return len(o) }
func (o clientContext) size() int      { return plainOptions(o).size() }
func (o clientContext) encode(enc *encoding.Encoder) error { return plainOptions(o).encode(enc) }
func (o *clientContext) decode(dec *encoding.Decoder, ph *PartHeader) error {
	*o = clientContext{}
	plainOptions(*o).decode(dec, ph.NumArg())
	return dec.Error()
}

// statementContext piggybacks server-side bookkeeping (statement
// sequence token, schema name, timing) on a statement's reply.
type statementContext plainOptions

func (c statementContext) kind() PartKind { return PkStatementContext }
func (c *statementContext) decode(dec *encoding.Decoder, ph *PartHeader) error {
	*c = statementContext{}
	plainOptions(*c).decode(dec, ph.NumArg())
	return dec.Error()
}

// transactionFlags reports the transaction-state changes a statement's
// execution caused: committed, rolled back, isolation level changed.
type transactionFlags plainOptions

func (f transactionFlags) kind() PartKind { return PkTransactionFlags }
func (f *transactionFlags) decode(dec *encoding.Decoder, ph *PartHeader) error {
	*f = transactionFlags{}
	plainOptions(*f).decode(dec, ph.NumArg())
	return dec.Error()
}
func (f transactionFlags) committed() bool {
	v, ok := f[int8(tfCommitted)]
	b, _ := v.(bool)
	return ok && b
}
func (f transactionFlags) rolledBack() bool {
	v, ok := f[int8(tfRolledBack)]
	b, _ := v.(bool)
	return ok && b
}

// topologyInformation lists the cluster's index/name-server nodes, one
// plainOptions line per node.
type topologyInformation multiLineOptions

func (o topologyInformation) kind() PartKind { return PkTopologyInformation }
func (o *topologyInformation) decode(dec *encoding.Decoder, ph *PartHeader) error {
	(*multiLineOptions)(o).decode(dec, ph.NumArg())
	return dec.Error()
}

// dbConnectInfo answers a lookup for the tenant hosting a named
// database, or carries the redirect target after CONNECT.
type dbConnectInfo plainOptions

func (o dbConnectInfo) kind() PartKind { return PkDbConnectInfo }
func (o dbConnectInfo) numArg() int    { return len(o) }
func (o dbConnectInfo) size() int      { return plainOptions(o).size() }
func (o dbConnectInfo) encode(enc *encoding.Encoder) error { return plainOptions(o).encode(enc) }
func (o *dbConnectInfo) decode(dec *encoding.Decoder, ph *PartHeader) error {
	*o = dbConnectInfo{}
	plainOptions(*o).decode(dec, ph.NumArg())
	return dec.Error()
}
func (o dbConnectInfo) host() (string, bool) {
	v, ok := o[int8(dciHost)]
	s, _ := v.(string)
	return s, ok
}
func (o dbConnectInfo) port() (int32, bool) {
	v, ok := o[int8(dciPort)]
	p, _ := v.(int32)
	return p, ok
}
func (o dbConnectInfo) isConnected() bool {
	v, ok := o[int8(dciIsConnected)]
	b, _ := v.(bool)
	return ok && b
}

// fetchOptions and commitOptions are single-key option parts kept
// distinct from the richer connect/statement contexts for clarity at
// the call sites that build them.
type fetchOptions plainOptions

func (o fetchOptions) kind() PartKind { return PkFetchOptions }
func (o fetchOptions) numArg() int    { return len(o) }
func (o fetchOptions) size() int      { return plainOptions(o).size() }
func (o fetchOptions) encode(enc *encoding.Encoder) error { return plainOptions(o).encode(enc) }

type commitOptions plainOptions

func (o commitOptions) kind() PartKind { return PkCommitOptions }
func (o commitOptions) numArg() int    { return len(o) }
func (o commitOptions) size() int      { return plainOptions(o).size() }
func (o commitOptions) encode(enc *encoding.Encoder) error { return plainOptions(o).encode(enc) }

func (o connectOptions) String() string { return fmt.Sprintf("connectOptions %v", map[int8]any(o)) }
