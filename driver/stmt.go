package driver

import (
	"context"
	"io"

	"github.com/hdbdrv/gohdb/internal/protocol"
)

// PreparedStatementCore is a compiled statement handle: the server keeps
// its plan alive under statementID until the DROPSTATEMENTID that Close
// queues goes out, piggybacked on the connection's next request or sent
// on its own when the connection closes.
type PreparedStatementCore struct {
	conn         *ConnectionCore
	sql          string
	statementID  uint64
	functionCode protocol.FunctionCode
	paramMeta    *protocol.ParameterMetadata
	resultMeta   *protocol.ResultSetMetadata

	batch  [][]any
	closed bool
}

// ParameterFields describes the statement's bind parameters, in
// positional order, including "out"/"inout" ones for a stored-procedure
// CALL.
func (s *PreparedStatementCore) ParameterFields() []*protocol.ParameterDescriptor {
	if s.paramMeta == nil {
		return nil
	}
	return s.paramMeta.Fields
}

// ResultFields describes the statement's result-set columns, or nil for
// a statement that never produces one.
func (s *PreparedStatementCore) ResultFields() []*protocol.FieldDescriptor {
	if s.resultMeta == nil {
		return nil
	}
	return s.resultMeta.Fields
}

func (s *PreparedStatementCore) inFields() []*protocol.ParameterDescriptor {
	all := s.ParameterFields()
	in := make([]*protocol.ParameterDescriptor, 0, len(all))
	for _, f := range all {
		if f.In() {
			in = append(in, f)
		}
	}
	return in
}

// ExecResultWithOutput adds stored-procedure OUT/INOUT values to
// ExecResult, since CALL is the only statement kind that produces both a
// row count and scalar outputs in the same reply.
type ExecResultWithOutput struct {
	ExecResult
	OutputValues []any
}

// Execute binds args positionally against the statement's "in"
// parameters and runs it once. Any arg implementing io.Reader that is
// bound to a LOB-typed parameter is treated as streaming LOB content: the driver reserves a locator for it in the
// EXECUTE request and pushes the bytes afterward via WRITELOB.
func (s *PreparedStatementCore) Execute(ctx context.Context, args []any) (*ExecResultWithOutput, []*ResultSetCursor, error) {
	if err := s.conn.checkAlive(); err != nil {
		return nil, nil, err
	}
	inFields := s.inFields()
	if len(args) != len(inFields) {
		return nil, nil, &protocol.UsageError{Reason: "parameter count mismatch"}
	}
	args, err := resolveArgs(args)
	if err != nil {
		return nil, nil, protocol.NewConversionError("binding parameter", err)
	}

	streams := collectLobStreams(inFields, args)

	params := &protocol.Parameters{Fields: inFields, Rows: [][]any{args}}
	req := protocol.NewRequest(protocol.MtExecute, s.conn.attrs.AutoCommit(), protocol.StatementID(s.statementID), params)
	s.conn.prepareRequest(req)
	reply, err := s.conn.framer.RoundTrip(req, protocol.DecodeHints{ParameterFields: s.ParameterFields(), ResultFields: s.ResultFields()})
	if err != nil {
		return nil, nil, s.conn.markDead(err)
	}
	s.conn.recordWarnings(reply)

	if len(streams) > 0 {
		if err := s.pushLobStreams(reply, streams); err != nil {
			return nil, nil, err
		}
	}

	execRes, cursors, _ := s.conn.demux(reply)
	res := &ExecResultWithOutput{ExecResult: *execRes}
	if p := reply.Part(protocol.PkOutputParameters); p != nil {
		if op, ok := p.Value.(*protocol.OutputParameters); ok {
			res.OutputValues = op.Values
		}
	}
	return res, cursors, nil
}

// lobStream pairs a positional argument index with the io.Reader it came
// as, in the order the server will hand back locator ids in WriteLobReply.
// charBased marks an NCLOB/CLOB/TEXT source, whose bytes are UTF-8 and
// need transcoding to CESU-8 before they go out on the wire.
type lobStream struct {
	argIndex  int
	src       io.Reader
	charBased bool
}

func collectLobStreams(fields []*protocol.ParameterDescriptor, args []any) []lobStream {
	var streams []lobStream
	for i, v := range args {
		if !fields[i].TypeCode.IsLob() {
			continue
		}
		if r, ok := v.(io.Reader); ok {
			streams = append(streams, lobStream{argIndex: i, src: r, charBased: fields[i].TypeCode.IsCharBased()})
		}
	}
	return streams
}

func (s *PreparedStatementCore) pushLobStreams(reply *protocol.Reply, streams []lobStream) error {
	p := reply.Part(protocol.PkWriteLobReply)
	if p == nil {
		return &protocol.ProtocolError{Reason: "execute reserved lob parameters but server returned no locators"}
	}
	wlr, ok := p.Value.(*protocol.WriteLobReply)
	if !ok || len(wlr.IDs) != len(streams) {
		return &protocol.ProtocolError{Reason: "lob locator count does not match reserved parameters"}
	}
	ids := make([]protocol.LocatorID, len(streams))
	sources := make([]io.Reader, len(streams))
	charBased := make([]bool, len(streams))
	for i, st := range streams {
		ids[i] = wlr.IDs[i]
		sources[i] = st.src
		charBased[i] = st.charBased
	}
	return s.conn.lobWriter().WriteAll(ids, sources, charBased)
}

// AddBatch stages one row of "in" parameter values for a later
// ExecuteBatch. Batch execution does not support streaming LOB
// parameters; bind a []byte/string directly for LOB columns in a batch.
func (s *PreparedStatementCore) AddBatch(args []any) error {
	if len(args) != len(s.inFields()) {
		return &protocol.UsageError{Reason: "parameter count mismatch"}
	}
	resolved, err := resolveArgs(args)
	if err != nil {
		return protocol.NewConversionError("binding batch parameter", err)
	}
	s.batch = append(s.batch, resolved)
	return nil
}

// ExecuteBatch runs every row staged by AddBatch in one EXECUTE request,
// returning per-row affected counts (RowsAffected.Total, or inspect the
// slice directly for per-row sentinels on partial failure).
func (s *PreparedStatementCore) ExecuteBatch(ctx context.Context) (*ExecResult, error) {
	if err := s.conn.checkAlive(); err != nil {
		return nil, err
	}
	rows := s.batch
	s.batch = nil
	if len(rows) == 0 {
		return &ExecResult{FunctionCode: s.functionCode}, nil
	}

	params := &protocol.Parameters{Fields: s.inFields(), Rows: rows}
	req := protocol.NewRequest(protocol.MtExecute, s.conn.attrs.AutoCommit(), protocol.StatementID(s.statementID), params)
	s.conn.prepareRequest(req)
	reply, err := s.conn.framer.RoundTrip(req, protocol.DecodeHints{})
	if err != nil {
		// A batch with some failing rows still returns *ServerError with
		// StatementIndex populated (annotateExecutionFailures), so the
		// caller can correlate which rows failed and why even though this
		// method reports the batch itself as failed.
		return nil, s.conn.markDead(err)
	}
	s.conn.recordWarnings(reply)
	res := &ExecResult{FunctionCode: reply.FunctionCode}
	if p := reply.Part(protocol.PkRowsAffected); p != nil {
		if ra, ok := p.Value.(*protocol.RowsAffected); ok {
			res.RowsAffected = *ra
		}
	}
	return res, nil
}

// Close queues a DROPSTATEMENTID for the statement's server-side plan,
// piggybacked on this connection's next request or flushed on Close.
// Safe to call more than once.
func (s *PreparedStatementCore) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.paramMeta != nil {
		s.paramMeta.Release()
	}
	if s.resultMeta != nil {
		s.resultMeta.Release()
	}
	s.conn.queueDropStatement(s.statementID)
	return nil
}
