package driver

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/hdbdrv/gohdb/internal/lob"
	"github.com/hdbdrv/gohdb/internal/protocol"
)

// pingQuery mirrors the cheap liveness probe HANA drivers traditionally
// use; DUMMY always exists and returning one row costs nothing server
// side.
const pingQuery = "select 1 from dummy"

// ExecResult carries the outcome of a direct or prepared DML/DDL
// execution: the function code the server reported plus, for INSERT/
// UPDATE/DELETE, the per-row affected counts.
type ExecResult struct {
	FunctionCode protocol.FunctionCode
	RowsAffected protocol.RowsAffected
}

// ConnectionCore owns one authenticated wire connection: its framer, the
// negotiated session state, and the bookkeeping needed to release
// server-side statement and cursor handles deterministically. Every
// exported method is safe to call from a single goroutine at a time; the
// framer's own mutex prevents corrupting the wire if a caller violates
// that (SPEC_FULL.md §5).
type ConnectionCore struct {
	mu sync.Mutex

	framer *protocol.Framer
	attrs  *ConnAttrs
	logger *slog.Logger

	// connID correlates this connection's log lines across its lifetime;
	// it never crosses the wire, unlike clientID.
	connID         uuid.UUID
	clientID       protocol.ClientID
	sessionContext protocol.SessionContext

	pendingClientInfo protocol.ClientInfo
	warnings          []*protocol.SQLError

	// pendingCleanup holds DROPSTATEMENTID/CLOSERESULTSET requests queued
	// by a cursor or statement dropped while the connection was otherwise
	// idle; they are prepended to the Parts of whatever request this
	// connection assembles next (SPEC_FULL.md §9), or flushed as a
	// dedicated round trip by Close if nothing else comes along first.
	pendingCleanup []cleanupRequest

	closed bool
	dead   bool
}

type cleanupRequest struct {
	dropStatement bool
	id            uint64
}

func newConnectionCore(framer *protocol.Framer, attrs *ConnAttrs, logger *slog.Logger, clientID protocol.ClientID) *ConnectionCore {
	connID := uuid.New()
	return &ConnectionCore{
		framer:   framer,
		attrs:    attrs,
		logger:   logger.With(slog.String("conn_id", connID.String())),
		connID:   connID,
		clientID: clientID,
	}
}

// Warnings drains and returns the SQLErrors of warning severity
// accumulated since the last call, correlated to the statement that
// produced them by whatever the caller already tracks; ConnectionCore
// itself only aggregates them (SPEC_FULL.md §7).
func (c *ConnectionCore) Warnings() []*protocol.SQLError {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := c.warnings
	c.warnings = nil
	return w
}

// HDBVersion, DatabaseName and similar session-identity accessors are
// intentionally omitted here: this core exposes only what SPEC_FULL.md
// names, not the full session inspection surface database/sql adapters
// tend to accumulate.

func (c *ConnectionCore) checkAlive() error {
	if c.closed {
		return &protocol.UsageError{Reason: "connection is closed"}
	}
	if c.dead {
		return &protocol.UsageError{Reason: "connection is dead after a prior protocol or transport error"}
	}
	return nil
}

func (c *ConnectionCore) markDead(err error) error {
	switch err.(type) {
	case *protocol.ProtocolError, *protocol.ConnectionBrokenError:
		c.dead = true
		c.logger.Warn("connection marked dead", slog.Any("error", err))
	}
	return err
}

// queueDropStatement schedules a DROPSTATEMENTID for the next request
// this connection sends.
func (c *ConnectionCore) queueDropStatement(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingCleanup = append(c.pendingCleanup, cleanupRequest{dropStatement: true, id: id})
}

// queueCloseResultset schedules a CLOSERESULTSET similarly.
func (c *ConnectionCore) queueCloseResultset(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingCleanup = append(c.pendingCleanup, cleanupRequest{dropStatement: false, id: id})
}

// prepareRequest prepends any queued cleanup parts onto req before it
// goes out, so a dropped cursor or statement's handle is released
// without a dedicated round trip whenever traffic is already flowing.
func (c *ConnectionCore) prepareRequest(req *protocol.Request) {
	c.mu.Lock()
	pending := c.pendingCleanup
	c.pendingCleanup = nil
	c.mu.Unlock()
	if len(pending) == 0 {
		return
	}
	rest := req.Parts
	req.Parts = nil
	for _, cl := range pending {
		if cl.dropStatement {
			req.Parts = append(req.Parts, protocol.StatementID(cl.id))
		} else {
			req.Parts = append(req.Parts, protocol.ResultsetID(cl.id))
		}
	}
	req.Parts = append(req.Parts, rest...)
}

// flushCleanup sends any still-queued cleanup as a dedicated round trip,
// one request per item; used by Close when nothing else is going out to
// carry it.
func (c *ConnectionCore) flushCleanup(ctx context.Context) {
	c.mu.Lock()
	pending := c.pendingCleanup
	c.pendingCleanup = nil
	c.mu.Unlock()
	for _, cl := range pending {
		if cl.dropStatement {
			_ = c.dropStatement(ctx, cl.id)
		} else {
			_ = c.closeResultset(ctx, cl.id)
		}
	}
}

// recordWarnings appends any warning-severity SQLErrors a reply carried
// (a non-warning Error part already short-circuits RoundTrip with an
// error, so anything reaching here is a warning by construction).
func (c *ConnectionCore) recordWarnings(reply *protocol.Reply) {
	p := reply.Part(protocol.PkError)
	if p == nil {
		return
	}
	ep, ok := p.Value.(*protocol.ErrorPart)
	if !ok {
		return
	}
	c.mu.Lock()
	c.warnings = append(c.warnings, ep.ServerError.Errors...)
	c.mu.Unlock()
}

// SetAutoCommit toggles whether each top-level ExecuteDirect/Execute
// carries the segment commit flag.
func (c *ConnectionCore) SetAutoCommit(v bool) { c.attrs.SetAutoCommit(v) }

// SetClientInfo stages session metadata (APPLICATION, APPLICATIONUSER,
// ...) to be sent with the next ExecuteDirect request.
func (c *ConnectionCore) SetClientInfo(kv map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingClientInfo = protocol.NewClientInfo(kv)
}

// ExecuteDirect executes sql without bind parameters. It returns exec
// results for statements that report affected rows and a cursor per
// result set the statement produced — more than one for the multi-
// result-set management-console statements described among SPEC_FULL.md's
// supplemented features.
func (c *ConnectionCore) ExecuteDirect(ctx context.Context, sql string) (*ExecResult, []*ResultSetCursor, error) {
	if err := c.checkAlive(); err != nil {
		return nil, nil, err
	}
	var req *protocol.Request
	if c.pendingClientInfo != nil {
		req = protocol.NewRequest(protocol.MtExecuteDirect, c.attrs.AutoCommit(), protocol.Command(sql), c.pendingClientInfo)
		c.pendingClientInfo = nil
	} else {
		req = protocol.NewRequest(protocol.MtExecuteDirect, c.attrs.AutoCommit(), protocol.Command(sql))
	}
	c.prepareRequest(req)
	reply, err := c.framer.RoundTrip(req, protocol.DecodeHints{})
	if err != nil {
		return nil, nil, c.markDead(err)
	}
	c.recordWarnings(reply)
	return c.demux(reply)
}

// demux walks a reply's Parts and assembles the ExecResult plus every
// ResultSetMetadata/Resultset pair it carries, in wire order. More than
// one pair shows up for the multi-result-set management-console
// statements SPEC_FULL.md's supplemented features describe.
func (c *ConnectionCore) demux(reply *protocol.Reply) (*ExecResult, []*ResultSetCursor, error) {
	res := &ExecResult{FunctionCode: reply.FunctionCode}
	var cursors []*ResultSetCursor

	var pendingMeta *protocol.ResultSetMetadata
	for i := range reply.Parts {
		switch v := reply.Parts[i].Value.(type) {
		case *protocol.RowsAffected:
			res.RowsAffected = *v
		case *protocol.ResultSetMetadata:
			pendingMeta = v
			pendingMeta.Retain()
		case *protocol.ResultsetID:
			if pendingMeta != nil {
				cursors = append(cursors, newResultSetCursor(c, uint64(*v), pendingMeta, c.attrs.FetchSize()))
			}
		case *protocol.Resultset:
			if pendingMeta == nil {
				continue
			}
			attrs := reply.Parts[i].Header.PartAttributes
			if len(cursors) > 0 && cursors[len(cursors)-1].metadata == pendingMeta && cursors[len(cursors)-1].id != 0 {
				cur := cursors[len(cursors)-1]
				cur.appendRows(v.Rows)
				cur.lastPacket = attrs.LastPacket()
				cur.serverClosed = attrs.ResultsetClosed()
			} else {
				// No ResultsetID preceded this Resultset: the whole result
				// fit in the statement's own reply, so the cursor gets id
				// 0 and never issues a FETCHNEXT.
				cur := newResultSetCursor(c, 0, pendingMeta, c.attrs.FetchSize())
				cur.appendRows(v.Rows)
				cur.lastPacket = true
				cur.serverClosed = true
				cursors = append(cursors, cur)
			}
		}
	}
	return res, cursors, nil
}

// Prepare compiles sql on the server and returns a handle for repeated
// execution with bind parameters.
func (c *ConnectionCore) Prepare(ctx context.Context, sql string) (*PreparedStatementCore, error) {
	if err := c.checkAlive(); err != nil {
		return nil, err
	}
	req := protocol.NewRequest(protocol.MtPrepare, false, protocol.Command(sql))
	c.prepareRequest(req)
	reply, err := c.framer.RoundTrip(req, protocol.DecodeHints{})
	if err != nil {
		return nil, c.markDead(err)
	}

	ps := &PreparedStatementCore{conn: c, sql: sql, functionCode: reply.FunctionCode}
	for i := range reply.Parts {
		switch v := reply.Parts[i].Value.(type) {
		case *protocol.StatementID:
			ps.statementID = uint64(*v)
		case *protocol.ParameterMetadata:
			v.Retain()
			ps.paramMeta = v
		case *protocol.ResultSetMetadata:
			v.Retain()
			ps.resultMeta = v
		}
	}
	return ps, nil
}

// Commit ends the current transaction, honoring the connection's
// configured cursor holdability.
func (c *ConnectionCore) Commit(ctx context.Context) error {
	if err := c.checkAlive(); err != nil {
		return err
	}
	co := protocol.NewCommitOptionsRequest(c.attrs.CursorHoldability() == HoldOverCommit)
	req := protocol.NewRequest(protocol.MtCommit, false, co)
	c.prepareRequest(req)
	_, err := c.framer.RoundTrip(req, protocol.DecodeHints{})
	if err != nil {
		return c.markDead(err)
	}
	return nil
}

// Rollback aborts the current transaction.
func (c *ConnectionCore) Rollback(ctx context.Context) error {
	if err := c.checkAlive(); err != nil {
		return err
	}
	req := protocol.NewRequest(protocol.MtRollback, false)
	c.prepareRequest(req)
	_, err := c.framer.RoundTrip(req, protocol.DecodeHints{})
	if err != nil {
		return c.markDead(err)
	}
	return nil
}

// Ping issues a cheap round trip to confirm the session is still
// responsive (SPEC_FULL.md's supplemented is_alive feature).
func (c *ConnectionCore) Ping(ctx context.Context) error {
	_, _, err := c.ExecuteDirect(ctx, pingQuery)
	return err
}

// IsAlive reports whether the connection has neither been closed nor
// marked dead by a prior fatal error, without making a round trip.
func (c *ConnectionCore) IsAlive() bool {
	return !c.closed && !c.dead
}

// Close flushes any queued cleanup and sends a best-effort DISCONNECT. It
// does not close the underlying network connection. It is safe to call
// more than once.
func (c *ConnectionCore) Close() error {
	// Flush before marking the connection closed: dropStatement and
	// closeResultset send nothing once it is.
	c.flushCleanup(context.Background())
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	dead := c.dead
	c.mu.Unlock()

	if dead {
		return nil
	}
	c.logger.Debug("closing connection")
	req := protocol.NewRequest(protocol.MtDisconnect, false)
	_, _ = c.framer.RoundTrip(req, protocol.DecodeHints{})
	return nil
}

func (c *ConnectionCore) dropStatement(ctx context.Context, id uint64) error {
	if err := c.checkAlive(); err != nil {
		return nil // a dead/closed connection has nothing left to clean up server-side
	}
	req := protocol.NewRequest(protocol.MtDropStatementID, false, protocol.StatementID(id))
	_, err := c.framer.RoundTrip(req, protocol.DecodeHints{})
	return err
}

func (c *ConnectionCore) closeResultset(ctx context.Context, id uint64) error {
	if id == 0 {
		return nil
	}
	if err := c.checkAlive(); err != nil {
		return nil
	}
	req := protocol.NewRequest(protocol.MtCloseResultset, false, protocol.ResultsetID(id))
	_, err := c.framer.RoundTrip(req, protocol.DecodeHints{})
	return err
}

func (c *ConnectionCore) fetchNext(ctx context.Context, resultsetID uint64, fetchSize int32, hints protocol.DecodeHints) (*protocol.Reply, error) {
	if err := c.checkAlive(); err != nil {
		return nil, err
	}
	fo := protocol.NewFetchOptionsRequest(resultsetID)
	req := protocol.NewRequest(protocol.MtFetchNext, false, fo, protocol.FetchSize(fetchSize))
	c.prepareRequest(req)
	reply, err := c.framer.RoundTrip(req, hints)
	if err != nil {
		return nil, c.markDead(err)
	}
	return reply, nil
}

// FetchLob implements lob.Fetcher, issuing one READLOB round trip.
func (c *ConnectionCore) FetchLob(id protocol.LocatorID, offset int64, length int32) (*protocol.ReadLobReply, error) {
	if err := c.checkAlive(); err != nil {
		return nil, err
	}
	req := protocol.NewRequest(protocol.MtReadLob, false, &protocol.ReadLobRequest{ID: id, Offset: offset, Length: length})
	reply, err := c.framer.RoundTrip(req, protocol.DecodeHints{})
	if err != nil {
		return nil, c.markDead(err)
	}
	p := reply.Part(protocol.PkReadLobReply)
	if p == nil {
		return nil, &protocol.ProtocolError{Reason: "READLOB reply missing ReadLobReply part"}
	}
	return p.Value.(*protocol.ReadLobReply), nil
}

// PushLob implements lob.Pusher, issuing one WRITELOB round trip carrying
// every chunk in the batch.
func (c *ConnectionCore) PushLob(chunks []*protocol.WriteLobChunk) (*protocol.WriteLobReply, error) {
	if err := c.checkAlive(); err != nil {
		return nil, err
	}
	req := protocol.NewRequest(protocol.MtWriteLob, false, &protocol.WriteLobRequest{Chunks: chunks})
	reply, err := c.framer.RoundTrip(req, protocol.DecodeHints{})
	if err != nil {
		return nil, c.markDead(err)
	}
	p := reply.Part(protocol.PkWriteLobReply)
	if p == nil {
		return &protocol.WriteLobReply{}, nil
	}
	return p.Value.(*protocol.WriteLobReply), nil
}

// lobWriter returns a streaming writer sized by the connection's
// lob_write_size attribute.
func (c *ConnectionCore) lobWriter() *lob.Writer {
	return lob.NewWriter(c, c.attrs.LobWriteSize())
}
