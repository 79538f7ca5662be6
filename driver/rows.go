package driver

import (
	"context"
	"io"

	"github.com/hdbdrv/gohdb/internal/lob"
	"github.com/hdbdrv/gohdb/internal/protocol"
)

// ResultSetCursor streams the rows of one query result set, fetching
// further pages from the server on demand via a server-side cursor id.
// A zero id means the entire result arrived inline with the statement's
// reply and no FETCHNEXT is ever needed.
type ResultSetCursor struct {
	conn      *ConnectionCore
	id        uint64
	metadata  *protocol.ResultSetMetadata
	fetchSize int32

	buf          [][]any
	pos          int
	lastPacket   bool
	serverClosed bool
	closed       bool
}

func newResultSetCursor(conn *ConnectionCore, id uint64, meta *protocol.ResultSetMetadata, fetchSize int) *ResultSetCursor {
	return &ResultSetCursor{conn: conn, id: id, metadata: meta, fetchSize: int32(fetchSize)}
}

// Fields describes the result set's columns, in column order.
func (c *ResultSetCursor) Fields() []*protocol.FieldDescriptor { return c.metadata.Fields }

func (c *ResultSetCursor) appendRows(rows [][]any) { c.buf = append(c.buf, rows...) }

// Next advances to the next row, transparently issuing a FETCHNEXT round
// trip when the local buffer is exhausted and the server has more. It
// returns io.EOF once the result set is drained.
func (c *ResultSetCursor) Next(ctx context.Context) ([]any, error) {
	if c.pos < len(c.buf) {
		row := c.buf[c.pos]
		c.pos++
		return c.wrapLobs(row), nil
	}
	if c.lastPacket || c.id == 0 {
		return nil, io.EOF
	}
	if err := c.fetchNext(ctx); err != nil {
		return nil, err
	}
	return c.Next(ctx)
}

func (c *ResultSetCursor) fetchNext(ctx context.Context) error {
	fetchSize := c.fetchSize
	if fetchSize <= 0 {
		fetchSize = DefaultFetchSize
	}
	reply, err := c.conn.fetchNext(ctx, c.id, fetchSize, protocol.DecodeHints{ResultFields: c.metadata.Fields})
	if err != nil {
		return err
	}
	c.buf = c.buf[:0]
	c.pos = 0
	if p := reply.Part(protocol.PkResultset); p != nil {
		if rs, ok := p.Value.(*protocol.Resultset); ok {
			c.buf = rs.Rows
		}
		c.lastPacket = p.Header.PartAttributes.LastPacket()
		c.serverClosed = p.Header.PartAttributes.ResultsetClosed()
	} else {
		c.lastPacket = true
		c.serverClosed = true
	}
	return nil
}

// wrapLobs replaces any *protocol.LobDescriptor cell with a streaming
// io.Reader (or nil for a SQL NULL), so callers never see the wire-level
// descriptor type.
func (c *ResultSetCursor) wrapLobs(row []any) []any {
	for i, v := range row {
		d, ok := v.(*protocol.LobDescriptor)
		if !ok {
			continue
		}
		if d == nil {
			row[i] = nil
			continue
		}
		chunkSize := c.conn.attrs.LobReadSize()
		row[i] = lob.NewReader(c.conn, d.ID, d.Data, d.Last, chunkSize, d.CharBased)
	}
	return row
}

// Close releases the cursor's metadata reference and, if the server
// hasn't already closed the cursor itself (a fully-drained fetch reports
// this), queues a CLOSERESULTSET to release the server-side handle too —
// piggybacked on whatever this connection sends next, or flushed as a
// dedicated round trip if the connection closes first.
func (c *ResultSetCursor) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.metadata.Release()
	if c.id == 0 || c.serverClosed {
		return nil
	}
	c.conn.queueCloseResultset(c.id)
	return nil
}
