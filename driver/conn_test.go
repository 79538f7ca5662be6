package driver

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdbdrv/gohdb/internal/protocol"
)

func newTestCore() *ConnectionCore {
	return newConnectionCore(nil, NewConnAttrs(), slog.Default(), protocol.ClientID("test-client"))
}

func TestPrepareRequestPrependsQueuedCleanup(t *testing.T) {
	c := newTestCore()
	c.queueDropStatement(7)
	c.queueCloseResultset(9)

	req := protocol.NewRequest(protocol.MtExecuteDirect, true, protocol.Command("select 1 from dummy"))
	c.prepareRequest(req)

	require.Len(t, req.Parts, 3, "2 cleanup + 1 original")
	sid, ok := req.Parts[0].(protocol.StatementID)
	assert.True(t, ok)
	assert.Equal(t, protocol.StatementID(7), sid)
	rid, ok := req.Parts[1].(protocol.ResultsetID)
	assert.True(t, ok)
	assert.Equal(t, protocol.ResultsetID(9), rid)
	_, ok = req.Parts[2].(protocol.Command)
	assert.True(t, ok, "Parts[2] should be the original Command")

	// the queue must be drained: a second call finds nothing left to prepend.
	req2 := protocol.NewRequest(protocol.MtExecuteDirect, true, protocol.Command("select 2 from dummy"))
	c.prepareRequest(req2)
	require.Len(t, req2.Parts, 1, "Parts after drain")
}

func TestPrepareRequestNoopWhenQueueEmpty(t *testing.T) {
	c := newTestCore()
	req := protocol.NewRequest(protocol.MtExecuteDirect, true, protocol.Command("select 1 from dummy"))
	orig := req.Parts
	c.prepareRequest(req)
	assert.Len(t, req.Parts, len(orig), "prepareRequest mutated Parts with an empty queue")
}

func TestCheckAliveTransitions(t *testing.T) {
	c := newTestCore()
	require.NoError(t, c.checkAlive(), "fresh connection should be alive")
	assert.True(t, c.IsAlive())

	c.markDead(&protocol.ProtocolError{Reason: "boom"})
	assert.False(t, c.IsAlive(), "should be false after markDead with a ProtocolError")
	assert.Error(t, c.checkAlive(), "checkAlive should fail once dead")
}

func TestMarkDeadIgnoresUnrelatedErrors(t *testing.T) {
	c := newTestCore()
	c.markDead(&protocol.UsageError{Reason: "bad argument"})
	assert.True(t, c.IsAlive(), "a UsageError should not mark the connection dead")
}

func TestDemuxInlineResultset(t *testing.T) {
	c := newTestCore()
	meta := &protocol.ResultSetMetadata{Fields: []*protocol.FieldDescriptor{{ColumnName: "X"}}}
	rs := &protocol.Resultset{Fields: meta.Fields, Rows: [][]any{{int32(1)}, {int32(2)}}}
	reply := &protocol.Reply{
		FunctionCode: protocol.FcSelect,
		Parts: []protocol.ReplyPart{
			{Header: protocol.PartHeader{PartKind: protocol.PkResultMetadata}, Value: meta},
			{Header: protocol.PartHeader{PartKind: protocol.PkResultset}, Value: rs},
		},
	}

	res, cursors, err := c.demux(reply)
	require.NoError(t, err)
	assert.Equal(t, protocol.FcSelect, res.FunctionCode)
	require.Len(t, cursors, 1)

	cur := cursors[0]
	assert.Zero(t, cur.id, "inline result should carry cursor id 0")
	assert.True(t, cur.lastPacket && cur.serverClosed, "inline result should be marked as the final, closed packet")
	assert.Len(t, cur.buf, 2)
}

func TestDemuxServerCursorNotYetClosed(t *testing.T) {
	c := newTestCore()
	meta := &protocol.ResultSetMetadata{Fields: []*protocol.FieldDescriptor{{ColumnName: "X"}}}
	rsID := protocol.ResultsetID(55)
	rs := &protocol.Resultset{Fields: meta.Fields, Rows: [][]any{{int32(1)}}}
	reply := &protocol.Reply{
		Parts: []protocol.ReplyPart{
			{Header: protocol.PartHeader{PartKind: protocol.PkResultMetadata}, Value: meta},
			{Header: protocol.PartHeader{PartKind: protocol.PkResultsetID}, Value: &rsID},
			{
				Header: protocol.PartHeader{PartKind: protocol.PkResultset, PartAttributes: 0},
				Value:  rs,
			},
		},
	}

	_, cursors, err := c.demux(reply)
	require.NoError(t, err)
	require.Len(t, cursors, 1)

	cur := cursors[0]
	assert.EqualValues(t, 55, cur.id)
	assert.False(t, cur.lastPacket || cur.serverClosed, "cursor with no PaLastPacket/PaResultsetClosed bits should not be marked closed")
}

func TestDemuxRowsAffectedOnly(t *testing.T) {
	c := newTestCore()
	ra := protocol.RowsAffected{3}
	reply := &protocol.Reply{
		FunctionCode: protocol.FcUpdate,
		Parts: []protocol.ReplyPart{
			{Header: protocol.PartHeader{PartKind: protocol.PkRowsAffected}, Value: &ra},
		},
	}
	res, cursors, err := c.demux(reply)
	require.NoError(t, err)
	assert.Empty(t, cursors, "a DML reply should carry no cursors")
	assert.EqualValues(t, 3, res.RowsAffected.Total())
}

func TestCloseIsIdempotent(t *testing.T) {
	c := newTestCore()
	c.closed = true // avoid touching a nil framer
	assert.NoError(t, c.Close())
}

func TestRecordWarningsIgnoresReplyWithoutErrorPart(t *testing.T) {
	c := newTestCore()
	c.recordWarnings(&protocol.Reply{})
	assert.Empty(t, c.Warnings(), "recordWarnings should not invent warnings from a bare reply")
}
