package driver

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdbdrv/gohdb/internal/protocol"
)

func TestResultSetCursorNextDrainsInlineBuffer(t *testing.T) {
	meta := &protocol.ResultSetMetadata{Fields: []*protocol.FieldDescriptor{{ColumnName: "X"}}}
	c := newResultSetCursor(newTestCore(), 0, meta, 10)
	c.appendRows([][]any{{int32(1)}, {int32(2)}})
	c.lastPacket = true
	c.serverClosed = true

	row, err := c.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), row[0])

	row, err = c.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), row[0])

	_, err = c.Next(nil)
	assert.ErrorIs(t, err, io.EOF)
}

func TestResultSetCursorNextEOFWithoutFetchWhenIDIsZero(t *testing.T) {
	meta := &protocol.ResultSetMetadata{Fields: []*protocol.FieldDescriptor{{ColumnName: "X"}}}
	c := newResultSetCursor(newTestCore(), 0, meta, 10)
	// id 0 with an empty buffer and lastPacket unset must still report EOF
	// rather than attempt a FETCHNEXT with no server-side cursor to fetch.
	_, err := c.Next(nil)
	assert.ErrorIs(t, err, io.EOF)
}

func TestWrapLobsReplacesDescriptorWithReader(t *testing.T) {
	meta := &protocol.ResultSetMetadata{Fields: []*protocol.FieldDescriptor{{ColumnName: "X"}}}
	c := newResultSetCursor(newTestCore(), 0, meta, 10)
	row := []any{&protocol.LobDescriptor{ID: 1, Data: []byte("hi"), Last: true}, (*protocol.LobDescriptor)(nil), "plain"}

	wrapped := c.wrapLobs(row)

	r, ok := wrapped[0].(io.Reader)
	require.True(t, ok, "wrapped[0] should be an io.Reader")
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(got))

	assert.Nil(t, wrapped[1], "nil LobDescriptor should wrap to nil")
	assert.Equal(t, "plain", wrapped[2], "non-LOB values should pass through unchanged")
}

func TestResultSetCursorCloseQueuesCleanupOnlyWhenNeeded(t *testing.T) {
	meta := &protocol.ResultSetMetadata{Fields: []*protocol.FieldDescriptor{{ColumnName: "X"}}}
	meta.Retain()

	conn := newTestCore()
	open := newResultSetCursor(conn, 42, meta, 10)
	require.NoError(t, open.Close(nil))
	conn.mu.Lock()
	queued := len(conn.pendingCleanup)
	conn.mu.Unlock()
	assert.Equal(t, 1, queued, "a still-open server cursor should queue cleanup")

	meta.Retain()
	closedAlready := newResultSetCursor(conn, 43, meta, 10)
	closedAlready.serverClosed = true
	require.NoError(t, closedAlready.Close(nil))
	conn.mu.Lock()
	queued = len(conn.pendingCleanup)
	conn.mu.Unlock()
	assert.Equal(t, 1, queued, "closing an already server-closed cursor should not queue anything new")

	// closing twice is a no-op
	assert.NoError(t, open.Close(nil))
}
