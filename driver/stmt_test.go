package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdbdrv/gohdb/internal/protocol"
)

func newTestStmt(fields []*protocol.ParameterDescriptor) *PreparedStatementCore {
	return &PreparedStatementCore{
		conn:        newTestCore(),
		statementID: 1,
		paramMeta:   &protocol.ParameterMetadata{Fields: fields},
	}
}

func TestInFieldsFiltersOutOnlyParameters(t *testing.T) {
	s := newTestStmt([]*protocol.ParameterDescriptor{
		{Mode: protocol.ParamIn},
		{Mode: protocol.ParamOut},
		{Mode: protocol.ParamInOut},
	})
	in := s.inFields()
	assert.Len(t, in, 2, "ParamIn and ParamInOut")
}

func TestCollectLobStreamsOnlyMatchesLobColumnsWithReaders(t *testing.T) {
	fields := []*protocol.ParameterDescriptor{
		{TypeCode: protocol.TcBlob},
		{TypeCode: protocol.TcInteger},
		{TypeCode: protocol.TcClob},
	}
	args := []any{strings.NewReader("blob bytes"), int32(5), "inline clob text"}

	streams := collectLobStreams(fields, args)
	require.Len(t, streams, 1)
	assert.Equal(t, 0, streams[0].argIndex)
}

func TestAddBatchRejectsWrongArgCount(t *testing.T) {
	s := newTestStmt([]*protocol.ParameterDescriptor{{Mode: protocol.ParamIn}})
	assert.Error(t, s.AddBatch([]any{1, 2}), "expected an error for a mismatched batch row")
}

func TestAddBatchAppliesValuer(t *testing.T) {
	s := newTestStmt([]*protocol.ParameterDescriptor{{Mode: protocol.ParamIn}})
	require.NoError(t, s.AddBatch([]any{fixedValuer{42}}))
	require.Len(t, s.batch, 1)
	assert.Equal(t, 42, s.batch[0][0])
}

func TestAddBatchWrapsValuerErrorAsConversionError(t *testing.T) {
	s := newTestStmt([]*protocol.ParameterDescriptor{{Mode: protocol.ParamIn}})
	err := s.AddBatch([]any{failingValuer{}})
	require.Error(t, err)
	_, ok := err.(*protocol.ConversionError)
	assert.True(t, ok, "err = %T, want *protocol.ConversionError", err)
}

func TestExecuteBatchNoopOnEmptyBatch(t *testing.T) {
	s := newTestStmt(nil)
	s.functionCode = protocol.FcUpdate
	res, err := s.ExecuteBatch(nil)
	require.NoError(t, err)
	assert.Equal(t, protocol.FcUpdate, res.FunctionCode)
}

func TestStmtCloseQueuesDropAndReleasesMetadata(t *testing.T) {
	s := newTestStmt([]*protocol.ParameterDescriptor{{Mode: protocol.ParamIn}})
	s.paramMeta.Retain()
	s.resultMeta = &protocol.ResultSetMetadata{}
	s.resultMeta.Retain()

	require.NoError(t, s.Close(nil))
	s.conn.mu.Lock()
	queued := len(s.conn.pendingCleanup)
	s.conn.mu.Unlock()
	assert.Equal(t, 1, queued)

	assert.NoError(t, s.Close(nil), "second Close")
}

type failingValuer struct{}

func (failingValuer) HdbValue() (any, error) { return nil, errBoom }

var errBoom = &protocol.UsageError{Reason: "boom"}
