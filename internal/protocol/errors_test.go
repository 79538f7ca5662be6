package protocol

import (
	"errors"
	"testing"
)

func TestServerErrorIsWarning(t *testing.T) {
	warn := &ServerError{Errors: []*SQLError{{Level: ErrorLevelWarning}, {Level: ErrorLevelWarning}}}
	if !warn.IsWarning() {
		t.Error("all-warning ServerError should report IsWarning")
	}

	mixed := &ServerError{Errors: []*SQLError{{Level: ErrorLevelWarning}, {Level: ErrorLevelError}}}
	if mixed.IsWarning() {
		t.Error("mixed-severity ServerError should not report IsWarning")
	}
}

func TestConnectionBrokenErrorUnwrap(t *testing.T) {
	cause := errors.New("read tcp: connection reset")
	err := NewConnectionBrokenError("dial", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through to the wrapped cause")
	}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
}

func TestProtocolAndAuthErrorConstructors(t *testing.T) {
	cause := errors.New("short read")
	pe := NewProtocolError("reading part header", cause)
	if !errors.Is(pe, cause) {
		t.Error("ProtocolError should wrap its cause")
	}
	ae := NewAuthError("method rejected", nil)
	if errors.Unwrap(ae) != nil {
		t.Error("AuthError with nil cause should unwrap to nil")
	}
}

func TestAnnotateExecutionFailures(t *testing.T) {
	ra := RowsAffected{1, raExecutionFailed, 2, raExecutionFailed}
	reply := &Reply{Parts: []ReplyPart{{Header: PartHeader{PartKind: PkRowsAffected}, Value: &ra}}}
	se := &ServerError{Errors: []*SQLError{{Code: 1}, {Code: 2}}}

	annotateExecutionFailures(reply, se)

	if len(se.StatementIndex) != 2 {
		t.Fatalf("StatementIndex = %v, want 2 entries", se.StatementIndex)
	}
	if se.StatementIndex[1] != 0 {
		t.Errorf("row 1 should map to error 0, got %d", se.StatementIndex[1])
	}
	if se.StatementIndex[3] != 1 {
		t.Errorf("row 3 should map to error 1, got %d", se.StatementIndex[3])
	}
}
