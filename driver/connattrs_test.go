package driver

import "testing"

func TestNewConnAttrsDefaults(t *testing.T) {
	a := NewConnAttrs()
	if a.FetchSize() != DefaultFetchSize {
		t.Errorf("FetchSize = %d, want %d", a.FetchSize(), DefaultFetchSize)
	}
	if a.LobReadSize() != DefaultLobReadSize {
		t.Errorf("LobReadSize = %d, want %d", a.LobReadSize(), DefaultLobReadSize)
	}
	if a.AutoCommit() != DefaultAutoCommit {
		t.Errorf("AutoCommit = %v, want %v", a.AutoCommit(), DefaultAutoCommit)
	}
	if a.CursorHoldability() != DefaultCursorHoldability {
		t.Errorf("CursorHoldability = %v, want %v", a.CursorHoldability(), DefaultCursorHoldability)
	}
	if !a.Compression() {
		t.Error("Compression should default to true")
	}
}

func TestConnAttrsSetters(t *testing.T) {
	a := NewConnAttrs()

	a.SetFetchSize(500)
	if a.FetchSize() != 500 {
		t.Errorf("FetchSize = %d, want 500", a.FetchSize())
	}

	a.SetFetchSize(0)
	if a.FetchSize() != 1 {
		t.Errorf("FetchSize clamps to 1, got %d", a.FetchSize())
	}

	a.SetAutoCommit(false)
	if a.AutoCommit() {
		t.Error("AutoCommit should be false")
	}

	a.SetCursorHoldability(CloseOnCommit)
	if a.CursorHoldability() != CloseOnCommit {
		t.Errorf("CursorHoldability = %v, want CloseOnCommit", a.CursorHoldability())
	}
}

func TestConnAttrsTLSConfigIsolation(t *testing.T) {
	a := NewConnAttrs()
	if a.TLSConfig() != nil {
		t.Error("TLSConfig should default to nil")
	}
}
