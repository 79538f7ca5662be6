// Package driver implements the client-facing surface of the HANA wire
// protocol core: connecting, preparing and executing statements, and
// streaming result sets and LOBs. It does not integrate with
// database/sql; callers drive ConnectionCore/ResultSetCursor directly.
package driver

import (
	"crypto/tls"
	"sync"
	"time"
)

// Holdability controls what happens to open server-side cursors across a
// COMMIT or ROLLBACK.
type Holdability int8

const (
	HoldOverCommit Holdability = iota
	CloseOnCommit
	CloseOnRollback
)

// Default connection attribute values (SPEC_FULL.md §6).
const (
	DefaultFetchSize        = 32
	DefaultLobReadSize      = 16 * 1024
	DefaultLobWriteSize     = 16 * 1024
	DefaultAutoCommit       = true
	DefaultCompression      = true
	DefaultCursorHoldability = HoldOverCommit
)

// ConnAttrs holds the connection-level configuration a Connector applies
// once, at Connect time, plus the subset (fetch size, holdability) a live
// ConnectionCore may still adjust. It is safe for concurrent use.
type ConnAttrs struct {
	mu sync.RWMutex

	host          string
	username      string
	password      string
	databaseName  string
	clientLocale  string
	networkGroup  string
	applicationName string

	tlsConfig *tls.Config

	timeout      time.Duration
	readTimeout  time.Duration

	fetchSize         int
	lobReadSize       int32
	lobWriteSize      int
	autoCommit        bool
	cursorHoldability Holdability
	compression       bool
}

// NewConnAttrs returns a ConnAttrs populated with the defaults from
// SPEC_FULL.md §6.
func NewConnAttrs() *ConnAttrs {
	return &ConnAttrs{
		timeout:           300 * time.Second,
		fetchSize:         DefaultFetchSize,
		lobReadSize:       DefaultLobReadSize,
		lobWriteSize:      DefaultLobWriteSize,
		autoCommit:        DefaultAutoCommit,
		cursorHoldability: DefaultCursorHoldability,
		compression:       DefaultCompression,
	}
}

func (a *ConnAttrs) FetchSize() int { a.mu.RLock(); defer a.mu.RUnlock(); return a.fetchSize }
func (a *ConnAttrs) SetFetchSize(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 1 {
		n = 1
	}
	a.fetchSize = n
}

func (a *ConnAttrs) LobReadSize() int32 { a.mu.RLock(); defer a.mu.RUnlock(); return a.lobReadSize }
func (a *ConnAttrs) SetLobReadSize(n int32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lobReadSize = n
}

func (a *ConnAttrs) LobWriteSize() int { a.mu.RLock(); defer a.mu.RUnlock(); return a.lobWriteSize }
func (a *ConnAttrs) SetLobWriteSize(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lobWriteSize = n
}

func (a *ConnAttrs) AutoCommit() bool { a.mu.RLock(); defer a.mu.RUnlock(); return a.autoCommit }
func (a *ConnAttrs) SetAutoCommit(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.autoCommit = v
}

func (a *ConnAttrs) CursorHoldability() Holdability {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cursorHoldability
}
func (a *ConnAttrs) SetCursorHoldability(h Holdability) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cursorHoldability = h
}

func (a *ConnAttrs) Compression() bool { a.mu.RLock(); defer a.mu.RUnlock(); return a.compression }
func (a *ConnAttrs) SetCompression(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.compression = v
}

func (a *ConnAttrs) ReadTimeout() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.readTimeout
}
func (a *ConnAttrs) SetReadTimeout(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readTimeout = d
}

func (a *ConnAttrs) Timeout() time.Duration { a.mu.RLock(); defer a.mu.RUnlock(); return a.timeout }
func (a *ConnAttrs) SetTimeout(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timeout = d
}

func (a *ConnAttrs) ClientLocale() string { a.mu.RLock(); defer a.mu.RUnlock(); return a.clientLocale }
func (a *ConnAttrs) SetClientLocale(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clientLocale = s
}

func (a *ConnAttrs) TLSConfig() *tls.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.tlsConfig == nil {
		return nil
	}
	return a.tlsConfig.Clone()
}
func (a *ConnAttrs) SetTLSConfig(c *tls.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c == nil {
		a.tlsConfig = nil
		return
	}
	a.tlsConfig = c.Clone()
}
