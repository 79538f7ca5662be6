package driver

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/hdbdrv/gohdb/internal/protocol"
)

// DriverName/DriverVersion identify this driver in ClientContext, shown
// server-side in M_SESSION_CONTEXT and workload monitors.
const (
	DriverName    = "go-hdb-core"
	DriverVersion = "1.0.0"
)

// dataFormatVersion is the highest data format level this driver speaks;
// negotiated down by the server if it is older.
const dataFormatVersion = 8

// Connector holds a fixed connection configuration and produces
// ConnectionCore instances from it. A Connector is safe to reuse and to
// share across goroutines once configured; it should not be mutated
// after the first Connect call.
type Connector struct {
	Host     string
	Username string
	Password string

	Attrs *ConnAttrs

	DatabaseName    string
	ApplicationName string

	Logger *slog.Logger
}

// NewConnector builds a Connector for basic-credential authentication.
func NewConnector(host, username, password string) *Connector {
	return &Connector{
		Host:     host,
		Username: username,
		Password: password,
		Attrs:    NewConnAttrs(),
	}
}

// NewDSNConnector builds a Connector from a parsed hdbsql(s):// URL.
func NewDSNConnector(dsn string) (*Connector, error) {
	d, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	c := NewConnector(d.Host, d.Username, d.Password)
	c.DatabaseName = d.DatabaseName
	c.Attrs.SetClientLocale(d.ClientLocale)
	if d.TLS {
		tlsConfig := &tls.Config{InsecureSkipVerify: d.InsecureSkipVerify}
		if d.TLSCertificateDir != "" {
			pool, err := loadRootsFromDir(d.TLSCertificateDir)
			if err != nil {
				return nil, err
			}
			tlsConfig.RootCAs = pool
		}
		c.Attrs.SetTLSConfig(tlsConfig)
	}
	return c, nil
}

func loadRootsFromDir(dir string) (*x509.CertPool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("driver: reading tls_certificate_dir: %w", err)
	}
	pool := x509.NewCertPool()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := os.ReadFile(dir + "/" + e.Name())
		if err != nil {
			return nil, err
		}
		pool.AppendCertsFromPEM(b)
	}
	return pool, nil
}

// Connect dials, negotiates TLS if configured, authenticates and
// completes the CONNECT handshake, returning a ready ConnectionCore. If
// the Connector names a tenant database that requires a redirect, Connect
// transparently reconnects, once, to the index server the SystemDB names.
//
// Real HANA landscapes resolve a tenant in two distinct phases (connect
// to the SystemDB, ask for DbConnectInfo, reconnect to the tenant's
// index server); this collapses both into one CONNECT round trip carrying
// the DbConnectInfo request alongside authentication, which is simpler
// but means the first hop must already be reachable as a plain HANA
// endpoint rather than strictly the SystemDB port.
func (c *Connector) Connect(ctx context.Context) (*ConnectionCore, error) {
	host := c.Host
	for redirects := 0; ; redirects++ {
		if redirects > 1 {
			return nil, &protocol.ProtocolError{Reason: "too many DbConnectInfo redirects"}
		}
		core, redirectHost, err := c.connectOnce(ctx, host)
		if err != nil {
			return nil, err
		}
		if redirectHost == "" {
			return core, nil
		}
		// connectOnce has already closed the redirected connection and
		// returns no core for it.
		host = redirectHost
	}
}

func (c *Connector) connectOnce(ctx context.Context, host string) (core *ConnectionCore, redirectHost string, err error) {
	dialer := &net.Dialer{Timeout: c.Attrs.Timeout()}
	conn, err := dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return nil, "", protocol.NewConnectionBrokenError("dial", err)
	}

	var rw = net.Conn(conn)
	if tlsConfig := c.Attrs.TLSConfig(); tlsConfig != nil {
		tc := tls.Client(conn, tlsConfig)
		if err := tc.HandshakeContext(ctx); err != nil {
			tc.Close()
			return nil, "", protocol.NewConnectionBrokenError("tls handshake", err)
		}
		rw = tc
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	framer := protocol.NewFramer(rw, c.Attrs.Compression(), logger)

	hnd, err := protocol.NewHandshake(c.Username, c.Password)
	if err != nil {
		rw.Close()
		return nil, "", err
	}

	authInit := &protocol.AuthInitReply{}
	_, err = framer.RoundTrip(
		protocol.NewRequest(protocol.MtAuthenticate, false, hnd.InitRequest()),
		protocol.DecodeHints{AuthReply: authInit},
	)
	if err != nil {
		rw.Close()
		return nil, "", err
	}

	finalReq, err := hnd.FinalRequest(authInit)
	if err != nil {
		rw.Close()
		return nil, "", err
	}

	clientID := protocol.ClientID(fmt.Sprintf("%d@%s", os.Getpid(), localHostname()))
	connOpts := protocol.NewConnectOptionsRequest(protocol.ConnectParams{
		Locale:            c.Attrs.ClientLocale(),
		DataFormatVersion: dataFormatVersion,
		DriverName:        DriverName,
		DriverVersion:     DriverVersion,
		ApplicationName:   c.ApplicationName,
	})
	clientCtx := protocol.NewClientContextRequest(protocol.ConnectParams{
		DriverName:      DriverName,
		DriverVersion:   DriverVersion,
		ApplicationName: c.ApplicationName,
	})

	authFinal := &protocol.AuthFinalReply{}
	var connectReply *protocol.Reply
	if c.DatabaseName != "" {
		dbInfoReq := protocol.NewDbConnectInfoRequest(c.DatabaseName)
		connectReply, err = framer.RoundTrip(
			protocol.NewRequest(protocol.MtConnect, false, finalReq, clientID, connOpts, clientCtx, dbInfoReq),
			protocol.DecodeHints{AuthReply: authFinal},
		)
	} else {
		connectReply, err = framer.RoundTrip(
			protocol.NewRequest(protocol.MtConnect, false, finalReq, clientID, connOpts, clientCtx),
			protocol.DecodeHints{AuthReply: authFinal},
		)
	}
	if err != nil {
		rw.Close()
		return nil, "", err
	}

	if c.DatabaseName != "" {
		if rhost, port, connected, ok := connectReply.DbConnectInfoRedirect(); ok && !connected && rhost != "" {
			rw.Close()
			return nil, fmt.Sprintf("%s:%d", rhost, port), nil
		}
	}

	framer.SetSessionID(connectReply.SessionID)
	core = newConnectionCore(framer, c.Attrs, logger, clientID)
	if sc, ok := connectReply.SessionContextToken(); ok {
		core.sessionContext = sc
	}
	core.logger.Debug("connected", slog.Int64("session_id", connectReply.SessionID))
	return core, "", nil
}

func localHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return h
}
