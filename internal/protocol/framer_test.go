package protocol

import (
	"net"
	"strings"
	"testing"
)

// TestFramerRoundTrip drives two Framers over an in-memory net.Pipe, one
// playing the client (RoundTrip) and one playing the server (writeRequest/
// readReply used directly, since a canned reply is just another framed
// message on the wire).
func TestFramerRoundTrip(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	clientFramer := NewFramer(clientConn, false, nil)
	serverFramer := NewFramer(serverConn, false, nil)

	serverErrc := make(chan error, 1)
	var receivedStatementID StatementID
	go func() {
		req, err := serverFramer.readReply(DecodeHints{})
		if err != nil {
			serverErrc <- err
			return
		}
		if p := req.Part(PkStatementID); p != nil {
			receivedStatementID = *(p.Value.(*StatementID))
		}
		resp := &Request{
			MessageType: MtExecuteDirect,
			Parts:       []partWriter{Command("select 1 from dummy")},
		}
		serverErrc <- serverFramer.writeRequest(resp)
	}()

	req := NewRequest(MtExecute, true, StatementID(42))
	reply, err := clientFramer.RoundTrip(req, DecodeHints{})
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if err := <-serverErrc; err != nil {
		t.Fatalf("server side: %v", err)
	}

	if receivedStatementID != 42 {
		t.Fatalf("server saw statement id %d, want 42", receivedStatementID)
	}

	p := reply.Part(PkCommand)
	if p == nil {
		t.Fatal("reply missing Command part")
	}
	cmd, ok := p.Value.(*Command)
	if !ok {
		t.Fatalf("Command part has wrong type %T", p.Value)
	}
	if string(*cmd) != "select 1 from dummy" {
		t.Fatalf("Command = %q", *cmd)
	}
}

// TestFramerSkipsUnrecognizedPart exercises the buffer-length skip path a
// mixed-version server could trigger by sending a Part kind this driver
// core does not know: it must be ignored rather than aborting the reply.
func TestFramerSkipsUnrecognizedPart(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	clientFramer := NewFramer(clientConn, false, nil)
	serverFramer := NewFramer(serverConn, false, nil)

	serverErrc := make(chan error, 1)
	go func() {
		if _, err := serverFramer.readReply(DecodeHints{}); err != nil {
			serverErrc <- err
			return
		}
		resp := &Request{
			MessageType: MtExecuteDirect,
			Parts:       []partWriter{Command("ok")},
		}
		serverErrc <- serverFramer.writeRequest(resp)
	}()

	// ClientID has no registry entry as a decode target (it is only ever
	// sent, never expected back), so the server's readReply must skip it
	// by declared buffer length rather than fail.
	req := NewRequest(MtExecuteDirect, false, ClientID("test-client"), Command("select * from t"))
	reply, err := clientFramer.RoundTrip(req, DecodeHints{})
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if err := <-serverErrc; err != nil {
		t.Fatalf("server side: %v", err)
	}
	p := reply.Part(PkCommand)
	if p == nil || string(*p.Value.(*Command)) != "ok" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

// TestFramerCompressesBodyAboveThreshold checks that a Parts region past
// compressionThreshold round-trips correctly once compression is enabled,
// and that the message header's compressed flag reflects it.
func TestFramerCompressesBodyAboveThreshold(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	clientFramer := NewFramer(clientConn, true, nil)
	serverFramer := NewFramer(serverConn, true, nil)

	big := strings.Repeat("select * from a_wide_table where col = 'x' and ", 100)

	var gotHeader messageHeader
	serverErrc := make(chan error, 1)
	go func() {
		var mh messageHeader
		mh.decode(serverFramer.hDec)
		if err := serverFramer.hDec.Error(); err != nil {
			serverErrc <- err
			return
		}
		gotHeader = mh
		serverErrc <- nil
	}()

	req := NewRequest(MtExecuteDirect, false, Command(big))
	if err := clientFramer.writeRequest(req); err != nil {
		t.Fatalf("writeRequest: %v", err)
	}
	if err := <-serverErrc; err != nil {
		t.Fatalf("server side: %v", err)
	}
	if !gotHeader.compressed {
		t.Error("a Parts region above compressionThreshold should set the compressed header flag")
	}
	if gotHeader.compressionVarPartLength >= gotHeader.varPartLength {
		t.Errorf("compressed length %d should be smaller than the uncompressed varPartLength %d for repetitive text",
			gotHeader.compressionVarPartLength, gotHeader.varPartLength)
	}
}

// TestFramerLeavesSmallBodyUncompressed confirms the threshold gate skips
// compression for a small message even when compression is enabled — the
// same path a CONNECT/AUTHENTICATE handshake takes.
func TestFramerLeavesSmallBodyUncompressed(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	clientFramer := NewFramer(clientConn, true, nil)
	serverFramer := NewFramer(serverConn, true, nil)

	var gotHeader messageHeader
	serverErrc := make(chan error, 1)
	go func() {
		var mh messageHeader
		mh.decode(serverFramer.hDec)
		err := serverFramer.hDec.Error()
		gotHeader = mh
		serverErrc <- err
	}()

	req := NewRequest(MtExecuteDirect, false, Command("select 1 from dummy"))
	if err := clientFramer.writeRequest(req); err != nil {
		t.Fatalf("writeRequest: %v", err)
	}
	if err := <-serverErrc; err != nil {
		t.Fatalf("server side: %v", err)
	}
	if gotHeader.compressed {
		t.Error("a small Parts region should not be compressed even with compression enabled")
	}
}
