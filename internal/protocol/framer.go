package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/hdbdrv/gohdb/internal/protocol/cesu8"
	"github.com/hdbdrv/gohdb/internal/protocol/encoding"
)

// compressionThreshold gates LZ4 compression to Parts regions large
// enough for it to be worth the CPU: below this, the framer sends the
// body as-is even when compression is negotiated (SPEC_FULL.md §4.3).
// This also keeps the CONNECT/AUTHENTICATE handshake uncompressed without
// any special-casing, since it never approaches this size.
const compressionThreshold = 2048

// Request is one outbound segment: a message type, the commit flag for
// the transaction this statement participates in, and its ordered
// Parts.
type Request struct {
	MessageType MessageType
	Commit      bool
	Parts       []partWriter
}

// NewRequest builds a Request from a message type and a variadic list
// of Parts, skipping any nil Part so callers can build the list
// conditionally (e.g. omit ClientInfo when nothing changed).
func NewRequest(mt MessageType, commit bool, parts ...partWriter) *Request {
	r := &Request{MessageType: mt, Commit: commit}
	for _, p := range parts {
		if p != nil {
			r.Parts = append(r.Parts, p)
		}
	}
	return r
}

// ReplyPart pairs one decoded Part with the header the server sent for
// it, so callers can inspect PartAttributes (last packet, resultset
// closed, row not found) alongside the decoded value.
type ReplyPart struct {
	Header PartHeader
	Value  any
}

// Reply is one inbound segment, fully decoded.
type Reply struct {
	SessionID    int64
	MessageType  MessageType
	FunctionCode FunctionCode
	Commit       bool
	Parts        []ReplyPart
}

// Part returns the first decoded Part of the given kind, or nil.
func (r *Reply) Part(pk PartKind) *ReplyPart {
	for i := range r.Parts {
		if r.Parts[i].Header.PartKind == pk {
			return &r.Parts[i]
		}
	}
	return nil
}

// Framer serializes one connection's request/reply round trips onto a
// single underlying stream. HANA multiplexes nothing at the wire level
// below the statement sequence the client itself imposes, so every
// exported method takes the connection's mutex for its entire
// round trip.
type Framer struct {
	mu sync.Mutex

	rw io.ReadWriter
	bw *bufio.Writer
	br *bufio.Reader

	// hEnc/hDec read and write the 32-byte message header directly
	// against the wire, always uncompressed, so its own size field can
	// be trusted before anything downstream is inflated.
	hEnc *encoding.Encoder
	hDec *encoding.Decoder

	// enc assembles one message's segment header and Parts into bodyBuf
	// so its size is known before deciding whether to compress it; dec
	// is rebound each reply to either the raw wire or an LZ4 reader over
	// it, depending on what the sender's header flag says.
	enc     *encoding.Encoder
	dec     *encoding.Decoder
	bodyBuf bytes.Buffer

	compress    bool
	packetCount int32
	sessionID   int64

	log *slog.Logger
}

// NewFramer wraps rw (typically a net.Conn) with the header/segment/part
// codec. compress allows LZ4 compression of a message's Parts region once
// it exceeds compressionThreshold; smaller messages, including the
// CONNECT/AUTHENTICATE handshake, always go out uncompressed.
func NewFramer(rw io.ReadWriter, compress bool, log *slog.Logger) *Framer {
	if log == nil {
		log = slog.Default()
	}
	bw := bufio.NewWriter(rw)
	br := bufio.NewReader(rw)
	f := &Framer{
		rw:       rw,
		bw:       bw,
		br:       br,
		compress: compress,
		hEnc:     encoding.NewEncoder(bw, nil),
		hDec:     encoding.NewDecoder(br, nil),
		dec:      encoding.NewDecoder(br, cesu8.NewDecoder()),
		log:      log,
	}
	f.enc = encoding.NewEncoder(&f.bodyBuf, cesu8.NewEncoder())
	return f
}

// SetSessionID records the session id the server assigned on CONNECT;
// every subsequent request's message header carries it.
func (f *Framer) SetSessionID(id int64) { f.sessionID = id }

// RoundTrip writes req and reads back the single reply segment HANA
// returns for it, decoding each Part via the registry (falling back to
// hints for Resultset/OutputParameters, and skipping any Part kind the
// registry doesn't recognize by its declared buffer length).
func (f *Framer) RoundTrip(req *Request, hints DecodeHints) (*Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.packetCount++
	if err := f.writeRequest(req); err != nil {
		return nil, &ConnectionBrokenError{Reason: "write failed", cause: err}
	}
	reply, err := f.readReply(hints)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (f *Framer) writeRequest(req *Request) error {
	numParts := len(req.Parts)
	partSizes := make([]int, numParts)
	partsSize := 0
	size := int64(segmentHeaderSize + numParts*partHeaderSize)
	for i, p := range req.Parts {
		s := p.size()
		partSizes[i] = s
		partsSize += s + padBytes(s)
		size += int64(s + padBytes(s))
	}
	if size > math.MaxUint32 {
		return fmt.Errorf("protocol: message size %d exceeds wire limit", size)
	}

	f.bodyBuf.Reset()
	sh := segmentHeader{
		segmentLength: int32(size),
		segmentOfs:    0,
		noOfParts:     int16(numParts),
		segmentNo:     1,
		segmentKind:   skRequest,
		messageType:   req.MessageType,
		commit:        req.Commit,
	}
	sh.encode(f.enc)

	bufferSize := size - segmentHeaderSize
	var ph PartHeader
	for i, p := range req.Parts {
		s := partSizes[i]
		pad := padBytes(s)
		ph.PartKind = p.kind()
		ph.setNumArg(p.numArg())
		ph.BufferLength = int32(s)
		ph.BufferSize = int32(bufferSize)
		ph.encode(f.enc)
		if err := p.encode(f.enc); err != nil {
			return err
		}
		f.enc.Zeroes(pad)
		bufferSize -= int64(partHeaderSize + s + pad)
	}

	body := f.bodyBuf.Bytes()
	wireBody := body
	compressed := f.compress && partsSize > compressionThreshold
	if compressed {
		var cbuf bytes.Buffer
		lw := lz4.NewWriter(&cbuf)
		if _, err := lw.Write(body); err != nil {
			return fmt.Errorf("protocol: compressing message body: %w", err)
		}
		if err := lw.Close(); err != nil {
			return fmt.Errorf("protocol: compressing message body: %w", err)
		}
		wireBody = cbuf.Bytes()
	}

	mh := messageHeader{
		sessionID:                f.sessionID,
		packetCount:              f.packetCount,
		varPartLength:            uint32(size),
		varPartSize:              uint32(size),
		noOfSegm:                 1,
		compressed:               compressed,
		compressionVarPartLength: uint32(len(wireBody)),
	}
	mh.encode(f.hEnc)
	f.hEnc.Bytes(wireBody)
	return f.bw.Flush()
}

func (f *Framer) readReply(hints DecodeHints) (*Reply, error) {
	var mh messageHeader
	mh.decode(f.hDec)
	if err := f.hDec.Error(); err != nil {
		return nil, &ConnectionBrokenError{Reason: "reading message header", cause: err}
	}

	reply := &Reply{SessionID: mh.sessionID}

	// The header is always plaintext; only the bytes it declares here
	// (compressed or not) make up the segment/part body that follows.
	wire := &io.LimitedReader{R: f.br, N: int64(mh.compressionVarPartLength)}
	var body io.Reader = wire
	if mh.compressed {
		body = lz4.NewReader(wire)
	}
	f.dec.Reset(body)
	// drain whatever this reply's decode left unread so the next
	// message's header starts at the right offset on the wire.
	defer func() { _, _ = io.Copy(io.Discard, wire) }()

	remaining := int64(mh.varPartLength)
	for s := int16(0); s < mh.noOfSegm; s++ {
		var sh segmentHeader
		sh.decode(f.dec)
		if err := f.dec.Error(); err != nil {
			return nil, &ConnectionBrokenError{Reason: "reading segment header", cause: err}
		}
		remaining -= segmentHeaderSize
		reply.MessageType = sh.messageType
		reply.FunctionCode = sh.functionCode
		reply.Commit = sh.commit

		for p := int16(0); p < sh.noOfParts; p++ {
			var ph PartHeader
			ph.decode(f.dec)
			if err := f.dec.Error(); err != nil {
				return nil, &ConnectionBrokenError{Reason: "reading part header", cause: err}
			}
			remaining -= partHeaderSize

			bodyLen := int(ph.BufferLength)
			pad := padBytes(bodyLen)

			part := newPartReader(ph.PartKind, hints)
			if part == nil {
				f.log.Debug("skipping unrecognized part", "kind", ph.PartKind)
				f.dec.Skip(bodyLen + pad)
				remaining -= int64(bodyLen + pad)
				continue
			}
			if err := part.decode(f.dec, &ph); err != nil {
				return nil, &ProtocolError{Reason: fmt.Sprintf("decoding part %s", ph.PartKind), cause: err}
			}
			f.dec.Skip(pad)
			remaining -= int64(bodyLen + pad)

			reply.Parts = append(reply.Parts, ReplyPart{Header: ph, Value: part})

			if ph.PartKind == PkError {
				ep := part.(*ErrorPart)
				annotateExecutionFailures(reply, &ep.ServerError)
				if !ep.ServerError.IsWarning() {
					return reply, &ep.ServerError
				}
			}
		}
	}
	return reply, nil
}

// annotateExecutionFailures correlates RowsAffected's per-row
// raExecutionFailed sentinel back to the accompanying Error part so a
// batch caller can tell which rows failed and why.
func annotateExecutionFailures(reply *Reply, se *ServerError) {
	rap := reply.Part(PkRowsAffected)
	if rap == nil {
		return
	}
	ra, ok := rap.Value.(*RowsAffected)
	if !ok {
		return
	}
	se.StatementIndex = make(map[int]int)
	j := 0
	for i, n := range *ra {
		if n == raExecutionFailed && j < len(se.Errors) {
			se.StatementIndex[i] = j
			j++
		}
	}
}
