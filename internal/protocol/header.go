package protocol

import "github.com/hdbdrv/gohdb/internal/protocol/encoding"

// Wire framing sizes, fixed by the protocol (see SPEC_FULL.md §3).
const (
	messageHeaderSize = 32
	segmentHeaderSize = 24
	partHeaderSize    = 16
	padding           = 8
)

func padBytes(size int) int {
	if r := size % padding; r != 0 {
		return padding - r
	}
	return 0
}

// segmentKind distinguishes a request segment from a reply segment.
type segmentKind int8

const (
	skRequest segmentKind = 1
	skReply   segmentKind = 2
	skError   segmentKind = 5
)

// messageHeader is the fixed 32-byte header at the start of every request
// and reply. It is always read and written uncompressed, ahead of the
// segment/part body it describes: compressed carries whether that body
// was LZ4-compressed on the wire, and compressionVarPartLength gives the
// exact byte count following the header, compressed or not (varPartLength
// stays the body's uncompressed size in both cases, since receivers size
// their decode buffers off it).
type messageHeader struct {
	sessionID                int64
	packetCount              int32
	varPartLength            uint32
	varPartSize              uint32
	noOfSegm                 int16
	compressed               bool
	compressionVarPartLength uint32
}

func (h *messageHeader) encode(enc *encoding.Encoder) {
	enc.Int64(h.sessionID)
	enc.Int32(h.packetCount)
	enc.Uint32(h.varPartLength)
	enc.Uint32(h.varPartSize)
	enc.Int16(h.noOfSegm)
	enc.Bool(h.compressed)
	enc.Byte(0) // reserved
	enc.Uint32(h.compressionVarPartLength)
	enc.Zeroes(4)
}

func (h *messageHeader) decode(dec *encoding.Decoder) {
	h.sessionID = dec.Int64()
	h.packetCount = dec.Int32()
	h.varPartLength = dec.Uint32()
	h.varPartSize = dec.Uint32()
	h.noOfSegm = dec.Int16()
	h.compressed = dec.Bool()
	dec.Byte() // reserved
	h.compressionVarPartLength = dec.Uint32()
	dec.Skip(4)
}

// segmentHeader is the fixed 24-byte header following the message header.
type segmentHeader struct {
	segmentLength int32
	segmentOfs    int32
	noOfParts     int16
	segmentNo     int16
	segmentKind   segmentKind
	messageType   MessageType
	commit        bool
	functionCode  FunctionCode
}

func (h *segmentHeader) encode(enc *encoding.Encoder) {
	enc.Int32(h.segmentLength)
	enc.Int32(h.segmentOfs)
	enc.Int16(h.noOfParts)
	enc.Int16(h.segmentNo)
	enc.Int8(int8(h.segmentKind))
	if h.segmentKind == skRequest {
		enc.Int8(int8(h.messageType))
		enc.Bool(h.commit)
		enc.Byte(0) // reserved
		enc.Zeroes(8) // function code (unused for a request) + reserved
	} else {
		enc.Int8(int8(h.messageType))
		enc.Bool(h.commit)
		enc.Byte(0)
		enc.Int16(int16(h.functionCode))
		enc.Zeroes(6)
	}
}

func (h *segmentHeader) decode(dec *encoding.Decoder) {
	h.segmentLength = dec.Int32()
	h.segmentOfs = dec.Int32()
	h.noOfParts = dec.Int16()
	h.segmentNo = dec.Int16()
	h.segmentKind = segmentKind(dec.Int8())
	h.messageType = MessageType(dec.Int8())
	h.commit = dec.Bool()
	dec.Byte() // reserved
	h.functionCode = FunctionCode(dec.Int16())
	dec.Skip(6)
}

// PartHeader is the fixed 16-byte header preceding every Part body.
type PartHeader struct {
	PartKind         PartKind
	PartAttributes   PartAttributes
	ArgumentCount    int16
	BigArgumentCount int32
	BufferLength     int32
	BufferSize       int32
}

func (h *PartHeader) setNumArg(n int) {
	h.ArgumentCount = int16(n)
	h.BigArgumentCount = 0
}

// NumArg returns the argument count for this Part.
func (h *PartHeader) NumArg() int { return int(h.ArgumentCount) }

func (h *PartHeader) encode(enc *encoding.Encoder) {
	enc.Int8(int8(h.PartKind))
	enc.Int8(int8(h.PartAttributes))
	enc.Int16(h.ArgumentCount)
	enc.Int32(h.BigArgumentCount)
	enc.Int32(h.BufferLength)
	enc.Int32(h.BufferSize)
}

func (h *PartHeader) decode(dec *encoding.Decoder) {
	h.PartKind = PartKind(dec.Int8())
	h.PartAttributes = PartAttributes(dec.Int8())
	h.ArgumentCount = dec.Int16()
	h.BigArgumentCount = dec.Int32()
	h.BufferLength = dec.Int32()
	h.BufferSize = dec.Int32()
}
