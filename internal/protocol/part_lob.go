package protocol

import (
	"fmt"

	"github.com/hdbdrv/gohdb/internal/protocol/encoding"
)

// LocatorID identifies one LOB value's server-side location for the
// life of a READLOB/WRITELOB streaming exchange.
type LocatorID uint64

// LobOptions is a bitmask describing one LOB chunk transfer.
type LobOptions int8

const (
	LoNullIndicator LobOptions = 0x01
	LoDataIncluded  LobOptions = 0x02
	LoLastData      LobOptions = 0x04
)

func (o LobOptions) IsLast() bool { return o&LoLastData != 0 }

// ReadLobRequest asks the server for the next chunk of an already
// located LOB, starting at a 1-based byte offset.
type ReadLobRequest struct {
	ID     LocatorID
	Offset int64 // 0-based; encoded 1-based on the wire
	Length int32
}

func (r *ReadLobRequest) kind() PartKind { return PkReadLobRequest }
func (r *ReadLobRequest) numArg() int    { return 1 }
func (r *ReadLobRequest) size() int      { return 24 }
func (r *ReadLobRequest) encode(enc *encoding.Encoder) error {
	enc.Uint64(uint64(r.ID))
	enc.Int64(r.Offset + 1)
	enc.Int32(r.Length)
	enc.Zeroes(4)
	return nil
}

// ReadLobReply carries one chunk of LOB content read back for a single
// locator; HANA never batches multiple locators into one reply even if
// the request asked for more.
type ReadLobReply struct {
	ID    LocatorID
	Data  []byte
	Last  bool
}

func (r *ReadLobReply) kind() PartKind { return PkReadLobReply }

func (r *ReadLobReply) decode(dec *encoding.Decoder, ph *PartHeader) error {
	if ph.NumArg() != 1 {
		return &ProtocolError{Reason: fmt.Sprintf("read lob reply: expected numArg 1, got %d", ph.NumArg())}
	}
	id := dec.Uint64()
	opt := LobOptions(dec.Int8())
	chunkLen := dec.Int32()
	dec.Skip(3)
	r.ID = LocatorID(id)
	r.Last = opt.IsLast()
	if opt&LoNullIndicator != 0 {
		return dec.Error()
	}
	r.Data = make([]byte, chunkLen)
	dec.Bytes(r.Data)
	return dec.Error()
}

// WriteLobChunk is one locator's worth of pending write data for a
// single WRITELOB round trip.
type WriteLobChunk struct {
	ID   LocatorID
	Data []byte
	Last bool
}

func (c *WriteLobChunk) size() int { return 21 + len(c.Data) }
func (c *WriteLobChunk) encode(enc *encoding.Encoder) error {
	enc.Uint64(uint64(c.ID))
	opt := LoDataIncluded
	if c.Last {
		opt |= LoLastData
	}
	enc.Int8(int8(opt))
	enc.Int64(-1) // offset -1 means append
	enc.Int32(int32(len(c.Data)))
	enc.Bytes(c.Data)
	return nil
}

// WriteLobRequest sends one or more pending chunks, one per locator
// still open in the current batch.
type WriteLobRequest struct {
	Chunks []*WriteLobChunk
}

func (r *WriteLobRequest) kind() PartKind { return PkWriteLobRequest }
func (r *WriteLobRequest) numArg() int    { return len(r.Chunks) }
func (r *WriteLobRequest) size() int {
	n := 0
	for _, c := range r.Chunks {
		n += c.size()
	}
	return n
}
func (r *WriteLobRequest) encode(enc *encoding.Encoder) error {
	for _, c := range r.Chunks {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return nil
}

// WriteLobReply lists locator IDs. In an EXECUTE reply it carries one id
// for each LOB parameter the request's Parameters part reserved, in
// parameter order; the LOB content is then appended to those locators
// through WRITELOB requests.
type WriteLobReply struct {
	IDs []LocatorID
}

func (r *WriteLobReply) kind() PartKind { return PkWriteLobReply }

func (r *WriteLobReply) decode(dec *encoding.Decoder, ph *PartHeader) error {
	n := ph.NumArg()
	r.IDs = make([]LocatorID, n)
	for i := 0; i < n; i++ {
		r.IDs[i] = LocatorID(dec.Uint64())
	}
	return dec.Error()
}
