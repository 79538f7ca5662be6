// Package lob streams LOB (BLOB/CLOB/NCLOB/BINTEXT/TEXT) column values
// to and from the server in bounded chunks, hiding the READLOB/WRITELOB
// request/reply protocol behind io.Reader and a batched writer.
package lob

import (
	"fmt"
	"io"

	"golang.org/x/text/transform"

	"github.com/hdbdrv/gohdb/internal/protocol"
	"github.com/hdbdrv/gohdb/internal/protocol/cesu8"
)

// DefaultChunkSize is used when a Connector does not override
// lob_read_size/lob_write_size (SPEC_FULL.md §6).
const DefaultChunkSize = 16 * 1024

// Fetcher issues one READLOB round trip. Implemented by the connection
// so this package never depends on the framer directly.
type Fetcher interface {
	FetchLob(id protocol.LocatorID, offset int64, length int32) (*protocol.ReadLobReply, error)
}

// Pusher issues one WRITELOB round trip carrying one or more pending
// chunks.
type Pusher interface {
	PushLob(chunks []*protocol.WriteLobChunk) (*protocol.WriteLobReply, error)
}

// Reader streams one LOB locator's content lazily, fetching
// ChunkSize-byte pieces on demand as Read is called. It satisfies
// io.Reader so a LOB column can be handed to any consumer that expects
// a stream instead of materializing the full value up front.
type Reader struct {
	io.Reader
}

// rawReader streams a locator's content exactly as the wire delivers it:
// raw bytes for a binary LOB, CESU-8 bytes for a character LOB.
type rawReader struct {
	fetcher   Fetcher
	id        protocol.LocatorID
	offset    int64
	chunkSize int32
	pending   []byte
	done      bool
}

// NewReader wraps locator id for streamed reads through fetcher.
// initial, if non-empty, is the first chunk the server already returned
// inline with the result-set row and is served before any further
// READLOB round trip. charBased routes the stream through a CESU-8 to
// UTF-8 transform (NCLOB/CLOB/TEXT), buffering across chunk boundaries
// so a surrogate pair split by a READLOB fetch still decodes correctly;
// a binary LOB (BLOB/BINTEXT) is served untouched.
func NewReader(fetcher Fetcher, id protocol.LocatorID, initial []byte, last bool, chunkSize int32, charBased bool) *Reader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	raw := &rawReader{fetcher: fetcher, id: id, pending: initial, done: last, chunkSize: chunkSize, offset: int64(len(initial))}
	if charBased {
		return &Reader{Reader: transform.NewReader(raw, cesu8.NewDecoder())}
	}
	return &Reader{Reader: raw}
}

func (r *rawReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		if r.done {
			return 0, io.EOF
		}
		rep, err := r.fetcher.FetchLob(r.id, r.offset, r.chunkSize)
		if err != nil {
			return 0, err
		}
		r.pending = rep.Data
		r.offset += int64(len(rep.Data))
		r.done = rep.Last
		if len(r.pending) == 0 {
			if r.done {
				return 0, io.EOF
			}
			return 0, nil
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// Writer batches io.Reader content into ChunkSize pieces and pushes
// them through one or more WRITELOB round trips, keeping open every
// locator until each source has been fully drained. Multiple locators
// are driven together because a single INSERT/prepared execute can bind
// several LOB parameters at once and the server expects one WRITELOB
// request per batch, not one per column.
type Writer struct {
	pusher    Pusher
	chunkSize int
}

// NewWriter creates a Writer that pushes chunkSize-sized pieces through
// pusher.
func NewWriter(pusher Pusher, chunkSize int) *Writer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Writer{pusher: pusher, chunkSize: chunkSize}
}

// locatorSource pairs a reserved locator with the stream it still needs
// to drain.
type locatorSource struct {
	id  protocol.LocatorID
	src io.Reader
	eof bool
}

// WriteAll drains every source to completion, interleaving WRITELOB
// round trips across all of them until each has signalled EOF.
// charBased marks which sources carry UTF-8 text that must be
// transcoded to CESU-8 before it goes out (NCLOB/CLOB/TEXT); a nil
// charBased treats every source as binary, unchanged on the wire.
func (w *Writer) WriteAll(ids []protocol.LocatorID, sources []io.Reader, charBased []bool) error {
	if len(ids) != len(sources) {
		return fmt.Errorf("lob: %d locators for %d sources", len(ids), len(sources))
	}
	if charBased != nil && len(charBased) != len(sources) {
		return fmt.Errorf("lob: %d charBased flags for %d sources", len(charBased), len(sources))
	}
	open := make([]*locatorSource, len(ids))
	for i := range ids {
		src := sources[i]
		if charBased != nil && charBased[i] {
			src = transform.NewReader(src, cesu8.NewEncoder())
		}
		open[i] = &locatorSource{id: ids[i], src: src}
	}

	for {
		var chunks []*protocol.WriteLobChunk
		var remaining []*locatorSource
		for _, ls := range open {
			if ls.eof {
				continue
			}
			buf := make([]byte, w.chunkSize)
			n, err := io.ReadFull(ls.src, buf)
			last := false
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				last = true
				ls.eof = true
			} else if err != nil {
				return err
			}
			chunks = append(chunks, &protocol.WriteLobChunk{ID: ls.id, Data: buf[:n], Last: last})
			if !ls.eof {
				remaining = append(remaining, ls)
			}
		}
		if len(chunks) == 0 {
			return nil
		}
		if _, err := w.pusher.PushLob(chunks); err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		open = remaining
	}
}
