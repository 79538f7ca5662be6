package lob

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/transform"

	"github.com/hdbdrv/gohdb/internal/protocol"
	"github.com/hdbdrv/gohdb/internal/protocol/cesu8"
)

// fakeFetcher serves READLOB round trips out of a fixed byte slice, in
// chunkSize-sized pieces, so Reader's fetch loop can be exercised without a
// real connection.
type fakeFetcher struct {
	data  []byte
	calls int
}

func (f *fakeFetcher) FetchLob(id protocol.LocatorID, offset int64, length int32) (*protocol.ReadLobReply, error) {
	f.calls++
	if offset >= int64(len(f.data)) {
		return &protocol.ReadLobReply{Data: nil, Last: true}, nil
	}
	end := offset + int64(length)
	last := false
	if end >= int64(len(f.data)) {
		end = int64(len(f.data))
		last = true
	}
	return &protocol.ReadLobReply{Data: f.data[offset:end], Last: last}, nil
}

func TestReaderStreamsInlineThenFetched(t *testing.T) {
	full := "the quick brown fox jumps over the lazy dog"
	inline := []byte(full[:10])
	// The fetcher holds the whole LOB, as the server does; Reader asks for
	// the bytes after the inline chunk by their absolute offset.
	f := &fakeFetcher{data: []byte(full)}

	r := NewReader(f, protocol.LocatorID(1), inline, false, 6, false)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != full {
		t.Fatalf("got %q, want %q", got, full)
	}
	if f.calls == 0 {
		t.Fatal("expected at least one FetchLob call beyond the inline chunk")
	}
}

func TestReaderAllInlineNeedsNoFetch(t *testing.T) {
	f := &fakeFetcher{data: nil}
	r := NewReader(f, protocol.LocatorID(1), []byte("complete"), true, 16, false)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "complete" {
		t.Fatalf("got %q", got)
	}
	if f.calls != 0 {
		t.Fatalf("expected no FetchLob calls, got %d", f.calls)
	}
}

// TestReaderDecodesCharBasedLobAcrossChunkBoundaries proves the
// character reader delivers UTF-8, not the CESU-8 bytes the wire
// carries, even when a surrogate pair for a non-BMP rune straddles the
// inline/fetched split or a fetch chunk boundary.
func TestReaderDecodesCharBasedLobAcrossChunkBoundaries(t *testing.T) {
	original := "abc\U0001F600xyz" // includes a non-BMP rune (6-byte CESU-8 surrogate pair)
	raw, _, err := transform.Bytes(cesu8.NewEncoder(), []byte(original))
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	// Split at byte 2, inside "abc", and fetch in 3-byte pieces so the
	// 6-byte surrogate pair is never delivered to Reader in one piece.
	inline := raw[:2]
	f := &fakeFetcher{data: raw}

	r := NewReader(f, protocol.LocatorID(1), inline, false, 3, true)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != original {
		t.Fatalf("got %q, want %q", got, original)
	}
}

// fakePusher collects every WRITELOB chunk it receives, keyed by locator,
// so WriteAll's interleaving can be checked without a real connection.
type fakePusher struct {
	received map[protocol.LocatorID][]byte
	pushes   int
}

func newFakePusher() *fakePusher {
	return &fakePusher{received: make(map[protocol.LocatorID][]byte)}
}

func (p *fakePusher) PushLob(chunks []*protocol.WriteLobChunk) (*protocol.WriteLobReply, error) {
	p.pushes++
	ids := make([]protocol.LocatorID, len(chunks))
	for i, c := range chunks {
		p.received[c.ID] = append(p.received[c.ID], c.Data...)
		ids[i] = c.ID
	}
	return &protocol.WriteLobReply{IDs: ids}, nil
}

func TestWriterWriteAllInterleaves(t *testing.T) {
	p := newFakePusher()
	w := NewWriter(p, 4)

	a := strings.NewReader("hello world") // 11 bytes, uneven chunk boundary
	b := strings.NewReader("x")           // shorter than one chunk

	ids := []protocol.LocatorID{1, 2}
	sources := []io.Reader{a, b}

	if err := w.WriteAll(ids, sources, nil); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if !bytes.Equal(p.received[1], []byte("hello world")) {
		t.Fatalf("locator 1 = %q", p.received[1])
	}
	if !bytes.Equal(p.received[2], []byte("x")) {
		t.Fatalf("locator 2 = %q", p.received[2])
	}
	// locator 2 finishes after the first push; locator 1 needs three.
	if p.pushes < 2 {
		t.Fatalf("expected multiple pushes to interleave, got %d", p.pushes)
	}
}

func TestWriterWriteAllMismatchedLengths(t *testing.T) {
	p := newFakePusher()
	w := NewWriter(p, 4)
	err := w.WriteAll([]protocol.LocatorID{1, 2}, []io.Reader{strings.NewReader("a")}, nil)
	if err == nil {
		t.Fatal("expected error for mismatched ids/sources length")
	}
}

// TestWriterWriteAllTranscodesCharBasedSource proves a UTF-8 bind source
// marked charBased is transcoded to CESU-8 before it reaches PushLob,
// even when the chunk size forces a mid-surrogate-pair split.
func TestWriterWriteAllTranscodesCharBasedSource(t *testing.T) {
	original := "abc\U0001F600xyz"
	wantRaw, _, err := transform.Bytes(cesu8.NewEncoder(), []byte(original))
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	p := newFakePusher()
	w := NewWriter(p, 3)

	ids := []protocol.LocatorID{1}
	sources := []io.Reader{strings.NewReader(original)}
	charBased := []bool{true}

	if err := w.WriteAll(ids, sources, charBased); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if !bytes.Equal(p.received[1], wantRaw) {
		t.Fatalf("got %x, want %x", p.received[1], wantRaw)
	}
}
