package protocol

import "github.com/hdbdrv/gohdb/internal/protocol/encoding"

// partWriter is implemented by every Part kind this driver core sends.
type partWriter interface {
	kind() PartKind
	numArg() int
	size() int
	encode(*encoding.Encoder) error
}

// partReader is implemented by every Part kind this driver core reads.
type partReader interface {
	kind() PartKind
	decode(dec *encoding.Decoder, ph *PartHeader) error
}
