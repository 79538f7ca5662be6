package protocol

import (
	"sort"

	"github.com/hdbdrv/gohdb/internal/protocol/encoding"
)

// noFieldName marks an offset field as absent (e.g. a column with no
// table name because it is a computed expression).
const noFieldName uint32 = 0xFFFFFFFF

type offsetName struct {
	offset uint32
	name   string
}

// fieldNames resolves the shared name buffer that trails a
// ResultSetMetadata or ParameterMetadata part: every field references
// its identifiers by byte offset into one length-prefixed CESU-8 blob
// so repeated names (same table, same column across many result rows'
// worth of metadata) are sent once.
type fieldNames []offsetName

func (n fieldNames) search(offset uint32) int {
	return sort.Search(len(n), func(i int) bool { return n[i].offset >= offset })
}

func (n *fieldNames) insert(offset uint32) {
	if offset == noFieldName {
		return
	}
	i := n.search(offset)
	switch {
	case i >= len(*n):
		*n = append(*n, offsetName{offset: offset})
	case (*n)[i].offset == offset:
	default:
		*n = append(*n, offsetName{})
		copy((*n)[i+1:], (*n)[i:])
		(*n)[i] = offsetName{offset: offset}
	}
}

func (n fieldNames) name(offset uint32) string {
	i := n.search(offset)
	if i < len(n) && n[i].offset == offset {
		return n[i].name
	}
	return ""
}

// decode reads the name buffer in offset order; entries must already be
// sorted by insert.
func (n fieldNames) decode(dec *encoding.Decoder) {
	pos := uint32(0)
	for i, on := range n {
		if diff := int(on.offset - pos); diff > 0 {
			dec.Skip(diff)
		}
		size := int(dec.Byte())
		b, _ := dec.CESU8Bytes(size)
		n[i].name = string(b)
		pos = on.offset + 1 + uint32(size)
	}
}
