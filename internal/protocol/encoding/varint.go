// Package encoding implements the little-endian primitive and typed value
// codec used by the HANA wire protocol. It is I/O-agnostic: Encoder and
// Decoder wrap an io.Writer/io.Reader and never inspect Part or message
// framing, so the same codec serves both the blocking transport and any
// future cooperative-suspension transport built on top of it.
package encoding

// Length-indicator (LENIND) discriminators for variable-length fields.
const (
	lenIndNull    = 255
	lenIndInt16   = 246
	lenIndInt32   = 247
	lenIndMaxTiny = 245
)

// LenIndSize returns the number of bytes the LENIND encoding of a value of
// the given byte length occupies, including the discriminator.
func LenIndSize(n int) int {
	switch {
	case n <= lenIndMaxTiny:
		return 1
	case n <= 1<<16-1:
		return 3
	default:
		return 5
	}
}
