package cesu8

import "golang.org/x/text/transform"

type utf8ToCESU8 struct{ transform.NopResetter }

// NewEncoder returns a transform.Transformer that rewrites UTF-8 to CESU-8.
func NewEncoder() transform.Transformer { return utf8ToCESU8{} }

func (utf8ToCESU8) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var buf [CESUMax]byte
	for nSrc < len(src) {
		r, sz := decodeUTF8Rune(src[nSrc:], atEOF)
		if sz == 0 {
			return nDst, nSrc, transform.ErrShortSrc
		}
		n := EncodeRune(buf[:], r)
		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], buf[:n])
		nDst += n
		nSrc += sz
	}
	return nDst, nSrc, nil
}

type cesu8ToUTF8 struct{ transform.NopResetter }

// NewDecoder returns a transform.Transformer that rewrites CESU-8 to UTF-8.
func NewDecoder() transform.Transformer { return cesu8ToUTF8{} }

func (cesu8ToUTF8) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if !atEOF && !fullRuneCESU8(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, sz := DecodeRune(src[nSrc:])
		if sz == 0 {
			return nDst, nSrc, transform.ErrShortSrc
		}
		var buf [4]byte
		n := encodeUTF8Rune(buf[:], r)
		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], buf[:n])
		nDst += n
		nSrc += sz
	}
	return nDst, nSrc, nil
}
