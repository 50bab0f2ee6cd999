// Package unsynch implements the ID3v2 unsynchronisation scheme.
//
// MPEG decoders resynchronise on the byte pattern 0xFF followed by a byte
// with its three high bits set. Tag data embedded in an audio stream can
// contain that pattern by accident, so ID3v2 defines two defenses: synchsafe
// integers, which spread a 28-bit value over four bytes using only 7 bits
// per byte, and a byte-stuffing filter that inserts a zero byte after any
// 0xFF that precedes a 0x00. This package provides both: the integer
// transforms, an Encode function for buffers, and a streaming Reader that
// removes the stuffing on the way out.
package unsynch

// maxSynchsafe is the first value that cannot be represented in 28 bits.
const maxSynchsafe = 1 << 28

// EncodeUint32 returns the synchsafe form of n, redistributing its 28
// significant bits so each byte uses only its low 7 bits.
//
// Panics if n >= 1<<28; values that large cannot be made synchsafe and
// indicate a bug in the caller.
func EncodeUint32(n uint32) uint32 {
	if n >= maxSynchsafe {
		panic("unsynch: value too large for a synchsafe integer")
	}
	x := n&0x7F | n&0xFFFFFF80<<1
	x = x&0x7FFF | x&0xFFFF8000<<1
	x = x&0x7FFFFF | x&0xFF800000<<1
	return x
}

// DecodeUint32 reassembles a value from its synchsafe form, reading the low
// 7 bits of each byte. The high bit of every byte is ignored, so malformed
// input degrades rather than corrupting neighboring bits.
func DecodeUint32(n uint32) uint32 {
	return n&0xFF | n&0xFF00>>1 | n&0xFF0000>>2 | n&0xFF000000>>3
}

// PutUint32 writes n as a 4-byte big-endian synchsafe integer into b,
// which must be at least 4 bytes long. Panics if n >= 1<<28.
func PutUint32(b []byte, n uint32) {
	x := EncodeUint32(n)
	b[0] = byte(x >> 24)
	b[1] = byte(x >> 16)
	b[2] = byte(x >> 8)
	b[3] = byte(x)
}

// Uint32 reads a 4-byte big-endian synchsafe integer from b, which must be
// at least 4 bytes long.
func Uint32(b []byte) uint32 {
	x := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return DecodeUint32(x)
}

// Encode applies the unsynchronisation scheme to src, appending the result
// to dst and returning the extended slice. Wherever a 0x00 follows a 0xFF
// in src, a stuffing 0x00 is inserted between them so a decoder can tell
// the pair apart from a truncated sync marker. Input containing no 0xFF
// bytes is copied unchanged.
func Encode(dst, src []byte) []byte {
	prevFF := false
	for _, b := range src {
		if prevFF && b == 0x00 {
			dst = append(dst, 0x00)
		}
		dst = append(dst, b)
		prevFF = b == 0xFF
	}
	return dst
}
