// Package id3 reads and writes the fixed ID3v2 tag envelope: the 10-byte
// header that declares the tag's version, flags, and size. It deliberately
// knows nothing about frames; its one job is to tell callers where the tag
// region begins and ends so the storage layer can splice it.
package id3

import (
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/tagstore/unsynch"
)

// HeaderLen is the size of the fixed ID3v2 header (and of the optional
// footer, which mirrors it).
const HeaderLen = 10

// Header flag bits, shared by ID3v2.2 through ID3v2.4.
const (
	FlagUnsynchronisation = 0x80
	FlagExtendedHeader    = 0x40
	FlagExperimental      = 0x20
	FlagFooter            = 0x10
)

// ErrNoTag is returned by ScanHeader when the input does not start with an
// ID3v2 magic sequence.
var ErrNoTag = errors.New("id3: no ID3v2 tag")

// Header is the decoded fixed header of an ID3v2 tag.
type Header struct {
	// Version is the major version: 2, 3, or 4 for ID3v2.2 through ID3v2.4.
	Version  byte
	Revision byte
	Flags    byte
	// Size is the tag size in bytes excluding the fixed header and the
	// optional footer, as stored: if the tag is unsynchronised this counts
	// the stuffed form.
	Size uint32
}

// Unsynchronised reports whether the tag-level unsynchronisation flag is set.
func (h Header) Unsynchronised() bool {
	return h.Flags&FlagUnsynchronisation != 0
}

// HasFooter reports whether the tag is followed by a 10-byte footer.
func (h Header) HasFooter() bool {
	return h.Flags&FlagFooter != 0
}

// TagLen returns the total length of the tag on disk: fixed header, payload,
// and footer if present.
func (h Header) TagLen() int64 {
	n := int64(HeaderLen) + int64(h.Size)
	if h.HasFooter() {
		n += HeaderLen
	}
	return n
}

// ScanHeader reads and validates an ID3v2 header from the start of r.
//
// Returns ErrNoTag if the first bytes are not "ID3" (including when r holds
// fewer than 10 bytes, since such a file cannot contain a tag). Any other
// structural problem, such as an unknown version or a size byte with the
// high bit set, is reported as a distinct error.
func ScanHeader(r io.Reader) (Header, error) {
	var buf [HeaderLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, ErrNoTag
		}
		return Header{}, err
	}
	if string(buf[0:3]) != "ID3" {
		return Header{}, ErrNoTag
	}
	h := Header{
		Version:  buf[3],
		Revision: buf[4],
		Flags:    buf[5],
	}
	if h.Version < 2 || h.Version > 4 {
		return Header{}, fmt.Errorf("id3: unsupported tag version 2.%d", h.Version)
	}
	for _, b := range buf[6:10] {
		if b&0x80 != 0 {
			return Header{}, fmt.Errorf("id3: size field is not synchsafe (byte 0x%02X)", b)
		}
	}
	h.Size = unsynch.Uint32(buf[6:10])
	return h, nil
}

// EncodeHeader renders h as the 10 bytes stored at the front of a tag.
// Panics if h.Size is too large for a synchsafe integer.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderLen)
	copy(buf, "ID3")
	buf[3] = h.Version
	buf[4] = h.Revision
	buf[5] = h.Flags
	unsynch.PutUint32(buf[6:10], h.Size)
	return buf
}
