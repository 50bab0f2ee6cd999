package tagstore

import (
	"errors"
	"fmt"
)

// ErrStorageBusy is returned when opening a Reader or Writer while another
// one is still open on the same Storage. Close the active one first.
var ErrStorageBusy = errors.New("tagstore: storage already has an open reader or writer")

// SeekError is returned when a seek resolves to a position before the start
// of the region. The region's preceding bytes are off limits, so this always
// indicates a caller bug rather than an environmental failure.
type SeekError struct {
	// Offset is the absolute file offset the seek resolved to.
	Offset int64
	// Start is the absolute offset of the region start.
	Start int64
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("tagstore: seek to offset %d, before region start %d", e.Offset, e.Start)
}

// NoTagError is returned when a file contains no ID3v2 tag and the requested
// operation needs one.
type NoTagError struct {
	Path string
}

func (e *NoTagError) Error() string {
	if e.Path == "" {
		return "no ID3v2 tag"
	}
	return fmt.Sprintf("%s: no ID3v2 tag", e.Path)
}

// CorruptedTagError is returned when the tag envelope is structurally
// invalid, for example a size field with a high bit set or a tag that claims
// to extend past the end of the file.
type CorruptedTagError struct {
	Path   string
	Reason string
}

func (e *CorruptedTagError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("corrupted ID3v2 tag: %s", e.Reason)
	}
	return fmt.Sprintf("%s: corrupted ID3v2 tag: %s", e.Path, e.Reason)
}
