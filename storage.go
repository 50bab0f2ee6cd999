package tagstore

import (
	"io"
)

// copyBufSize is the size of the scratch buffer used when relocating the
// bytes that trail the region during a grow or shrink commit. One buffer is
// reused for every chunk, so memory use is bounded regardless of file size.
const copyBufSize = 64 * 1024

// StorageFile is the random-access capability Storage requires from its
// backing store: positioned reads and writes, seeking, and explicit length
// changes with os.File.Truncate semantics (shrinking discards, growing
// zero-fills).
//
// *os.File and *MemFile satisfy StorageFile. Other implementations are
// unsupported: Storage relies on the exact Seek/Truncate behavior of these
// two, and no compatibility promise is made for third-party backings.
type StorageFile interface {
	io.Reader
	io.Writer
	io.Seeker

	// Truncate changes the size of the underlying store.
	Truncate(size int64) error
}

// Region is a half-open byte interval [Start, End) within a file, marking
// the area that may be rewritten, including any padding. Start and End are
// absolute file offsets with Start <= End.
type Region struct {
	Start int64
	End   int64
}

// Len returns the length of the region in bytes.
func (r Region) Len() int64 {
	return r.End - r.Start
}

// Storage tracks a writable region within a file and prevents accidental
// overwrites of the unrelated data around it. When a committed buffer is
// longer or shorter than the region, the data following the region is moved
// right or left to make room.
//
// Storage issues at most one Reader or Writer at a time. The active one must
// be closed before another can be opened; this is the package's entire
// concurrency discipline. Storage itself is not safe for concurrent use, and
// concurrent mutation of the same file by separate processes is undefined.
type Storage struct {
	f      StorageFile
	region Region
	busy   bool
}

// NewStorage creates a Storage over the given region of f.
//
// The caller is responsible for locating the region; Storage has no opinion
// on what the bytes inside it mean. Panics if region.Start > region.End.
func NewStorage(f StorageFile, region Region) *Storage {
	if region.Start > region.End {
		panic("tagstore: region start beyond region end")
	}
	return &Storage{f: f, region: region}
}

// Region returns the current region bounds. A successful Writer commit
// updates the End bound to match the committed length.
func (s *Storage) Region() Region {
	return s.region
}

// Reader opens the region for reading, positioned at Region.Start.
//
// Returns ErrStorageBusy if a Reader or Writer is already open.
func (s *Storage) Reader() (*Reader, error) {
	if s.busy {
		return nil, ErrStorageBusy
	}
	if _, err := s.f.Seek(s.region.Start, io.SeekStart); err != nil {
		return nil, err
	}
	s.busy = true
	return &Reader{storage: s}, nil
}

// Writer opens the region for writing.
//
// Written data accumulates in memory and reaches the file only when the
// Writer is flushed or closed. Returns ErrStorageBusy if a Reader or Writer
// is already open.
func (s *Storage) Writer() (*Writer, error) {
	if s.busy {
		return nil, ErrStorageBusy
	}
	s.busy = true
	return &Writer{
		storage: s,
		buf:     NewMemFile(nil),
		dirty:   true,
	}, nil
}

// release marks the storage free again. Called by Reader.Close and
// Writer.Close.
func (s *Storage) release() {
	s.busy = false
}
