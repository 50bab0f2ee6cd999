package tagstore

import (
	"fmt"
	"io"
)

// MemFile is an in-memory StorageFile. It mirrors the semantics of an
// *os.File opened read-write: a single cursor shared by Read and Write,
// writes past the end extend the data (zero-filling any gap), and Truncate
// resizes in place.
//
// MemFile exists so that the region logic can be exercised without touching
// disk; tests and callers that already hold the full file in memory use it
// in place of a real file.
type MemFile struct {
	data []byte
	pos  int64
}

// NewMemFile creates a MemFile owning data. Pass nil for an empty file.
func NewMemFile(data []byte) *MemFile {
	return &MemFile{data: data}
}

// Bytes returns the current contents. The slice is owned by the MemFile and
// is invalidated by the next Write or Truncate.
func (f *MemFile) Bytes() []byte {
	return f.data
}

// Size returns the current length in bytes.
func (f *MemFile) Size() int64 {
	return int64(len(f.data))
}

// Read reads from the cursor position, returning io.EOF at end of data.
func (f *MemFile) Read(p []byte) (int, error) {
	if f.pos >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

// Write writes at the cursor position, extending the file as needed. A
// cursor beyond the end produces a zero-filled gap, matching os.File.
func (f *MemFile) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if end := f.pos + int64(len(p)); end > int64(len(f.data)) {
		grown := make([]byte, end)
		copy(grown, f.data)
		f.data = grown
	}
	n := copy(f.data[f.pos:], p)
	f.pos += int64(n)
	return n, nil
}

// Seek sets the cursor position. Seeking past the end is allowed; seeking
// before the start is an error.
func (f *MemFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.pos + offset
	case io.SeekEnd:
		abs = int64(len(f.data)) + offset
	default:
		return 0, fmt.Errorf("tagstore: invalid seek whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("tagstore: seek to negative offset %d", abs)
	}
	f.pos = abs
	return abs, nil
}

// Truncate resizes the file. Growing zero-fills; shrinking discards. The
// cursor is left unchanged, even if it now points past the end.
func (f *MemFile) Truncate(size int64) error {
	if size < 0 {
		return fmt.Errorf("tagstore: truncate to negative size %d", size)
	}
	switch {
	case size <= int64(len(f.data)):
		f.data = f.data[:size]
	default:
		grown := make([]byte, size)
		copy(grown, f.data)
		f.data = grown
	}
	return nil
}
