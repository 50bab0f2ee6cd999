package tagstore

import (
	"fmt"
	"io"
)

// Reader reads the bytes of a storage region. It implements io.ReadSeeker
// with all positions interpreted relative to the region: Seek(0, io.SeekStart)
// is the first byte of the region and reads stop with io.EOF at Region.End,
// not at the end of the file.
//
// Close the Reader to let the Storage issue another reader or writer.
type Reader struct {
	storage *Storage
}

// Read reads up to len(p) bytes, never past the end of the region.
func (r *Reader) Read(p []byte) (int, error) {
	pos, err := r.storage.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	if pos < r.storage.region.Start {
		panic("tagstore: reader position before region start")
	}
	if pos >= r.storage.region.End {
		return 0, io.EOF
	}
	if remain := r.storage.region.End - pos; int64(len(p)) > remain {
		p = p[:remain]
	}
	return r.storage.f.Read(p)
}

// Seek repositions the reader. offset is interpreted against the region:
// io.SeekStart is Region.Start, io.SeekEnd is Region.End. The returned
// position is relative to Region.Start.
//
// Seeking to before the start of the region fails with a *SeekError.
// Seeking past the end is allowed; subsequent reads return io.EOF.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	region := r.storage.region
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = region.Start + offset
	case io.SeekCurrent:
		cur, err := r.storage.f.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		abs = cur + offset
	case io.SeekEnd:
		abs = region.End + offset
	default:
		return 0, fmt.Errorf("tagstore: invalid seek whence %d", whence)
	}
	if abs < region.Start {
		return 0, &SeekError{Offset: abs, Start: region.Start}
	}
	pos, err := r.storage.f.Seek(abs, io.SeekStart)
	if err != nil {
		return 0, err
	}
	return pos - region.Start, nil
}

// Close releases the Reader's claim on the Storage. The Reader must not be
// used afterwards.
func (r *Reader) Close() error {
	r.storage.release()
	return nil
}
