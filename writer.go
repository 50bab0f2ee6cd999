package tagstore

import (
	"io"
)

// Writer rewrites the bytes of a storage region. Writes accumulate in an
// in-memory buffer with its own cursor; nothing reaches the file until Flush
// or Close. The committed buffer replaces the entire region, and the region
// is grown or shrunk to fit by relocating the file content that follows it.
//
// Close flushes and releases the Writer's claim on the Storage. Callers that
// need to observe a commit failure separately from release should call Flush
// explicitly first.
type Writer struct {
	storage *Storage
	// Data is written here before it is committed to the file.
	buf *MemFile
	// dirty is cleared by a successful flush. A fresh Writer starts dirty so
	// that an untouched Writer still commits its (empty) buffer.
	dirty bool
}

// Write appends to the pending buffer at the buffer's cursor. The file is
// not touched.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	w.dirty = true
	return n, err
}

// Seek repositions the pending buffer's cursor. Until commit, the buffer
// behaves as a standalone seekable byte store; file positions are unrelated.
func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	return w.buf.Seek(offset, whence)
}

// Flush commits the pending buffer to the file, resizing the region to the
// buffer's length.
//
// If the buffer is longer than the region, the file is extended and every
// byte after the region is moved toward the end, in chunks from the tail of
// the file toward the head so that the source and destination of a chunk
// never overlap. If the buffer is shorter, the trailing bytes are moved
// toward the start, head first, and the file is truncated. Either way the
// bytes outside the region are preserved exactly, and Region().End is
// updated to Start plus the buffer length.
//
// Flush is a no-op when nothing changed since the last flush. Errors from
// the underlying file are returned as is; a failure in the middle of a
// relocation can leave the file partially shifted, as there is no journal to
// roll back with.
func (w *Writer) Flush() error {
	if !w.dirty {
		return nil
	}
	s := w.storage
	bufLen := w.buf.Size()
	switch regionLen := s.region.Len(); {
	case bufLen > regionLen:
		if err := w.grow(bufLen - regionLen); err != nil {
			return err
		}
	case bufLen < regionLen:
		if err := w.shrink(regionLen - bufLen); err != nil {
			return err
		}
	}
	if _, err := s.f.Seek(s.region.Start, io.SeekStart); err != nil {
		return err
	}
	if _, err := s.f.Write(w.buf.Bytes()); err != nil {
		return err
	}
	w.dirty = false
	return nil
}

// grow extends the file by delta bytes and moves everything after the
// region that much toward the end. Chunks are processed in descending file
// order: the chunk nearest the end of the file is moved first, so writing a
// chunk can never clobber bytes that are still waiting to be read.
func (w *Writer) grow(delta int64) error {
	s := w.storage
	oldFileEnd, err := s.f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if err := s.f.Truncate(oldFileEnd + delta); err != nil {
		return err
	}
	chunk := make([]byte, copyBufSize)
	remaining := oldFileEnd - s.region.End
	for remaining > 0 {
		n := min(remaining, copyBufSize)
		src := s.region.End + remaining - n
		if err := w.moveChunk(src, src+delta, chunk[:n]); err != nil {
			return err
		}
		remaining -= n
	}
	s.region.End += delta
	return nil
}

// shrink moves everything after the region delta bytes toward the start and
// truncates the file. Chunks are processed in ascending file order, the
// mirror image of grow, for the same non-overlap reason.
func (w *Writer) shrink(delta int64) error {
	s := w.storage
	oldFileEnd, err := s.f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	chunk := make([]byte, copyBufSize)
	trailing := oldFileEnd - s.region.End
	for moved := int64(0); moved < trailing; {
		n := min(trailing-moved, copyBufSize)
		src := s.region.End + moved
		if err := w.moveChunk(src, src-delta, chunk[:n]); err != nil {
			return err
		}
		moved += n
	}
	if err := s.f.Truncate(oldFileEnd - delta); err != nil {
		return err
	}
	s.region.End -= delta
	return nil
}

// moveChunk copies len(p) bytes from absolute offset src to dst through p.
func (w *Writer) moveChunk(src, dst int64, p []byte) error {
	f := w.storage.f
	if _, err := f.Seek(src, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.ReadFull(f, p); err != nil {
		return err
	}
	if _, err := f.Seek(dst, io.SeekStart); err != nil {
		return err
	}
	_, err := f.Write(p)
	return err
}

// Close flushes any pending data and releases the Writer's claim on the
// Storage. The flush error, if any, is returned; the claim is released
// either way. The Writer must not be used after Close.
func (w *Writer) Close() error {
	err := w.Flush()
	w.storage.release()
	return err
}
