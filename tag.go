package tagstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/tagstore/internal/id3"
	"github.com/simonhull/tagstore/unsynch"
)

// Tag is an open handle on the ID3v2 tag region of an audio file. It wires
// the envelope scanner to a Storage so callers can read the tag's raw
// payload and replace it with new, fully serialized frame bytes without
// disturbing the audio data that follows.
//
// Tag does not parse frames. Payloads go in and come out as opaque bytes;
// what they mean is the caller's business.
//
// Always call Close when done:
//
//	tag, err := tagstore.Open("song.mp3")
//	if err != nil {
//		return err
//	}
//	defer tag.Close()
type Tag struct {
	path    string
	closer  io.Closer // set when Open owns the underlying file
	storage *Storage
	header  id3.Header
	present bool
}

// Open opens the audio file at path read-write and locates its ID3v2 tag.
//
// A file without a tag is not an error: the Tag reports Exists() == false
// and its region is empty at the start of the file, so the first Replace
// inserts a tag there, pushing the audio data back.
func Open(path string) (*Tag, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	t, err := OpenHandle(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	t.closer = f
	return t, nil
}

// OpenHandle locates the ID3v2 tag on an already-open StorageFile. path is
// used only in error messages. The caller retains ownership of f; Close on
// the returned Tag will not close it.
func OpenHandle(f StorageFile, path string) (*Tag, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	t := &Tag{path: path}
	header, err := id3.ScanHeader(f)
	switch {
	case err == nil:
		if tagLen := header.TagLen(); tagLen > size {
			return nil, &CorruptedTagError{
				Path:   path,
				Reason: fmt.Sprintf("tag length %d exceeds file size %d", tagLen, size),
			}
		}
		t.header = header
		t.present = true
		t.storage = NewStorage(f, Region{Start: 0, End: header.TagLen()})
	case errors.Is(err, id3.ErrNoTag):
		t.storage = NewStorage(f, Region{Start: 0, End: 0})
	default:
		return nil, &CorruptedTagError{Path: path, Reason: err.Error()}
	}
	return t, nil
}

// Exists reports whether the file currently carries an ID3v2 tag.
func (t *Tag) Exists() bool {
	return t.present
}

// Region returns the tag's current byte region within the file, including
// the envelope header and any padding. Empty when no tag exists.
func (t *Tag) Region() Region {
	return t.storage.Region()
}

// Version returns the tag's major ID3v2 version (2, 3, or 4), or 0 when no
// tag exists.
func (t *Tag) Version() byte {
	if !t.present {
		return 0
	}
	return t.header.Version
}

// Unsynchronised reports whether the stored tag has the tag-level
// unsynchronisation flag set.
func (t *Tag) Unsynchronised() bool {
	return t.present && t.header.Unsynchronised()
}

// Bytes returns the tag payload: the bytes between the envelope header and
// the optional footer. When the tag is unsynchronised the payload is decoded
// through the stuffing filter first, so callers always see the plain form.
//
// Returns a *NoTagError when the file has no tag.
func (t *Tag) Bytes() ([]byte, error) {
	raw, err := t.payload()
	if err != nil {
		return nil, err
	}
	if !t.header.Unsynchronised() {
		return raw, nil
	}
	return io.ReadAll(unsynch.NewReader(bytes.NewReader(raw)))
}

// Padding returns the number of trailing zero bytes in the tag payload.
// Frames never begin with a zero byte, so the zero tail is the tag's
// padding area. Returns 0 with no error when the file has no tag.
func (t *Tag) Padding() (int64, error) {
	if !t.present {
		return 0, nil
	}
	raw, err := t.payload()
	if err != nil {
		return 0, err
	}
	n := int64(0)
	for i := len(raw) - 1; i >= 0 && raw[i] == 0x00; i-- {
		n++
	}
	return n, nil
}

// payload reads the stored (still stuffed, if unsynchronised) tag payload.
func (t *Tag) payload() ([]byte, error) {
	if !t.present {
		return nil, &NoTagError{Path: t.path}
	}
	r, err := t.storage.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if _, err := r.Seek(id3.HeaderLen, io.SeekStart); err != nil {
		return nil, err
	}
	raw := make([]byte, t.header.Size)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Replace writes a new tag whose payload is the given fully serialized
// frame bytes, growing or shrinking the region as needed and relocating the
// audio data after it. The envelope header is built by Replace; callers
// supply only the frames.
//
// Without options, Replace reuses the current region size when the new
// payload fits (the slack becomes padding and no audio data moves) and
// grows the region to an exact fit when it does not. WithPadding overrides
// that with an explicit padding size.
func (t *Tag) Replace(payload []byte, opts ...ReplaceOption) error {
	options := defaultReplaceOptions(t)
	for _, opt := range opts {
		opt(options)
	}
	if options.version != 3 && options.version != 4 {
		return fmt.Errorf("tagstore: cannot write ID3v2.%d tags", options.version)
	}

	body := payload
	flags := byte(0)
	if options.unsynch {
		body = unsynch.Encode(make([]byte, 0, len(payload)), payload)
		flags |= id3.FlagUnsynchronisation
	}

	used := int64(id3.HeaderLen) + int64(len(body))
	regionLen := used
	switch {
	case options.hasPadding:
		regionLen = used + options.padding
	case t.storage.Region().Len() > used:
		regionLen = t.storage.Region().Len()
	}
	if regionLen-id3.HeaderLen >= 1<<28 {
		return fmt.Errorf("tagstore: tag of %d bytes exceeds the ID3v2 size limit", regionLen)
	}

	header := id3.Header{
		Version: options.version,
		Flags:   flags,
		Size:    uint32(regionLen - id3.HeaderLen),
	}
	image := make([]byte, regionLen)
	copy(image, id3.EncodeHeader(header))
	copy(image[id3.HeaderLen:], body)

	w, err := t.storage.Writer()
	if err != nil {
		return err
	}
	if _, err := w.Write(image); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	t.header = header
	t.present = true
	return nil
}

// Strip removes the tag, splicing the region out of the file so the audio
// data moves to the front. A no-op when the file has no tag.
func (t *Tag) Strip() error {
	if !t.present {
		return nil
	}
	// A fresh Writer holds an empty dirty buffer; committing it shrinks the
	// region to nothing.
	w, err := t.storage.Writer()
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	t.header = id3.Header{}
	t.present = false
	return nil
}

// Close releases the underlying file if Open created it. Tags opened with
// OpenHandle leave the handle to its owner.
func (t *Tag) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// OpenMany opens the tags of multiple files concurrently, using up to
// runtime.NumCPU() goroutines. Results are in input order. If any file
// fails, the already-opened tags are closed and the first error is
// returned.
func OpenMany(ctx context.Context, paths ...string) ([]*Tag, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Tag, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			tag, err := Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = tag
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, tag := range results {
			if tag != nil {
				tag.Close()
			}
		}
		return nil, err
	}
	return results, nil
}
