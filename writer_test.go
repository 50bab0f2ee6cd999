package tagstore

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// newRegionFixture builds a MemFile whose region [0, 10) holds "TTTTTTTTTT"
// and whose trailing bytes are the audio stand-in "abcdefghij".
func newRegionFixture() (*MemFile, *Storage) {
	data := append(bytes.Repeat([]byte("T"), 10), []byte("abcdefghij")...)
	f := NewMemFile(data)
	return f, NewStorage(f, Region{Start: 0, End: 10})
}

func TestWriter_CommitSameSize(t *testing.T) {
	f, s := newRegionFixture()

	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(bytes.Repeat([]byte("N"), 10)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if got, want := string(f.Bytes()), "NNNNNNNNNNabcdefghij"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if r := s.Region(); r != (Region{Start: 0, End: 10}) {
		t.Errorf("region = %+v, want [0, 10)", r)
	}
}

func TestWriter_CommitGrow(t *testing.T) {
	f, s := newRegionFixture()

	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(bytes.Repeat([]byte("G"), 15)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if got, want := string(f.Bytes()), "GGGGGGGGGGGGGGGabcdefghij"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if r := s.Region(); r != (Region{Start: 0, End: 15}) {
		t.Errorf("region = %+v, want [0, 15)", r)
	}
}

func TestWriter_CommitShrink(t *testing.T) {
	f, s := newRegionFixture()

	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("SSS")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if got, want := string(f.Bytes()), "SSSabcdefghij"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if r := s.Region(); r != (Region{Start: 0, End: 3}) {
		t.Errorf("region = %+v, want [0, 3)", r)
	}
}

func TestWriter_CommitEmptyBufferRemovesRegion(t *testing.T) {
	f, s := newRegionFixture()

	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if got, want := string(f.Bytes()), "abcdefghij"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if r := s.Region(); r.Len() != 0 {
		t.Errorf("region = %+v, want empty", r)
	}
}

func TestWriter_InsertIntoEmptyRegion(t *testing.T) {
	f := NewMemFile([]byte("abcdefghij"))
	s := NewStorage(f, Region{Start: 0, End: 0})

	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("TAG")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if got, want := string(f.Bytes()), "TAGabcdefghij"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestWriter_RegionAtEndOfFile(t *testing.T) {
	// No trailing bytes: grow and shrink must work with nothing to move.
	f := NewMemFile([]byte("prefixTTTT"))
	s := NewStorage(f, Region{Start: 6, End: 10})

	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("LONGER")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got, want := string(f.Bytes()), "prefixLONGER"; got != want {
		t.Fatalf("after grow: %q, want %q", got, want)
	}

	w, err = s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("S")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got, want := string(f.Bytes()), "prefixS"; got != want {
		t.Errorf("after shrink: %q, want %q", got, want)
	}
}

func TestWriter_MidFileRegionPreservesPrefix(t *testing.T) {
	f := NewMemFile([]byte("HEADtagtagAUDIO"))
	s := NewStorage(f, Region{Start: 4, End: 10})

	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("xx")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if got, want := string(f.Bytes()), "HEADxxAUDIO"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestWriter_RelocationLargerThanChunk(t *testing.T) {
	// Trailing content several times the 64 KiB copy buffer, so both loops
	// take the multi-chunk path, including a short final chunk.
	trailing := make([]byte, 3*copyBufSize+777)
	for i := range trailing {
		trailing[i] = byte(i * 31)
	}
	data := append([]byte("0123456789"), trailing...)
	f := NewMemFile(data)
	s := NewStorage(f, Region{Start: 0, End: 10})

	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	grown := bytes.Repeat([]byte("G"), 25)
	if _, err := w.Write(grown); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(f.Bytes()[:25], grown) {
		t.Fatal("grow: region content wrong")
	}
	if !bytes.Equal(f.Bytes()[25:], trailing) {
		t.Fatal("grow: trailing bytes corrupted")
	}

	w, err = s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("tiny")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got := string(f.Bytes()[:4]); got != "tiny" {
		t.Fatalf("shrink: region = %q", got)
	}
	if !bytes.Equal(f.Bytes()[4:], trailing) {
		t.Fatal("shrink: trailing bytes corrupted")
	}
}

func TestWriter_SeekRewritesBuffer(t *testing.T) {
	f, s := newRegionFixture()

	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("AAAAAAAAAA")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Seek(2, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("BB")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if got, want := string(f.Bytes()), "AABBAAAAAAabcdefghij"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

// countingFile wraps a MemFile and counts mutating calls, so tests can
// verify that a clean flush does no work.
type countingFile struct {
	*MemFile
	writes    int
	truncates int
}

func (c *countingFile) Write(p []byte) (int, error) {
	c.writes++
	return c.MemFile.Write(p)
}

func (c *countingFile) Truncate(size int64) error {
	c.truncates++
	return c.MemFile.Truncate(size)
}

func TestWriter_FlushIdempotent(t *testing.T) {
	f := &countingFile{MemFile: NewMemFile(append(bytes.Repeat([]byte("T"), 10), []byte("audio")...))}
	s := NewStorage(f, Region{Start: 0, End: 10})

	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(bytes.Repeat([]byte("N"), 15)); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	writes, truncates := f.writes, f.truncates
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if f.writes != writes || f.truncates != truncates {
		t.Errorf("second flush touched the file: writes %d -> %d, truncates %d -> %d",
			writes, f.writes, truncates, f.truncates)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if f.writes != writes || f.truncates != truncates {
		t.Error("close after clean flush touched the file")
	}
}

func TestWriter_OnDiskFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")
	content := append(bytes.Repeat([]byte("T"), 10), []byte("abcdefghij")...)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s := NewStorage(f, Region{Start: 0, End: 10})
	w, err := s.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(bytes.Repeat([]byte("G"), 17)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := append(bytes.Repeat([]byte("G"), 17), []byte("abcdefghij")...)
	if !bytes.Equal(got, want) {
		t.Errorf("file = %q, want %q", got, want)
	}
}
