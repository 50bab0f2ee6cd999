package tagstore

import (
	"errors"
	"testing"
)

func TestStorage_OneReaderOrWriterAtATime(t *testing.T) {
	s := NewStorage(NewMemFile([]byte("0123456789")), Region{Start: 0, End: 4})

	r, err := s.Reader()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Writer(); !errors.Is(err, ErrStorageBusy) {
		t.Errorf("writer while reader open = %v, want ErrStorageBusy", err)
	}
	if _, err := s.Reader(); !errors.Is(err, ErrStorageBusy) {
		t.Errorf("second reader = %v, want ErrStorageBusy", err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	w, err := s.Writer()
	if err != nil {
		t.Fatalf("writer after reader closed: %v", err)
	}
	if _, err := s.Reader(); !errors.Is(err, ErrStorageBusy) {
		t.Errorf("reader while writer open = %v, want ErrStorageBusy", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Reader(); err != nil {
		t.Errorf("reader after writer closed: %v", err)
	}
}

func TestNewStorage_InvalidRegion(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for region with Start > End")
		}
	}()
	NewStorage(NewMemFile(nil), Region{Start: 5, End: 2})
}

func TestRegion_Len(t *testing.T) {
	if got := (Region{Start: 3, End: 10}).Len(); got != 7 {
		t.Errorf("Len = %d, want 7", got)
	}
	if got := (Region{}).Len(); got != 0 {
		t.Errorf("empty Len = %d, want 0", got)
	}
}
