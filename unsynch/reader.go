package unsynch

import "io"

// readerBufSize is the size of the Reader's read-ahead buffer.
const readerBufSize = 8192

// Reader decodes an unsynchronised byte stream, removing the stuffing bytes
// Encode inserted. It wraps an underlying io.Reader and refills an internal
// buffer from it as needed; end of the underlying stream propagates as
// io.EOF once the buffer is drained.
//
// The decoder's entire state is one bit: whether the previously emitted
// byte was 0xFF. If it was and the next raw byte is 0x00, that byte is a
// stuffing byte and is consumed without being emitted.
type Reader struct {
	r     io.Reader
	buf   [readerBufSize]byte
	next  int
	avail int
	// discardNull is set after emitting a 0xFF byte.
	discardNull bool
}

// NewReader returns a Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Read fills p with decoded bytes. It may return fewer bytes than requested
// when stuffing bytes were discarded or the underlying reader ran short.
func (d *Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if d.next == d.avail {
			avail, err := d.r.Read(d.buf[:])
			if avail == 0 {
				if err == io.EOF && n > 0 {
					err = nil
				}
				return n, err
			}
			d.next = 0
			d.avail = avail
		}

		b := d.buf[d.next]
		d.next++
		if d.discardNull && b == 0x00 {
			d.discardNull = false
			continue
		}
		p[n] = b
		n++
		d.discardNull = b == 0xFF
	}
	return n, nil
}
