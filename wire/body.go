package wire

import (
	"bytes"
	"io"
)

var terminatorLine = []byte(".\r\n")

// BodyReader streams a multi-line data block. Each pull reads at most one
// line from the shared Reader, undoes dot-stuffing, and stops exactly at
// the `.<CRLF>` terminator; the terminator is consumed but never emitted,
// and no bytes past it are touched — they belong to the next response.
//
// Lines are emitted verbatim including their CRLF; callers wanting a
// clean payload strip one trailing CRLF themselves.
//
// BodyReader does not read ahead of demand. The same TCP connection
// carries the next response, so the owning client must not issue another
// command until Drained reports true.
type BodyReader struct {
	r       *Reader
	pending []byte // unread remainder of the current line
	drained bool
	err     error
}

func newBodyReader(r *Reader) *BodyReader {
	return &BodyReader{r: r}
}

// Read implements io.Reader. It returns io.EOF once the terminator line
// has been consumed. End of the underlying stream before the terminator
// is a ProtocolError wrapping io.ErrUnexpectedEOF.
func (b *BodyReader) Read(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	if len(b.pending) == 0 {
		if err := b.fill(); err != nil {
			b.err = err
			return 0, err
		}
	}
	n := copy(p, b.pending)
	b.pending = b.pending[n:]
	return n, nil
}

// fill reads the next line and leaves its payload in b.pending.
func (b *BodyReader) fill() error {
	line, err := b.r.ReadLine()
	if err != nil {
		if err == io.EOF {
			return &ProtocolError{Message: "data block ended before terminator", Err: io.ErrUnexpectedEOF}
		}
		return &ConnectionError{Op: "read", Err: err}
	}
	if bytes.Equal(line, terminatorLine) {
		b.drained = true
		return io.EOF
	}
	if line[0] == '.' {
		// Dot-stuffed: the first octet is the escape.
		line = line[1:]
	}
	// pending aliases the Reader's buffer; safe because no further line is
	// read until it is fully consumed.
	b.pending = line
	return nil
}

// Drained reports whether the terminator has been consumed and the
// connection's read side is free for the next response.
func (b *BodyReader) Drained() bool {
	return b.drained
}

// Discard consumes the rest of the block, through the terminator.
func (b *BodyReader) Discard() error {
	if b.drained {
		return nil
	}
	_, err := io.Copy(io.Discard, b)
	return err
}
