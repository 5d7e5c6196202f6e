package wire

import (
	"bufio"
	"bytes"
	"io"
)

// ArticleData is the input to POST and IHAVE: ordered headers plus a body
// stream. Number is session metadata only and is never transmitted.
type ArticleData struct {
	Headers Headers
	Body    io.Reader
	Number  int64
}

// DotWriter encodes a stream into a multi-line data block: any line
// beginning with the termination octet `.` is dot-stuffed on the fly, and
// Close appends the terminator. Chunk boundaries never corrupt stuffing;
// the writer tracks whether the previous octet was LF across calls.
//
// The server-bound rules are the mirror image of BodyReader's: RFC 3977
// §3.1.1 puts stuffing on the sender, so callers hand DotWriter raw bytes.
type DotWriter struct {
	bw          *bufio.Writer
	atLineStart bool
	closed      bool
}

// NewDotWriter returns a DotWriter emitting to w. Writes are buffered;
// Close flushes.
func NewDotWriter(w io.Writer) *DotWriter {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &DotWriter{bw: bw, atLineStart: true}
}

// Write encodes p. The returned count refers to consumed input bytes, not
// octets put on the wire.
func (d *DotWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		if d.atLineStart && p[0] == '.' {
			if err := d.bw.WriteByte('.'); err != nil {
				return n - len(p), &ConnectionError{Op: "write", Err: err}
			}
		}
		var seg []byte
		if i := bytes.IndexByte(p, '\n'); i >= 0 {
			seg, p = p[:i+1], p[i+1:]
			d.atLineStart = true
		} else {
			seg, p = p, nil
			d.atLineStart = false
		}
		if _, err := d.bw.Write(seg); err != nil {
			return n - len(p) - len(seg), &ConnectionError{Op: "write", Err: err}
		}
	}
	return n, nil
}

// Close terminates the block and flushes. If the stream did not end in
// CRLF one is supplied, so the terminator always stands on its own line:
// `CRLF . CRLF` mid-line, `.` CRLF otherwise.
func (d *DotWriter) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if !d.atLineStart {
		if _, err := d.bw.WriteString(CRLF); err != nil {
			return &ConnectionError{Op: "write", Err: err}
		}
	}
	if _, err := d.bw.WriteString("." + CRLF); err != nil {
		return &ConnectionError{Op: "write", Err: err}
	}
	if err := d.bw.Flush(); err != nil {
		return &ConnectionError{Op: "write", Err: err}
	}
	return nil
}

// WriteArticle transmits an article after a 340 (POST) or 335 (IHAVE)
// intermediate response: headers in insertion order, one blank separator
// when both headers and a body are present, the dot-stuffed body, and the
// terminator.
func WriteArticle(w io.Writer, a *ArticleData) error {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}

	for _, h := range a.Headers {
		if _, err := bw.WriteString(h.Name + ": " + h.Value + CRLF); err != nil {
			return &ConnectionError{Op: "write", Err: err}
		}
	}
	if a.Body != nil && len(a.Headers) > 0 {
		if _, err := bw.WriteString(CRLF); err != nil {
			return &ConnectionError{Op: "write", Err: err}
		}
	}

	dw := NewDotWriter(bw)
	if a.Body != nil {
		if _, err := io.Copy(dw, a.Body); err != nil {
			if _, ok := err.(*ConnectionError); ok {
				return err
			}
			return &ConnectionError{Op: "write", Err: err}
		}
	}
	return dw.Close()
}
