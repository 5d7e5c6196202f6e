// Package wire implements the NNTP wire protocol (RFC 3977, RFC 4643):
// command-line serialization, response framing, and the dot-stuffed
// multi-line data block codec.
//
// This package serves as a foundation for higher-level NNTP clients with
// different properties (pooling, multi-server selection, CLIs). It focuses
// on correctness of framing and streaming, without imposing connection
// management on callers.
//
// # Core Types
//
//   - Command: an RFC 3977/4643 command keyword
//   - Response: a parsed server response (status, text, article headers,
//     lazy body)
//   - BodyReader: a lazily-pulled io.Reader over a multi-line data block,
//     with dot-stuffing undone and the terminator stripped
//   - DotWriter: the mirror-image io.WriteCloser used when transmitting
//     articles (POST, IHAVE)
//
// # Framing
//
// ReadResponse parses the next response from a Reader:
//
//	resp, err := wire.ReadResponse(r, wire.Article)
//	if err != nil {
//	    if wire.ShouldCloseConnection(err) {
//	        conn.Close()
//	    }
//	    return err
//	}
//	if resp.Body != nil {
//	    io.Copy(dst, resp.Body)
//	}
//
// Whether a body follows the status line is decided from the status code
// alone, except for code 211 where GROUP (single-line) and LISTGROUP
// (multi-line) collide; the originating command disambiguates. Pass the
// command that produced the response whenever it is known.
//
// A Response borrows the read side of the connection until its body is
// drained. The next command must not be written before then: the bytes
// after the terminator belong to the next response.
//
// # Error Handling
//
// NNTP 4xx/5xx statuses are data, not errors: they are returned inside
// Response for the caller to interpret. Go errors returned by this package
// indicate transport or framing failures:
//
//   - ProtocolError: malformed status line, EOF inside article headers or
//     before the terminator, or a command argument containing CR, LF or
//     NUL; close the connection (a malformed article header line is not an
//     error, it ends header parsing)
//   - ConnectionError: an underlying read or write failed
//   - CommandTooLongError: the caller-supplied command exceeds the
//     512-octet line limit; detected locally, the connection is still fine
//
// Use ShouldCloseConnection to decide whether a failed exchange poisoned
// the connection.
package wire
