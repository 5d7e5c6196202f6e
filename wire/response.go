package wire

import (
	"bytes"
	"strconv"
	"strings"
)

// Header is a single article header line. Names are compared
// case-insensitively but preserved as read.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered multimap of article headers. Repeated names are
// allowed and order is preserved, matching server emission order.
type Headers []Header

// Add appends a header, keeping insertion order.
func (h *Headers) Add(name, value string) {
	*h = append(*h, Header{Name: name, Value: value})
}

// Get returns the value of the first header with the given name, or ""
// if the header is absent.
func (h Headers) Get(name string) string {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Value
		}
	}
	return ""
}

// Values returns all values for the given name, in order.
func (h Headers) Values(name string) []string {
	var values []string
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			values = append(values, hdr.Value)
		}
	}
	return values
}

// Response is a parsed NNTP response.
//
// Status codes are preserved verbatim, 1xx included; NNTP failure codes
// (4xx/5xx) are ordinary Responses, not Go errors.
//
// Headers is populated only for 220 (ARTICLE) and 221 (HEAD) responses.
//
// Body is non-nil when the status code announces a multi-line data block.
// It lazily borrows the connection's Reader: the next command must not be
// issued until the body is drained (or discarded), because the bytes after
// the terminator belong to the next response.
type Response struct {
	Status     int
	StatusText string
	Headers    Headers
	Body       *BodyReader
}

// HasBody reports whether the response carries a multi-line data block.
func (r *Response) HasBody() bool {
	return r.Body != nil
}

// DiscardBody drains the body, if any, without retaining it. Safe to call
// on single-line responses and on already-drained bodies.
func (r *Response) DiscardBody() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Discard()
}

// Err returns a StatusError if the status is a 4xx or 5xx failure, nil
// otherwise. Failure statuses are data; this is an adapter for callers
// that prefer an error value.
func (r *Response) Err() error {
	if r.Status >= 400 {
		return &StatusError{Status: r.Status, Text: r.StatusText}
	}
	return nil
}

// ReadResponse reads and parses the next response from r.
//
// hint is the command that produced the response, used to disambiguate
// status 211: GROUP returns 211 single-line, LISTGROUP returns 211 with a
// data block. Pass the zero Command when no hint is available (e.g. the
// connection greeting); 211 then falls back to searching the status text
// for "list" or "follow", which RFC 3977 discourages but is the best
// available signal.
//
// For 220 and 221 the article headers are parsed inline, up to the blank
// separator line. The remainder of the block (the article body, possibly
// empty) is exposed through Response.Body.
//
// ReadResponse never consumes bytes beyond the end of the current
// response.
func ReadResponse(r *Reader, hint Command) (*Response, error) {
	line, err := r.ReadLine()
	if err != nil {
		return nil, &ConnectionError{Op: "read", Err: err}
	}

	status, text, err := parseStatusLine(line)
	if err != nil {
		return nil, err
	}

	resp := &Response{Status: status, StatusText: text}

	if status == StatusArticle || status == StatusHead {
		if err := readArticleHeaders(r, &resp.Headers); err != nil {
			return nil, err
		}
	}

	if isMultiLine(status, hint, text) {
		resp.Body = newBodyReader(r)
	}

	return resp, nil
}

// parseStatusLine matches `<3 digits> [<text>]CRLF`. The first digit must
// be 1-5.
func parseStatusLine(line []byte) (int, string, error) {
	line = trimCRLF(line)

	if len(line) < 3 {
		return 0, "", &ProtocolError{Message: "short status line " + strconv.Quote(string(line))}
	}
	if line[0] < '1' || line[0] > '5' || !isDigit(line[1]) || !isDigit(line[2]) {
		return 0, "", &ProtocolError{Message: "malformed status line " + strconv.Quote(string(line))}
	}
	status := int(line[0]-'0')*100 + int(line[1]-'0')*10 + int(line[2]-'0')

	rest := line[3:]
	if len(rest) > 0 {
		if rest[0] != ' ' {
			return 0, "", &ProtocolError{Message: "malformed status line " + strconv.Quote(string(line))}
		}
		rest = rest[1:]
	}
	return status, string(rest), nil
}

// Status codes that announce a multi-line data block, per RFC 3977. 211 is
// the historical irregularity: multi-line for LISTGROUP only.
func isMultiLine(status int, hint Command, text string) bool {
	switch status {
	case StatusHelpFollows, StatusCapabilityList, StatusList,
		StatusArticle, StatusHead, StatusBody,
		StatusOverviewFollows, StatusHeadersFollow,
		StatusNewArticles, StatusNewGroups:
		return true
	case StatusGroupSelected:
		if hint != "" {
			return hint == ListGroup
		}
		lower := strings.ToLower(text)
		return strings.Contains(lower, "list") || strings.Contains(lower, "follow")
	}
	return false
}

// readArticleHeaders consumes header lines for a 220/221 response, up to
// but not including the body.
//
// The loop peeks two bytes to classify the next line without consuming it:
// CRLF is the header/body separator (consumed, body follows); a leading
// termination octet means the block ends here (headers only, the
// terminator itself is left for the body reader); anything else must be a
// header line. A line that fails header syntax ends header parsing.
func readArticleHeaders(r *Reader, headers *Headers) error {
	for {
		next, err := r.Peek(2)
		if err != nil {
			return &ProtocolError{Message: "unexpected end of article headers", Err: err}
		}
		if next[0] == '.' {
			return nil
		}
		if next[0] == '\r' && next[1] == '\n' {
			if _, err := r.ReadLine(); err != nil {
				return &ConnectionError{Op: "read", Err: err}
			}
			return nil
		}

		line, err := r.ReadLine()
		if err != nil {
			return &ConnectionError{Op: "read", Err: err}
		}
		name, value, ok := parseHeaderLine(trimCRLF(line))
		if !ok {
			return nil
		}
		headers.Add(name, value)
	}
}

// parseHeaderLine splits `Name: value`. Names may contain any printable
// US-ASCII except colon (RFC 3977 §3.6); exactly one whitespace octet
// follows the colon.
func parseHeaderLine(line []byte) (name, value string, ok bool) {
	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return "", "", false
	}
	for _, b := range line[:colon] {
		if b < 0x21 || b > 0x7e || b == ':' {
			return "", "", false
		}
	}
	rest := line[colon+1:]
	if len(rest) == 0 || (rest[0] != ' ' && rest[0] != '\t') {
		return "", "", false
	}
	return string(line[:colon]), string(rest[1:]), true
}

func trimCRLF(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
