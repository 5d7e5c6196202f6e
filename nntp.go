// Package nntp is a client for the Network News Transfer Protocol
// (RFC 3977) with AUTHINFO authentication (RFC 4643).
//
// A Client owns one TCP connection, plain or TLS, and serializes
// command/response exchanges over it: NNTP requires strict alternation,
// so concurrent callers queue on an internal mutex and at most one
// Response is live per Client at a time. Large article bodies stream
// lazily through Response.Body; a previous body left undrained is
// discarded automatically before the next command is written.
//
// Failure statuses (4xx/5xx) are data, returned inside the Response for
// the caller to interpret. Only transport and framing problems surface as
// Go errors, and those close the connection.
//
// Pool, ServerGroup and the wire package cover pooled connections,
// multi-server selection, and the raw protocol codec.
package nntp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sntran/nntp/wire"
)

// Re-exported wire types: the wire package owns the protocol data model,
// this package owns the connection.
type (
	Article  = wire.ArticleData
	Header   = wire.Header
	Headers  = wire.Headers
	Response = wire.Response
)

// MessageID is a unique article identifier of the form <local@domain>.
// The angle brackets are supplied on the wire when missing.
type MessageID string

func (id MessageID) String() string {
	s := string(id)
	if s == "" {
		return s
	}
	if !strings.HasPrefix(s, "<") {
		s = "<" + s
	}
	if !strings.HasSuffix(s, ">") {
		s += ">"
	}
	return s
}

// Range is an article number range argument, as used by LISTGROUP, OVER
// and HDR. High == 0 means an open-ended range ("low-"); High == Low a
// single article.
type Range struct {
	Low  int64
	High int64
}

func (r Range) String() string {
	switch {
	case r.High == 0:
		return strconv.FormatInt(r.Low, 10) + "-"
	case r.High == r.Low:
		return strconv.FormatInt(r.Low, 10)
	default:
		return strconv.FormatInt(r.Low, 10) + "-" + strconv.FormatInt(r.High, 10)
	}
}

// Group describes a selected newsgroup as reported by a 211 status line:
// estimated article count, lowest and highest article numbers, and the
// group name.
type Group struct {
	Name  string
	Count int64
	Low   int64
	High  int64
}

// ParseGroup parses the status text of a 211 GROUP response.
func ParseGroup(resp *Response) (Group, error) {
	var g Group
	if resp.Status != wire.StatusGroupSelected {
		return g, fmt.Errorf("nntp: not a group status: %d %s", resp.Status, resp.StatusText)
	}
	parts := strings.Fields(resp.StatusText)
	if len(parts) < 4 {
		return g, fmt.Errorf("nntp: malformed group status %q", resp.StatusText)
	}

	var err error
	if g.Count, err = strconv.ParseInt(parts[0], 10, 64); err != nil {
		return g, fmt.Errorf("nntp: malformed article count in %q", resp.StatusText)
	}
	if g.Low, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
		return g, fmt.Errorf("nntp: malformed low water mark in %q", resp.StatusText)
	}
	if g.High, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
		return g, fmt.Errorf("nntp: malformed high water mark in %q", resp.StatusText)
	}
	g.Name = parts[3]
	return g, nil
}
