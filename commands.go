package nntp

import (
	"context"
	"time"

	"github.com/sntran/nntp/wire"
)

// The typed command surface. Each method is a thin wrapper over Command
// that mirrors its RFC 3977 counterpart; the response is returned as-is,
// including failure statuses. Methods that fetch articles return a
// Response whose Body must be drained before the next command (see the
// package documentation; an undrained body is auto-discarded).

// Capabilities asks for the server's capability list (101 multi-line).
func (c *Client) Capabilities(ctx context.Context) (*Response, error) {
	return c.Command(ctx, wire.Capabilities)
}

// ModeReader switches a transit-oriented server to reader mode. The
// response is a fresh greeting: 200 or 201.
func (c *Client) ModeReader(ctx context.Context) (*Response, error) {
	return c.Command(ctx, wire.ModeReader)
}

// Group selects a newsgroup (211 single-line). On success the server's
// current article number is set to the group's low water mark.
func (c *Client) Group(ctx context.Context, name string) (*Response, error) {
	return c.Command(ctx, wire.Group, name)
}

// ListGroup selects a newsgroup and lists its article numbers (211
// multi-line). Both arguments are optional: an empty name means the
// current group, a zero Range means all articles.
func (c *Client) ListGroup(ctx context.Context, name string, r Range) (*Response, error) {
	if r == (Range{}) {
		return c.Command(ctx, wire.ListGroup, name)
	}
	return c.Command(ctx, wire.ListGroup, name, r)
}

// Last moves the current article pointer to the previous article (223).
func (c *Client) Last(ctx context.Context) (*Response, error) {
	return c.Command(ctx, wire.Last)
}

// Next moves the current article pointer to the next article (223).
func (c *Client) Next(ctx context.Context) (*Response, error) {
	return c.Command(ctx, wire.Next)
}

// Article retrieves headers and body (220). ref selects the article: a
// MessageID, an article number in the current group, or nothing for the
// current article. Headers are parsed into Response.Headers; the body
// streams through Response.Body.
func (c *Client) Article(ctx context.Context, ref ...any) (*Response, error) {
	return c.Command(ctx, wire.Article, ref...)
}

// Head retrieves only the headers (221).
func (c *Client) Head(ctx context.Context, ref ...any) (*Response, error) {
	return c.Command(ctx, wire.Head, ref...)
}

// Body retrieves only the body (222).
func (c *Client) Body(ctx context.Context, ref ...any) (*Response, error) {
	return c.Command(ctx, wire.Body, ref...)
}

// Stat checks article existence without transfer (223).
func (c *Client) Stat(ctx context.Context, ref ...any) (*Response, error) {
	return c.Command(ctx, wire.Stat, ref...)
}

// Date asks for the server's clock (111, yyyymmddhhmmss).
func (c *Client) Date(ctx context.Context) (*Response, error) {
	return c.Command(ctx, wire.Date)
}

// Help retrieves the server's help text (100 multi-line).
func (c *Client) Help(ctx context.Context) (*Response, error) {
	return c.Command(ctx, wire.Help)
}

// NewGroups lists newsgroups created since the given time (231
// multi-line). With gmt the timestamp is interpreted as UTC and the
// literal GMT token is appended.
func (c *Client) NewGroups(ctx context.Context, since time.Time, gmt bool) (*Response, error) {
	date, tod := splitDateTime(since, gmt)
	return c.Command(ctx, wire.NewGroups, date, tod, gmtToken(gmt))
}

// NewNews lists message-IDs of articles arrived in groups matching the
// wildmat since the given time (230 multi-line).
func (c *Client) NewNews(ctx context.Context, wildmat string, since time.Time, gmt bool) (*Response, error) {
	date, tod := splitDateTime(since, gmt)
	return c.Command(ctx, wire.NewNews, wildmat, date, tod, gmtToken(gmt))
}

// List retrieves one of the LIST reports (215 multi-line). keyword is the
// report name (ACTIVE, NEWSGROUPS, OVERVIEW.FMT, ...); both keyword and
// wildmat may be empty.
func (c *Client) List(ctx context.Context, keyword, wildmat string) (*Response, error) {
	return c.Command(ctx, wire.List, keyword, wildmat)
}

// Over retrieves overview lines (224 multi-line). ref is a Range, a
// MessageID, or nothing for the current article.
func (c *Client) Over(ctx context.Context, ref ...any) (*Response, error) {
	return c.Command(ctx, wire.Over, ref...)
}

// Hdr retrieves one header field across articles (225 multi-line). ref is
// a Range, a MessageID, or nothing for the current article.
func (c *Client) Hdr(ctx context.Context, field string, ref ...any) (*Response, error) {
	args := append([]any{field}, ref...)
	return c.Command(ctx, wire.Hdr, args...)
}

// Post submits an article. The exchange is POST → 340 → article → 240;
// any non-340 intermediate response (440 posting prohibited) is returned
// with the article unsent. The article body is dot-stuffed on the fly;
// callers supply raw bytes.
func (c *Client) Post(ctx context.Context, a *Article) (*Response, error) {
	return c.post(ctx, wire.Post, wire.StatusSendPost, a)
}

// IHave offers an article to a peer. The exchange is IHAVE → 335 →
// article → 235; a 435 (duplicate) is returned with the article unsent,
// 436/437 after transmission report retry-later and rejection.
func (c *Client) IHave(ctx context.Context, id MessageID, a *Article) (*Response, error) {
	return c.post(ctx, wire.IHave, wire.StatusSendArticle, a, id)
}

// Authinfo authenticates with AUTHINFO USER/PASS (RFC 4643).
//
// The exchange is USER → 281 (done), or USER → 381 → PASS → 281/481/482.
// On 281 the client records itself authenticated and later calls return
// the stored response without touching the wire. 481 (rejected) and 483
// (TLS required) come back as ordinary responses.
func (c *Client) Authinfo(ctx context.Context, user, pass string) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.authenticated {
		return c.authResp, nil
	}

	resp, err := c.exchange(ctx, wire.AuthinfoUser, user)
	if err != nil {
		return nil, err
	}
	if resp.Status == wire.StatusNeedPassword {
		resp, err = c.exchange(ctx, wire.AuthinfoPass, pass)
		if err != nil {
			return nil, err
		}
	}
	if resp.Status == wire.StatusAuthAccepted {
		c.authenticated = true
		c.authResp = resp
		c.log.Debug("authenticated", "user", user)
	}
	return resp, nil
}

// Quit performs the orderly shutdown: QUIT, the 205 response, close.
// The response is returned even though the connection is gone.
func (c *Client) Quit(ctx context.Context) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.exchange(ctx, wire.Quit)
	if err != nil {
		return nil, err
	}
	return resp, c.closeLocked()
}

// splitDateTime renders a time as the two NEWGROUPS/NEWNEWS arguments:
// an 8-digit date and a 6-digit time-of-day.
func splitDateTime(t time.Time, gmt bool) (date, tod string) {
	if gmt {
		t = t.UTC()
	}
	return t.Format("20060102"), t.Format("150405")
}

func gmtToken(gmt bool) string {
	if gmt {
		return "GMT"
	}
	return ""
}
