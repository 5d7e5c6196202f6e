package nntp

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sntran/nntp/wire"
)

// Client is an NNTP client session. It exclusively owns one connection
// and serializes command/response exchanges over it; see the package
// documentation for the concurrency model.
type Client struct {
	opts ConnectOptions
	log  *slog.Logger

	mu     sync.Mutex
	conn   net.Conn
	r      *wire.Reader
	closed bool

	greeting      *Response
	authenticated bool
	authResp      *Response

	// body is the live BodyReader of the previous response, if the caller
	// has not drained it yet. It borrows the read side of the connection;
	// the next command drains whatever is left of it first.
	body *wire.BodyReader

	stats *clientStatsCollector
}

// Dial connects to the news server described by opts, reads the greeting
// and returns a ready Client. A 200 greeting permits posting, 201 is
// read-only; 400 and 502 greetings close the connection and surface as
// ErrServerRefused wrapped around the StatusError.
//
// The Client starts unauthenticated; a fresh connection never inherits
// authentication state.
func Dial(ctx context.Context, opts ConnectOptions) (*Client, error) {
	dialer := &net.Dialer{Timeout: opts.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", opts.addr())
	if err != nil {
		return nil, &ConnectionError{Op: "dial", Err: err}
	}

	if opts.TLS {
		hctx := ctx
		if opts.DialTimeout > 0 {
			var cancel context.CancelFunc
			hctx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
			defer cancel()
		}
		tlsConn := tls.Client(conn, opts.tlsConfig())
		if err := tlsConn.HandshakeContext(hctx); err != nil {
			conn.Close()
			return nil, &ConnectionError{Op: "dial", Err: err}
		}
		conn = tlsConn
	}

	return newClient(conn, opts)
}

// newClient wraps an established connection and reads the greeting.
// Split from Dial so tests can drive a Client over an in-memory conn.
func newClient(conn net.Conn, opts ConnectOptions) (*Client, error) {
	c := &Client{
		opts:  opts,
		log:   opts.logger(),
		conn:  conn,
		r:     wire.NewReader(conn),
		stats: newClientStatsCollector(),
	}

	greeting, err := wire.ReadResponse(c.r, "")
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.greeting = greeting
	c.log.Debug("connected", "addr", opts.addr(), "status", greeting.Status, "text", greeting.StatusText)

	switch greeting.Status {
	case wire.StatusPostingAllowed, wire.StatusPostingDenied:
		return c, nil
	default:
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrServerRefused,
			&StatusError{Status: greeting.Status, Text: greeting.StatusText})
	}
}

// Greeting returns the server's initial response.
func (c *Client) Greeting() *Response {
	return c.greeting
}

// PostingAllowed reports whether the greeting advertised posting (200).
func (c *Client) PostingAllowed() bool {
	return c.greeting.Status == wire.StatusPostingAllowed
}

// Authenticated reports whether an AUTHINFO exchange has succeeded on
// this connection.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// Stats returns a snapshot of session statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

// Close closes the connection without the QUIT exchange. Idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.closed {
		return nil
	}
	c.markClosed()
	return c.conn.Close()
}

// markClosed must be called with the lock held. It also clears the
// authenticated flag: credentials never outlive the connection.
func (c *Client) markClosed() {
	c.closed = true
	c.authenticated = false
	c.body = nil
}

// Command writes a single command line and returns the next response.
// This is the generic escape hatch under the typed command surface.
//
// Arguments are stringified: integers in decimal, MessageIDs wrapped in
// angle brackets when missing, fmt.Stringer via String. Nil arguments and
// empty strings are skipped. A command line over 512 octets fails locally
// with CommandTooLongError before anything is written.
//
// If the context carries a deadline it is applied to the socket for the
// whole exchange. On expiry mid-response the connection is misaligned and
// is closed.
func (c *Client) Command(ctx context.Context, cmd wire.Command, args ...any) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exchange(ctx, cmd, args...)
}

// exchange runs one command/response cycle. Lock must be held.
func (c *Client) exchange(ctx context.Context, cmd wire.Command, args ...any) (*Response, error) {
	if c.closed {
		return nil, ErrClientClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.finishPreviousBody(); err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
	} else {
		c.conn.SetDeadline(time.Time{})
	}

	strs, err := formatArgs(args)
	if err != nil {
		return nil, err
	}

	if err := wire.WriteCommand(c.conn, cmd, strs...); err != nil {
		if wire.ShouldCloseConnection(err) {
			c.closeLocked()
			c.stats.recordError()
		}
		return nil, err
	}
	c.log.Debug("command", "cmd", cmd, "args", redactArgs(cmd, strs))

	resp, err := c.readResponse(cmd)
	if err != nil {
		return nil, err
	}
	c.stats.recordCommand()
	return resp, nil
}

// readResponse frames the next response and tracks its body. Lock must be
// held.
func (c *Client) readResponse(hint wire.Command) (*Response, error) {
	resp, err := wire.ReadResponse(c.r, hint)
	if err != nil {
		c.closeLocked()
		c.stats.recordError()
		return nil, err
	}
	c.log.Debug("response", "status", resp.Status, "text", resp.StatusText, "multiline", resp.HasBody())
	if resp.HasBody() {
		c.body = resp.Body
	}
	return resp, nil
}

// finishPreviousBody discards whatever the caller left of the previous
// response's data block, so the next command starts on a response
// boundary. Lock must be held.
func (c *Client) finishPreviousBody() error {
	if c.body == nil {
		return nil
	}
	if !c.body.Drained() {
		c.log.Debug("discarding undrained response body")
		if err := c.body.Discard(); err != nil {
			c.closeLocked()
			c.stats.recordError()
			return err
		}
	}
	c.body = nil
	return nil
}

// sendArticle streams an encoded article straight to the socket, after an
// intermediate 340/335 response. Lock must be held.
func (c *Client) sendArticle(a *Article) error {
	if err := wire.WriteArticle(c.conn, a); err != nil {
		c.closeLocked()
		c.stats.recordError()
		return err
	}
	return nil
}

// post runs the POST/IHAVE two-step: issue the command, and transmit the
// article only on the expected intermediate status. Any other
// intermediate response is returned as-is with the article unsent.
func (c *Client) post(ctx context.Context, cmd wire.Command, intermediate int, a *Article, args ...any) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.exchange(ctx, cmd, args...)
	if err != nil {
		return nil, err
	}
	if resp.Status != intermediate {
		return resp, nil
	}

	if err := c.sendArticle(a); err != nil {
		return nil, err
	}
	final, err := c.readResponse(cmd)
	if err != nil {
		return nil, err
	}
	if final.Status == wire.StatusPosted || final.Status == wire.StatusTransferred {
		c.stats.recordArticleSent()
	}
	return final, nil
}

// formatArgs stringifies command arguments, skipping nil and empty ones.
func formatArgs(args []any) ([]string, error) {
	strs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == nil {
			continue
		}
		var s string
		switch v := arg.(type) {
		case string:
			s = v
		case MessageID:
			s = v.String()
		case int:
			s = strconv.Itoa(v)
		case int64:
			s = strconv.FormatInt(v, 10)
		case uint64:
			s = strconv.FormatUint(v, 10)
		case fmt.Stringer:
			s = v.String()
		default:
			return nil, fmt.Errorf("nntp: unsupported argument type %T", arg)
		}
		if s == "" {
			continue
		}
		strs = append(strs, s)
	}
	return strs, nil
}

// redactArgs keeps passwords out of the debug log.
func redactArgs(cmd wire.Command, args []string) []string {
	if cmd != wire.AuthinfoPass {
		return args
	}
	redacted := make([]string, len(args))
	for i := range args {
		redacted[i] = "****"
	}
	return redacted
}
