package nntp

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jackc/puddle/v2"
	"github.com/sony/gobreaker/v2"
)

// ErrPoolClosed is returned by operations on a closed Pool.
var ErrPoolClosed = errors.New("nntp: pool closed")

// PoolConfig configures a connection pool for one news server.
type PoolConfig struct {
	// Opts describes the server every pooled Client dials.
	Opts ConnectOptions

	// Username and Password, when set, are exchanged via AUTHINFO on every
	// new connection before it enters the pool.
	Username string
	Password string

	// MaxSize is the maximum number of pooled connections. Required: must
	// be > 0.
	MaxSize int32

	// CircuitBreaker, when non-nil, guards every pooled exchange. Servers
	// that keep failing stop being dialed until the breaker half-opens.
	// See NewCircuitBreaker for a ready-made configuration.
	CircuitBreaker *gobreaker.CircuitBreaker[bool]

	// constructor overrides dialing, for tests.
	constructor func(ctx context.Context) (*Client, error)
}

// Pool is a pool of authenticated Clients for a single server. NNTP
// sessions are stateful (current group, current article), so a caller
// holding a pooled Client must not assume any server-side state it did
// not establish itself.
type Pool struct {
	addr    string
	pool    *puddle.Pool[*Client]
	breaker *gobreaker.CircuitBreaker[bool]

	createdConns   atomic.Int64
	destroyedConns atomic.Int64
}

// NewPool creates a pool. Connections are dialed lazily on Acquire.
func NewPool(config PoolConfig) (*Pool, error) {
	p := &Pool{
		addr:    config.Opts.addr(),
		breaker: config.CircuitBreaker,
	}

	constructor := config.constructor
	if constructor == nil {
		constructor = func(ctx context.Context) (*Client, error) {
			client, err := Dial(ctx, config.Opts)
			if err != nil {
				return nil, err
			}
			if config.Username != "" {
				resp, err := client.Authinfo(ctx, config.Username, config.Password)
				if err != nil {
					client.Close()
					return nil, err
				}
				if err := resp.Err(); err != nil {
					client.Close()
					return nil, err
				}
			}
			return client, nil
		}
	}

	pool, err := puddle.NewPool(&puddle.Config[*Client]{
		Constructor: func(ctx context.Context) (*Client, error) {
			client, err := constructor(ctx)
			if err == nil {
				p.createdConns.Add(1)
			}
			return client, err
		},
		Destructor: func(c *Client) {
			p.destroyedConns.Add(1)
			_ = c.Close()
		},
		MaxSize: config.MaxSize,
	})
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p, nil
}

// Addr returns the server address this pool dials.
func (p *Pool) Addr() string {
	return p.addr
}

// With acquires a Client, runs fn, and returns the Client to the pool.
// A Client whose error poisoned the connection is destroyed instead of
// released. When a circuit breaker is configured the whole exchange
// counts as one request against it.
func (p *Pool) With(ctx context.Context, fn func(*Client) error) error {
	if p.breaker != nil {
		_, err := p.breaker.Execute(func() (bool, error) {
			return true, p.with(ctx, fn)
		})
		return err
	}
	return p.with(ctx, fn)
}

func (p *Pool) with(ctx context.Context, fn func(*Client) error) error {
	res, err := p.pool.Acquire(ctx)
	if err != nil {
		if errors.Is(err, puddle.ErrClosedPool) {
			return ErrPoolClosed
		}
		return err
	}

	client := res.Value()
	err = fn(client)
	if err != nil && ShouldCloseConnection(err) {
		// Hijack removes the resource from the pool synchronously; Destroy
		// would run the destructor in the background.
		res.Hijack()
		p.destroyedConns.Add(1)
		_ = client.Close()
		return err
	}
	res.Release()
	return err
}

// Ping checks pool health with the cheapest round-trip the protocol has,
// DATE.
func (p *Pool) Ping(ctx context.Context) error {
	return p.With(ctx, func(c *Client) error {
		resp, err := c.Date(ctx)
		if err != nil {
			return err
		}
		return resp.Err()
	})
}

// Stats returns a snapshot of pool statistics.
func (p *Pool) Stats() PoolStats {
	s := p.pool.Stat()

	return PoolStats{
		TotalConns:        s.TotalResources(),
		IdleConns:         s.IdleResources(),
		ActiveConns:       s.AcquiredResources(),
		AcquireCount:      uint64(s.AcquireCount()),
		AcquireWaitCount:  uint64(s.EmptyAcquireCount()),
		CreatedConns:      uint64(p.createdConns.Load()),
		DestroyedConns:    uint64(p.destroyedConns.Load()),
		AcquireErrors:     uint64(s.CanceledAcquireCount()),
		AcquireWaitTimeNs: uint64(s.EmptyAcquireWaitTime().Nanoseconds()),
	}
}

// Close destroys all pooled connections. Waits for acquired Clients to be
// released first.
func (p *Pool) Close() {
	p.pool.Close()
}
