package nntp

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sntran/nntp/internal"
	"github.com/zeebo/xxh3"
)

// ErrNoServers is returned when a ServerGroup has no servers configured.
var ErrNoServers = errors.New("nntp: no servers available")

// ServerSelector picks which server handles a message-ID. It receives the
// message-ID (without angle brackets is fine; selection only needs
// determinism) and the current server count, and returns an index.
type ServerSelector func(msgID string, serverCount int) int

// DefaultServerSelector uses Jump Hash over an xxh3 digest of the
// message-ID: stable assignment with minimal movement when servers are
// added or removed.
func DefaultServerSelector(msgID string, serverCount int) int {
	return internal.JumpHash(xxh3.HashString(msgID), serverCount)
}

// staticSelector is used in tests to always select a specific server.
func staticSelector(index int) ServerSelector {
	return func(msgID string, serverCount int) int {
		return index % serverCount
	}
}

// ServerGroup fans one logical news service out over several backend
// servers, each behind its own Pool. Pools are created lazily, on the
// first message routed to a server.
type ServerGroup struct {
	configs  []PoolConfig
	selector ServerSelector

	mu    sync.RWMutex
	pools map[int]*Pool
}

// NewServerGroup creates a group over the given server configs. A nil
// selector means DefaultServerSelector.
func NewServerGroup(configs []PoolConfig, selector ServerSelector) (*ServerGroup, error) {
	if len(configs) == 0 {
		return nil, ErrNoServers
	}
	if selector == nil {
		selector = DefaultServerSelector
	}
	return &ServerGroup{
		configs:  configs,
		selector: selector,
		pools:    make(map[int]*Pool),
	}, nil
}

// PoolFor returns the pool of the server selected for the message-ID.
func (g *ServerGroup) PoolFor(id MessageID) (*Pool, error) {
	index := g.selector(string(id), len(g.configs))
	return g.getOrCreatePool(index)
}

func (g *ServerGroup) getOrCreatePool(index int) (*Pool, error) {
	// Fast path: read lock
	g.mu.RLock()
	pool, exists := g.pools[index]
	g.mu.RUnlock()
	if exists {
		return pool, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Double-check after acquiring write lock
	if pool, exists := g.pools[index]; exists {
		return pool, nil
	}

	pool, err := NewPool(g.configs[index])
	if err != nil {
		return nil, err
	}
	g.pools[index] = pool
	return pool, nil
}

// FetchBody retrieves an article body by message-ID from the server the
// selector assigns it to. A non-222 response surfaces as a StatusError
// (430 for unknown articles).
func (g *ServerGroup) FetchBody(ctx context.Context, id MessageID) ([]byte, error) {
	pool, err := g.PoolFor(id)
	if err != nil {
		return nil, err
	}

	var body []byte
	err = pool.With(ctx, func(c *Client) error {
		resp, err := c.Body(ctx, id)
		if err != nil {
			return err
		}
		if err := resp.Err(); err != nil {
			return err
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	return body, err
}

// Close closes every pool created so far.
func (g *ServerGroup) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, pool := range g.pools {
		pool.Close()
	}
	g.pools = make(map[int]*Pool)
}
