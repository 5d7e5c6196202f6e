package nntp

import (
	"bufio"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sntran/nntp/internal/testutils"
)

func startDateServer(t *testing.T) *testutils.Server {
	t.Helper()
	server, err := testutils.NewServer(greeting, testutils.ScriptedHandler(map[string]string{
		"DATE": "111 20230101120000\r\n",
	}))
	require.NoError(t, err)
	t.Cleanup(server.Close)
	return server
}

func poolConfigFor(server *testutils.Server) PoolConfig {
	return PoolConfig{
		Opts: ConnectOptions{
			Hostname: server.Host(),
			Port:     server.Port(),
		},
		MaxSize: 2,
	}
}

func TestPoolPing(t *testing.T) {
	server := startDateServer(t)

	pool, err := NewPool(poolConfigFor(server))
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, pool.Ping(t.Context()))

	stats := pool.Stats()
	assert.Equal(t, uint64(1), stats.CreatedConns)
	assert.Equal(t, int32(1), stats.IdleConns)
}

func TestPoolReusesConnections(t *testing.T) {
	server := startDateServer(t)

	pool, err := NewPool(poolConfigFor(server))
	require.NoError(t, err)
	defer pool.Close()

	for range 5 {
		require.NoError(t, pool.Ping(t.Context()))
	}
	assert.Equal(t, uint64(1), pool.Stats().CreatedConns)
}

func TestPoolDestroysPoisonedConnections(t *testing.T) {
	server := startDateServer(t)

	pool, err := NewPool(poolConfigFor(server))
	require.NoError(t, err)
	defer pool.Close()

	poisoned := &ProtocolError{Message: "simulated"}
	err = pool.With(t.Context(), func(c *Client) error {
		return poisoned
	})
	require.ErrorIs(t, err, poisoned)

	stats := pool.Stats()
	assert.Equal(t, uint64(1), stats.DestroyedConns)
	assert.Equal(t, int32(0), stats.TotalConns)
}

func TestPoolKeepsConnectionOnStatusError(t *testing.T) {
	server := startDateServer(t)

	pool, err := NewPool(poolConfigFor(server))
	require.NoError(t, err)
	defer pool.Close()

	statusErr := &StatusError{Status: 430, Text: "no such article"}
	err = pool.With(t.Context(), func(c *Client) error {
		return statusErr
	})
	require.ErrorIs(t, err, statusErr)

	stats := pool.Stats()
	assert.Equal(t, uint64(0), stats.DestroyedConns)
	assert.Equal(t, int32(1), stats.IdleConns)
}

func TestPoolAuthenticatesNewConnections(t *testing.T) {
	server, err := testutils.NewServer(greeting, func(line string, rw *bufio.ReadWriter) bool {
		switch line {
		case "AUTHINFO USER alice":
			rw.WriteString("381 password required\r\n")
		case "AUTHINFO PASS secret":
			rw.WriteString("281 authentication accepted\r\n")
		case "DATE":
			rw.WriteString("111 20230101120000\r\n")
		default:
			rw.WriteString("480 authentication required\r\n")
		}
		return true
	})
	require.NoError(t, err)
	defer server.Close()

	config := poolConfigFor(server)
	config.Username = "alice"
	config.Password = "secret"

	pool, err := NewPool(config)
	require.NoError(t, err)
	defer pool.Close()

	err = pool.With(t.Context(), func(c *Client) error {
		assert.True(t, c.Authenticated())
		return nil
	})
	require.NoError(t, err)
}

func TestPoolCircuitBreaker(t *testing.T) {
	dialErr := errors.New("dial refused")
	config := PoolConfig{
		Opts:           ConnectOptions{Hostname: "unreachable.invalid"},
		MaxSize:        1,
		CircuitBreaker: NewCircuitBreaker("test", 1, time.Minute, time.Minute),
		constructor: func(ctx context.Context) (*Client, error) {
			return nil, dialErr
		},
	}

	pool, err := NewPool(config)
	require.NoError(t, err)
	defer pool.Close()

	// Fail enough exchanges to trip the breaker.
	for range 3 {
		err = pool.With(t.Context(), func(c *Client) error { return nil })
		require.ErrorIs(t, err, dialErr)
	}

	err = pool.With(t.Context(), func(c *Client) error { return nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
