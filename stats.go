package nntp

import "sync/atomic"

// ClientStats is a snapshot of per-session counters. All fields are
// lifetime totals for one connection.
type ClientStats struct {
	Commands     uint64 // command/response exchanges completed
	ArticlesSent uint64 // articles accepted via POST or IHAVE
	Errors       uint64 // transport and framing failures
}

// PoolStats contains statistics about a connection pool.
//
// For Prometheus integration, expose TotalConns/IdleConns/ActiveConns as
// gauges and the remaining fields as counters.
type PoolStats struct {
	AcquireCount      uint64 // total successful acquires
	AcquireWaitCount  uint64 // acquires that had to wait
	CreatedConns      uint64 // total connections created
	DestroyedConns    uint64 // total connections destroyed
	AcquireErrors     uint64 // acquires canceled by their context
	AcquireWaitTimeNs uint64 // total nanoseconds spent waiting

	TotalConns  int32 // connections in the pool (active + idle)
	IdleConns   int32 // idle connections available
	ActiveConns int32 // connections currently in use
}

// clientStatsCollector updates session counters. Clients update their own
// stats; callers read snapshots.
type clientStatsCollector struct {
	commands     atomic.Uint64
	articlesSent atomic.Uint64
	errors       atomic.Uint64
}

func newClientStatsCollector() *clientStatsCollector {
	return &clientStatsCollector{}
}

func (c *clientStatsCollector) recordCommand() {
	c.commands.Add(1)
}

func (c *clientStatsCollector) recordArticleSent() {
	c.articlesSent.Add(1)
}

func (c *clientStatsCollector) recordError() {
	c.errors.Add(1)
}

func (c *clientStatsCollector) snapshot() ClientStats {
	return ClientStats{
		Commands:     c.commands.Load(),
		ArticlesSent: c.articlesSent.Load(),
		Errors:       c.errors.Load(),
	}
}
