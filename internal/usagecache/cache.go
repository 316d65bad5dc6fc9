// Package usagecache serves usage snapshots to concurrent callers within one
// process, issuing at most one fetch per poll interval.
package usagecache

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/zsprackett/claude-limitline/internal/claudeusage"
	"github.com/zsprackett/claude-limitline/internal/trend"
)

const flightKey = "usage"

// TokenSource yields a bearer token, or false when none is available.
type TokenSource interface {
	Resolve(ctx context.Context) (string, bool)
}

// Fetcher retrieves one usage snapshot.
type Fetcher interface {
	Fetch(ctx context.Context, token string) (*claudeusage.Snapshot, error)
}

// Cache holds the latest and previous snapshots. The zero value is not
// usable; construct with New.
type Cache struct {
	tokens TokenSource
	client Fetcher
	logger *slog.Logger

	mu       sync.Mutex
	current  *claudeusage.Snapshot
	previous *claudeusage.Snapshot
	gen      uint64 // bumped by Clear; stale fetches must not store
	now      func() time.Time

	flight singleflight.Group
}

func New(tokens TokenSource, client Fetcher, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{
		tokens: tokens,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// SetNow replaces the time source. Used in tests only.
func (c *Cache) SetNow(fn func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = fn
}

// Get returns the current snapshot, fetching a new one when the cached one is
// older than pollIntervalMinutes. Concurrent callers share one fetch and
// receive the same *Snapshot. A nil result means no data for this poll; any
// existing snapshot is kept.
func (c *Cache) Get(ctx context.Context, pollIntervalMinutes int) *claudeusage.Snapshot {
	ttl := ttlFor(pollIntervalMinutes)
	if snap := c.fresh(ttl); snap != nil {
		return snap
	}

	// The flight outlives the caller that started it; the HTTP client timeout
	// bounds it instead.
	flightCtx := context.WithoutCancel(ctx)
	v, _, shared := c.flight.Do(flightKey, func() (any, error) {
		return c.fetch(flightCtx, ttl), nil
	})
	snap, _ := v.(*claudeusage.Snapshot)
	if shared {
		c.logger.Debug("usage fetch coalesced", "ok", snap != nil)
	}
	return snap
}

// Trend compares the two most recent snapshots.
func (c *Cache) Trend() trend.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return trend.Compare(c.previous, c.current)
}

// Clear drops both snapshots and detaches any in-flight fetch, so the next
// Get starts cold.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.current = nil
	c.previous = nil
	c.gen++
	c.mu.Unlock()
	c.flight.Forget(flightKey)
}

func ttlFor(pollIntervalMinutes int) time.Duration {
	if pollIntervalMinutes < 1 {
		pollIntervalMinutes = 1
	}
	return time.Duration(pollIntervalMinutes) * time.Minute
}

func (c *Cache) fresh(ttl time.Duration) *claudeusage.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.now().Sub(c.current.FetchedAt) < ttl {
		return c.current
	}
	return nil
}

// fetch runs inside the flight. A caller that read a stale snapshot just
// before the previous flight stored a new one lands here too, so freshness is
// checked again before going to the network.
func (c *Cache) fetch(ctx context.Context, ttl time.Duration) *claudeusage.Snapshot {
	if snap := c.fresh(ttl); snap != nil {
		return snap
	}
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	id := uuid.NewString()
	logger := c.logger.With("fetch_id", id)

	token, ok := c.tokens.Resolve(ctx)
	if !ok {
		logger.Debug("usage fetch skipped: no credential")
		return nil
	}

	started := time.Now()
	snap, err := c.client.Fetch(ctx, token)
	if err != nil {
		logger.Debug("usage fetch failed", "err", err, "elapsed", time.Since(started))
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		logger.Debug("usage fetch discarded: cache cleared")
		return snap
	}
	c.previous = c.current
	c.current = snap
	logger.Debug("usage fetch stored", "elapsed", time.Since(started))
	return snap
}
