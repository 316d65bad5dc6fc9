// Package usagepoller keeps one cache alive across many polls so successive
// snapshots can be compared.
package usagepoller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zsprackett/claude-limitline/internal/claudeusage"
	"github.com/zsprackett/claude-limitline/internal/trend"
)

// Cache is satisfied by *usagecache.Cache.
type Cache interface {
	Get(ctx context.Context, pollIntervalMinutes int) *claudeusage.Snapshot
	Trend() trend.Result
}

// Update is delivered after every poll. Snapshot is nil when the poll
// produced no data.
type Update struct {
	Snapshot *claudeusage.Snapshot
	Trend    trend.Result
}

// DefaultInterval replaces a non-positive tick interval.
const DefaultInterval = time.Minute

type Poller struct {
	cache        Cache
	interval     time.Duration
	pollInterval int
	onUpdate     func(Update)
	stop         chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
	logger       *slog.Logger
}

// New returns a Poller that ticks every interval and asks cache for data no
// older than pollIntervalMinutes. interval <= 0 means DefaultInterval.
func New(cache Cache, interval time.Duration, pollIntervalMinutes int, onUpdate func(Update), logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		cache:        cache,
		interval:     interval,
		pollInterval: pollIntervalMinutes,
		onUpdate:     onUpdate,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		logger:       logger,
	}
}

func (p *Poller) Start(ctx context.Context) {
	go func() {
		defer close(p.done)
		p.poll(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.poll(ctx)
			case <-p.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-progress poll to finish.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

func (p *Poller) poll(ctx context.Context) {
	snap := p.cache.Get(ctx, p.pollInterval)
	if snap == nil {
		p.logger.Debug("usage poll returned no data")
	}
	p.onUpdate(Update{Snapshot: snap, Trend: p.cache.Trend()})
}
