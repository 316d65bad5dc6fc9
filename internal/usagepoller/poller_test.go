package usagepoller_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/zsprackett/claude-limitline/internal/claudeusage"
	"github.com/zsprackett/claude-limitline/internal/trend"
	"github.com/zsprackett/claude-limitline/internal/usagecache"
	"github.com/zsprackett/claude-limitline/internal/usagepoller"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type tokens struct{}

func (tokens) Resolve(context.Context) (string, bool) { return "sk-ant-oat-x", true }

// clock is a fake time source shared by the cache and the fetcher.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// risingFetcher reports five-hour usage climbing by 5 points per fetch.
type risingFetcher struct {
	mu    sync.Mutex
	pct   float64
	clock *clock
}

func (f *risingFetcher) Fetch(context.Context, string) (*claudeusage.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pct += 5
	fetched := time.Now()
	if f.clock != nil {
		fetched = f.clock.Now()
	}
	return &claudeusage.Snapshot{FiveHour: claudeusage.NewQuota(f.pct, nil), FetchedAt: fetched}, nil
}

func TestPoller_FirstPollIsImmediate(t *testing.T) {
	cache := usagecache.New(tokens{}, &risingFetcher{}, discardLogger())

	updates := make(chan usagepoller.Update, 1)
	p := usagepoller.New(cache, time.Hour, 15, func(u usagepoller.Update) {
		updates <- u
	}, discardLogger())
	p.Start(context.Background())

	var first usagepoller.Update
	select {
	case first = <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("no update before the first tick")
	}
	p.Stop()

	if first.Snapshot == nil || first.Snapshot.FiveHour.PercentUsed != 5 {
		t.Fatalf("unexpected first snapshot: %+v", first.Snapshot)
	}
	if first.Trend.FiveHour != trend.Unavailable {
		t.Errorf("first poll: got %q want unavailable", first.Trend.FiveHour)
	}
}

func TestPoller_TrendAcrossPolls(t *testing.T) {
	clk := &clock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	cache := usagecache.New(tokens{}, &risingFetcher{clock: clk}, discardLogger())
	cache.SetNow(clk.Now)

	updates := make(chan usagepoller.Update)
	p := usagepoller.New(cache, 5*time.Millisecond, 1, func(u usagepoller.Update) {
		updates <- u
		// Age the snapshot past the one-minute TTL before the next poll.
		clk.Advance(2 * time.Minute)
	}, discardLogger())
	p.Start(context.Background())
	first := <-updates
	second := <-updates
	go func() {
		for range updates {
		}
	}()
	p.Stop()
	close(updates)

	if first.Trend.FiveHour != trend.Unavailable {
		t.Errorf("first poll: got %q want unavailable", first.Trend.FiveHour)
	}
	if second.Snapshot == nil || second.Snapshot.FiveHour.PercentUsed != 10 {
		t.Fatalf("second poll: expected a fresh fetch, got %+v", second.Snapshot)
	}
	if second.Trend.FiveHour != trend.Up {
		t.Errorf("second poll: got %q want up", second.Trend.FiveHour)
	}
}

func TestPoller_NonPositiveIntervalDoesNotPanic(t *testing.T) {
	cache := usagecache.New(tokens{}, &risingFetcher{}, discardLogger())
	for _, interval := range []time.Duration{0, -time.Second} {
		updates := make(chan usagepoller.Update, 1)
		p := usagepoller.New(cache, interval, 15, func(u usagepoller.Update) {
			select {
			case updates <- u:
			default:
			}
		}, discardLogger())
		p.Start(context.Background())
		select {
		case <-updates:
		case <-time.After(2 * time.Second):
			t.Fatalf("interval %v: no update", interval)
		}
		p.Stop()
	}
}

func TestPoller_StopsOnContextCancel(t *testing.T) {
	cache := usagecache.New(tokens{}, &risingFetcher{}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	p := usagepoller.New(cache, time.Hour, 15, func(usagepoller.Update) {}, discardLogger())
	p.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after context cancel")
	}
}
