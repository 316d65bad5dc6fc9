// Package segments turns usage snapshots into the values the block and
// weekly statusline segments display.
package segments

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/zsprackett/claude-limitline/internal/claudeusage"
)

const week = 7 * 24 * time.Hour

// UsageSource is satisfied by *usagecache.Cache.
type UsageSource interface {
	Get(ctx context.Context, pollIntervalMinutes int) *claudeusage.Snapshot
}

// BlockInfo describes the five-hour window. PercentUsed is nil when no data
// is available.
type BlockInfo struct {
	PercentUsed   *float64
	ResetAt       *time.Time
	TimeRemaining *int // minutes
	IsRealtime    bool
}

type BlockProvider struct {
	source UsageSource
	logger *slog.Logger
	now    func() time.Time
}

func NewBlockProvider(source UsageSource, logger *slog.Logger) *BlockProvider {
	return &BlockProvider{source: source, logger: logger, now: time.Now}
}

// SetNow replaces the time source. Used in tests only.
func (p *BlockProvider) SetNow(fn func() time.Time) { p.now = fn }

func (p *BlockProvider) Info(ctx context.Context, pollInterval int) BlockInfo {
	snap := p.source.Get(ctx, pollInterval)
	if snap == nil || snap.FiveHour == nil {
		p.logger.Debug("no realtime block usage data available")
		return BlockInfo{}
	}
	q := snap.FiveHour
	pct := q.PercentUsed
	info := BlockInfo{PercentUsed: &pct, ResetAt: q.ResetAt, IsRealtime: true}
	if q.ResetAt != nil {
		mins := MinutesUntil(p.now(), *q.ResetAt)
		info.TimeRemaining = &mins
	}
	p.logger.Debug("block segment", "percent", pct, "remaining_min", info.TimeRemaining)
	return info
}

// WeeklyInfo describes the seven-day window.
type WeeklyInfo struct {
	PercentUsed         *float64
	ResetAt             *time.Time
	WeekProgressPercent int
	IsRealtime          bool
}

// WeeklyReset is the fallback weekly reset schedule used when the endpoint
// does not report one.
type WeeklyReset struct {
	Day    time.Weekday
	Hour   int
	Minute int
}

type WeeklyProvider struct {
	source UsageSource
	reset  WeeklyReset
	logger *slog.Logger
	now    func() time.Time
}

func NewWeeklyProvider(source UsageSource, reset WeeklyReset, logger *slog.Logger) *WeeklyProvider {
	return &WeeklyProvider{source: source, reset: reset, logger: logger, now: time.Now}
}

// SetNow replaces the time source. Used in tests only.
func (p *WeeklyProvider) SetNow(fn func() time.Time) { p.now = fn }

func (p *WeeklyProvider) Info(ctx context.Context, pollInterval int) WeeklyInfo {
	now := p.now()
	snap := p.source.Get(ctx, pollInterval)
	if snap == nil || snap.SevenDay == nil {
		p.logger.Debug("no realtime weekly usage data available")
		return WeeklyInfo{WeekProgressPercent: WeekProgress(now, p.lastReset(now))}
	}
	q := snap.SevenDay
	pct := q.PercentUsed
	start := p.lastReset(now)
	if q.ResetAt != nil {
		start = q.ResetAt.Add(-week)
	}
	return WeeklyInfo{
		PercentUsed:         &pct,
		ResetAt:             q.ResetAt,
		WeekProgressPercent: WeekProgress(now, start),
		IsRealtime:          true,
	}
}

// lastReset returns the most recent scheduled reset at or before now, in
// now's location.
func (p *WeeklyProvider) lastReset(now time.Time) time.Time {
	r := time.Date(now.Year(), now.Month(), now.Day(), p.reset.Hour, p.reset.Minute, 0, 0, now.Location())
	back := (int(now.Weekday()) - int(p.reset.Day) + 7) % 7
	r = r.AddDate(0, 0, -back)
	if r.After(now) {
		r = r.AddDate(0, 0, -7)
	}
	return r
}

// MinutesUntil returns whole minutes from now to t, never negative.
func MinutesUntil(now, t time.Time) int {
	m := int(math.Round(t.Sub(now).Minutes()))
	if m < 0 {
		return 0
	}
	return m
}

// WeekProgress returns how far now is into the week starting at start, as a
// percentage clamped to [0, 100].
func WeekProgress(now, start time.Time) int {
	pct := int(math.Round(float64(now.Sub(start)) / float64(week) * 100))
	return max(0, min(100, pct))
}
