package statusline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zsprackett/claude-limitline/internal/config"
	"github.com/zsprackett/claude-limitline/internal/segments"
	"github.com/zsprackett/claude-limitline/internal/trend"
)

// Source is satisfied by *usagecache.Cache.
type Source interface {
	segments.UsageSource
	Trend() trend.Result
}

// Gather queries the block and weekly providers concurrently. Both go through
// src, so a coalescing cache serves them from a single fetch.
func Gather(ctx context.Context, cfg config.Config, src Source, logger *slog.Logger) Data {
	poll := cfg.Budget.PollInterval
	var d Data

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Block.Enabled {
		block := segments.NewBlockProvider(src, logger)
		g.Go(func() error {
			info := block.Info(ctx, poll)
			d.Block = &info
			return nil
		})
	}
	if cfg.Weekly.Enabled {
		weekly := segments.NewWeeklyProvider(src, segments.WeeklyReset{
			Day:    time.Weekday((cfg.Budget.ResetDay%7 + 7) % 7),
			Hour:   cfg.Budget.ResetHour,
			Minute: cfg.Budget.ResetMinute,
		}, logger)
		g.Go(func() error {
			info := weekly.Info(ctx, poll)
			d.Weekly = &info
			return nil
		})
	}
	g.Wait()

	d.Trend = src.Trend()
	return d
}
