package segments_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/zsprackett/claude-limitline/internal/claudeusage"
	"github.com/zsprackett/claude-limitline/internal/segments"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticSource struct {
	snap     *claudeusage.Snapshot
	interval int
}

func (s *staticSource) Get(_ context.Context, pollIntervalMinutes int) *claudeusage.Snapshot {
	s.interval = pollIntervalMinutes
	return s.snap
}

var now = time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC) // a Wednesday

func TestBlockInfo(t *testing.T) {
	reset := now.Add(2*time.Hour + 15*time.Minute)
	src := &staticSource{snap: &claudeusage.Snapshot{FiveHour: claudeusage.NewQuota(45.5, &reset)}}
	p := segments.NewBlockProvider(src, discardLogger())
	p.SetNow(func() time.Time { return now })

	info := p.Info(context.Background(), 7)
	if src.interval != 7 {
		t.Errorf("poll interval not forwarded: got %d", src.interval)
	}
	if !info.IsRealtime || info.PercentUsed == nil || *info.PercentUsed != 45.5 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.TimeRemaining == nil || *info.TimeRemaining != 135 {
		t.Errorf("time remaining: got %v want 135", info.TimeRemaining)
	}
}

func TestBlockInfo_NoData(t *testing.T) {
	p := segments.NewBlockProvider(&staticSource{}, discardLogger())
	info := p.Info(context.Background(), 15)
	if info.PercentUsed != nil || info.IsRealtime {
		t.Errorf("expected placeholder info, got %+v", info)
	}

	p = segments.NewBlockProvider(&staticSource{snap: &claudeusage.Snapshot{}}, discardLogger())
	if info := p.Info(context.Background(), 15); info.PercentUsed != nil {
		t.Errorf("expected placeholder when five_hour absent, got %+v", info)
	}
}

func TestWeeklyInfo_FromResetAt(t *testing.T) {
	// Reset in 3.5 days means half the week has elapsed.
	reset := now.Add(84 * time.Hour)
	src := &staticSource{snap: &claudeusage.Snapshot{SevenDay: claudeusage.NewQuota(30, &reset)}}
	p := segments.NewWeeklyProvider(src, segments.WeeklyReset{Day: time.Monday}, discardLogger())
	p.SetNow(func() time.Time { return now })

	info := p.Info(context.Background(), 15)
	if info.PercentUsed == nil || *info.PercentUsed != 30 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.WeekProgressPercent != 50 {
		t.Errorf("week progress: got %d want 50", info.WeekProgressPercent)
	}
}

func TestWeeklyInfo_FallbackSchedule(t *testing.T) {
	src := &staticSource{snap: &claudeusage.Snapshot{SevenDay: claudeusage.NewQuota(30, nil)}}
	// Last reset Monday 10:00, now Wednesday 10:00: 2 of 7 days.
	p := segments.NewWeeklyProvider(src, segments.WeeklyReset{Day: time.Monday, Hour: 10}, discardLogger())
	p.SetNow(func() time.Time { return now })

	if got := p.Info(context.Background(), 15).WeekProgressPercent; got != 29 {
		t.Errorf("week progress: got %d want 29", got)
	}

	// Reset later today still counts as a week ago.
	p = segments.NewWeeklyProvider(src, segments.WeeklyReset{Day: time.Wednesday, Hour: 12}, discardLogger())
	p.SetNow(func() time.Time { return now })
	if got := p.Info(context.Background(), 15).WeekProgressPercent; got != 99 {
		t.Errorf("week progress: got %d want 99", got)
	}
}

func TestMinutesUntil(t *testing.T) {
	if got := segments.MinutesUntil(now, now.Add(-time.Hour)); got != 0 {
		t.Errorf("past reset: got %d want 0", got)
	}
	if got := segments.MinutesUntil(now, now.Add(90*time.Second)); got != 2 {
		t.Errorf("got %d want 2", got)
	}
}

func TestWeekProgressClamps(t *testing.T) {
	if got := segments.WeekProgress(now, now.Add(time.Hour)); got != 0 {
		t.Errorf("future start: got %d want 0", got)
	}
	if got := segments.WeekProgress(now, now.Add(-10*24*time.Hour)); got != 100 {
		t.Errorf("stale start: got %d want 100", got)
	}
}
