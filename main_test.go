package main

import (
	"strings"
	"testing"
	"time"

	"github.com/zsprackett/claude-limitline/internal/claudeusage"
	"github.com/zsprackett/claude-limitline/internal/trend"
)

func TestPrintUsage(t *testing.T) {
	reset := time.Now().Add(3 * time.Hour)
	snap := &claudeusage.Snapshot{
		FiveHour:  claudeusage.NewQuota(100, &reset),
		SevenDay:  claudeusage.NewQuota(47, nil),
		FetchedAt: time.Now(),
	}
	var sb strings.Builder
	printUsage(&sb, snap, trend.Result{
		FiveHour:       trend.Up,
		SevenDay:       trend.Flat,
		SevenDayOpus:   trend.Unavailable,
		SevenDaySonnet: trend.Unavailable,
	})
	out := sb.String()

	for _, want := range []string{"five_hour", "100.0% (over limit)", "from now", "seven_day", "47.0%", "flat", "seven_day_opus"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWatchRejectsNonPositiveInterval(t *testing.T) {
	old := watchInterval
	defer func() { watchInterval = old }()

	for _, d := range []time.Duration{0, -time.Minute} {
		watchInterval = d
		if err := watchCmd.RunE(watchCmd, nil); err == nil {
			t.Errorf("interval %v: expected an error", d)
		}
	}
}
