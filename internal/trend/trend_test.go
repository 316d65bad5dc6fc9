package trend_test

import (
	"testing"

	"github.com/zsprackett/claude-limitline/internal/claudeusage"
	"github.com/zsprackett/claude-limitline/internal/trend"
)

func snap(fiveHour float64) *claudeusage.Snapshot {
	return &claudeusage.Snapshot{
		FiveHour: claudeusage.NewQuota(fiveHour, nil),
		SevenDay: claudeusage.NewQuota(20, nil),
	}
}

func TestCompare_NoPrevious(t *testing.T) {
	got := trend.Compare(nil, snap(40))
	want := trend.Result{
		FiveHour:       trend.Unavailable,
		SevenDay:       trend.Unavailable,
		SevenDayOpus:   trend.Unavailable,
		SevenDaySonnet: trend.Unavailable,
	}
	if got != want {
		t.Errorf("got %+v want %+v", got, want)
	}
}

func TestCompare_FiveHourDirections(t *testing.T) {
	cases := []struct {
		from, to float64
		want     trend.Direction
	}{
		{40, 55, trend.Up},
		{55, 55, trend.Flat},
		{55, 40, trend.Down},
	}
	for _, tc := range cases {
		got := trend.Compare(snap(tc.from), snap(tc.to))
		if got.FiveHour != tc.want {
			t.Errorf("%v -> %v: got %q want %q", tc.from, tc.to, got.FiveHour, tc.want)
		}
		if got.SevenDay != trend.Flat {
			t.Errorf("seven_day: got %q want flat", got.SevenDay)
		}
	}
}

func TestCompare_MissingQuotaIsUnavailable(t *testing.T) {
	prev := &claudeusage.Snapshot{SevenDayOpus: claudeusage.NewQuota(10, nil)}
	cur := &claudeusage.Snapshot{
		SevenDayOpus:   claudeusage.NewQuota(12, nil),
		SevenDaySonnet: claudeusage.NewQuota(3, nil),
	}
	got := trend.Compare(prev, cur)
	if got.SevenDayOpus != trend.Up {
		t.Errorf("opus: got %q want up", got.SevenDayOpus)
	}
	if got.SevenDaySonnet != trend.Unavailable {
		t.Errorf("sonnet only in current: got %q want unavailable", got.SevenDaySonnet)
	}
	if got.FiveHour != trend.Unavailable {
		t.Errorf("five_hour absent in both: got %q want unavailable", got.FiveHour)
	}
}

func TestDirectionArrow(t *testing.T) {
	if trend.Unavailable.Arrow() != "" {
		t.Error("unavailable should have no arrow")
	}
	if trend.Up.Arrow() == trend.Down.Arrow() {
		t.Error("up and down arrows must differ")
	}
}
