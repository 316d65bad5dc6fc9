// Package trend compares two usage snapshots quota by quota.
package trend

import "github.com/zsprackett/claude-limitline/internal/claudeusage"

type Direction string

const (
	Up          Direction = "up"
	Down        Direction = "down"
	Flat        Direction = "flat"
	Unavailable Direction = "unavailable"
)

// Arrow returns the glyph shown next to a usage figure, or "" when there is
// nothing to compare.
func (d Direction) Arrow() string {
	switch d {
	case Up:
		return "↑"
	case Down:
		return "↓"
	case Flat:
		return "→"
	default:
		return ""
	}
}

type Result struct {
	FiveHour       Direction
	SevenDay       Direction
	SevenDayOpus   Direction
	SevenDaySonnet Direction
}

// Compare diffs current against previous. Either snapshot may be nil.
func Compare(previous, current *claudeusage.Snapshot) Result {
	if previous == nil || current == nil {
		return Result{
			FiveHour:       Unavailable,
			SevenDay:       Unavailable,
			SevenDayOpus:   Unavailable,
			SevenDaySonnet: Unavailable,
		}
	}
	return Result{
		FiveHour:       direction(previous.FiveHour, current.FiveHour),
		SevenDay:       direction(previous.SevenDay, current.SevenDay),
		SevenDayOpus:   direction(previous.SevenDayOpus, current.SevenDayOpus),
		SevenDaySonnet: direction(previous.SevenDaySonnet, current.SevenDaySonnet),
	}
}

func direction(prev, cur *claudeusage.Quota) Direction {
	if prev == nil || cur == nil {
		return Unavailable
	}
	switch {
	case cur.PercentUsed > prev.PercentUsed:
		return Up
	case cur.PercentUsed < prev.PercentUsed:
		return Down
	default:
		return Flat
	}
}
