package claudeusage

import "time"

// UsageResponse is the wire shape of the usage endpoint. Every bucket is
// optional; a missing key and an explicit null both decode to nil.
type UsageResponse struct {
	FiveHour       *WindowUsage `json:"five_hour"`
	SevenDay       *WindowUsage `json:"seven_day"`
	SevenDayOpus   *WindowUsage `json:"seven_day_opus"`
	SevenDaySonnet *WindowUsage `json:"seven_day_sonnet"`
}

type WindowUsage struct {
	Utilization *float64 `json:"utilization"` // 0.0–100.0, may exceed 100
	ResetsAt    *string  `json:"resets_at"`   // ISO 8601 or null
}

// Quota is one normalized quota family.
type Quota struct {
	PercentUsed float64
	ResetAt     *time.Time
	IsOverLimit bool
}

// Snapshot is one capture of all quota families. It is never mutated after
// Fetch returns it.
type Snapshot struct {
	FiveHour       *Quota
	SevenDay       *Quota
	SevenDayOpus   *Quota
	SevenDaySonnet *Quota
	FetchedAt      time.Time
}

// NewQuota builds a Quota, deriving IsOverLimit from percentUsed.
func NewQuota(percentUsed float64, resetAt *time.Time) *Quota {
	return &Quota{
		PercentUsed: percentUsed,
		ResetAt:     resetAt,
		IsOverLimit: percentUsed >= 100,
	}
}

func (r *UsageResponse) normalize(fetchedAt func() time.Time) *Snapshot {
	snap := &Snapshot{
		FiveHour:       r.FiveHour.quota(),
		SevenDay:       r.SevenDay.quota(),
		SevenDayOpus:   r.SevenDayOpus.quota(),
		SevenDaySonnet: r.SevenDaySonnet.quota(),
	}
	snap.FetchedAt = fetchedAt()
	return snap
}

func (w *WindowUsage) quota() *Quota {
	if w == nil {
		return nil
	}
	var util float64
	if w.Utilization != nil {
		util = *w.Utilization
	}
	var resetAt *time.Time
	if w.ResetsAt != nil {
		resetAt = parseResetsAt(*w.ResetsAt)
	}
	return NewQuota(util, resetAt)
}

// parseResetsAt returns nil for empty or unparseable timestamps.
func parseResetsAt(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Try RFC3339Nano as fallback
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil
		}
	}
	return &t
}
