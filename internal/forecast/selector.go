package forecast

import (
	"fmt"
	"time"

	"github.com/pkordes/ski-weather/internal/domain"
)

// Policy names the rule used to pick tonight's hour from a series.
type Policy string

const (
	// PolicyNextTarget scans forward for the first TargetHour sample after now,
	// falling back to index 0.
	PolicyNextTarget Policy = "next-target"
	// PolicyCurrentHour picks the sample for the current local hour,
	// falling back to FallbackIndex.
	PolicyCurrentHour Policy = "current-hour"
	// PolicyFixedIndex always picks FallbackIndex.
	PolicyFixedIndex Policy = "fixed-index"
)

const (
	// TargetHour is the local hour that stands in for overnight conditions:
	// late enough to reflect snowfall that matters for the next morning.
	TargetHour = 22

	// FallbackIndex is TargetHour expressed as an index into a series that
	// starts at local midnight of the current day.
	FallbackIndex = TargetHour

	// MinFixedSeriesLen is the shortest series FallbackIndex is valid for.
	MinFixedSeriesLen = FallbackIndex + 1

	// NightStartHour and NightEndHour bound the night window, inclusive,
	// wrapping around midnight.
	NightStartHour = 18
	NightEndHour   = 6
)

// Selector picks the representative hour of a series according to one Policy.
type Selector struct {
	policy Policy
}

// NewSelector returns a Selector for policy.
// Returns domain.ErrValidation for an unknown policy.
func NewSelector(policy Policy) (Selector, error) {
	switch policy {
	case PolicyNextTarget, PolicyCurrentHour, PolicyFixedIndex:
		return Selector{policy: policy}, nil
	default:
		return Selector{}, fmt.Errorf("%w: unknown hour policy %q", domain.ErrValidation, string(policy))
	}
}

// Policy returns the configured policy.
func (s Selector) Policy() Policy {
	return s.policy
}

// Select returns the index into times that represents tonight.
// Returns domain.ErrDataShape when times is empty, or when the fixed index is
// needed and the series is too short or does not start at local midnight.
func (s Selector) Select(times []time.Time, now time.Time) (int, error) {
	if len(times) == 0 {
		return 0, fmt.Errorf("%w: empty hourly series", domain.ErrDataShape)
	}

	switch s.policy {
	case PolicyNextTarget:
		return nextTarget(times, now), nil
	case PolicyCurrentHour:
		if i, ok := currentHour(times, now); ok {
			return i, nil
		}
		return fixedIndex(times)
	case PolicyFixedIndex:
		return fixedIndex(times)
	default:
		return 0, fmt.Errorf("%w: unknown hour policy %q", domain.ErrValidation, string(s.policy))
	}
}

func nextTarget(times []time.Time, now time.Time) int {
	for i, t := range times {
		if t.Hour() == TargetHour && t.After(now) {
			return i
		}
	}
	return 0
}

// currentHour matches now truncated to the hour in the series' own time zone.
// time.Truncate works on absolute time and would misalign half-hour zones.
func currentHour(times []time.Time, now time.Time) (int, bool) {
	local := now.In(times[0].Location())
	hour := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, local.Location())
	for i, t := range times {
		if t.Equal(hour) {
			return i, true
		}
	}
	return 0, false
}

func fixedIndex(times []time.Time) (int, error) {
	if len(times) < MinFixedSeriesLen {
		return 0, fmt.Errorf("%w: series has %d hours, fixed index needs at least %d",
			domain.ErrDataShape, len(times), MinFixedSeriesLen)
	}
	if first := times[0]; first.Hour() != 0 || first.Minute() != 0 {
		return 0, fmt.Errorf("%w: series starts at %s, fixed index needs local midnight",
			domain.ErrDataShape, first.Format("15:04"))
	}
	return FallbackIndex, nil
}

// IsNight reports whether t falls in the night window
// [NightStartHour, 24) ∪ [0, NightEndHour] in t's own time zone.
func IsNight(t time.Time) bool {
	h := t.Hour()
	return h >= NightStartHour || h <= NightEndHour
}
