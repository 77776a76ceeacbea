package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/ski-weather/internal/domain"
	"github.com/pkordes/ski-weather/internal/forecast"
)

var denver = time.FixedZone("MST", -7*3600)

// hours returns n hourly timestamps starting at start.
func hours(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return out
}

func midnight(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, denver)
}

func mustSelector(t *testing.T, p forecast.Policy) forecast.Selector {
	t.Helper()
	s, err := forecast.NewSelector(p)
	require.NoError(t, err)
	return s
}

func TestNewSelector_UnknownPolicy(t *testing.T) {
	_, err := forecast.NewSelector("sometime")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSelect_EmptySeries(t *testing.T) {
	for _, p := range []forecast.Policy{forecast.PolicyNextTarget, forecast.PolicyCurrentHour, forecast.PolicyFixedIndex} {
		_, err := mustSelector(t, p).Select(nil, midnight(10))
		assert.ErrorIs(t, err, domain.ErrDataShape, "policy %s", p)
	}
}

// ---- next-target -----------------------------------------------------------

func TestSelect_NextTarget_TonightWhenBefore22(t *testing.T) {
	s := mustSelector(t, forecast.PolicyNextTarget)
	times := hours(midnight(10), 48)

	got, err := s.Select(times, midnight(10).Add(15*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 22, got)
}

func TestSelect_NextTarget_TomorrowWhenPast22(t *testing.T) {
	s := mustSelector(t, forecast.PolicyNextTarget)
	times := hours(midnight(10), 48)

	got, err := s.Select(times, midnight(10).Add(23*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 46, got)
}

// TestSelect_NextTarget_StrictlyAfterNow verifies that a 22:00 sample equal to
// now is skipped in favour of the next one.
func TestSelect_NextTarget_StrictlyAfterNow(t *testing.T) {
	s := mustSelector(t, forecast.PolicyNextTarget)
	times := hours(midnight(10), 48)

	got, err := s.Select(times, times[22])

	require.NoError(t, err)
	assert.Equal(t, 46, got)
}

func TestSelect_NextTarget_NoFuture22FallsBackToZero(t *testing.T) {
	s := mustSelector(t, forecast.PolicyNextTarget)
	times := hours(midnight(10), 24)

	got, err := s.Select(times, midnight(10).Add(23*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

// TestSelect_NextTarget_UsesSeriesLocalHour verifies the hour is read in the
// series' zone, not the zone of now.
func TestSelect_NextTarget_UsesSeriesLocalHour(t *testing.T) {
	s := mustSelector(t, forecast.PolicyNextTarget)
	times := hours(midnight(10), 48)
	now := midnight(10).Add(10 * time.Hour).UTC()

	got, err := s.Select(times, now)

	require.NoError(t, err)
	assert.Equal(t, 22, got)
	assert.Equal(t, 22, times[got].Hour())
}

// ---- fixed-index -----------------------------------------------------------

func TestSelect_FixedIndex_IgnoresNow(t *testing.T) {
	s := mustSelector(t, forecast.PolicyFixedIndex)
	times := hours(midnight(10), 24)

	for _, now := range []time.Time{midnight(1), midnight(10).Add(23 * time.Hour), midnight(28)} {
		got, err := s.Select(times, now)
		require.NoError(t, err)
		assert.Equal(t, 22, got)
	}
}

func TestSelect_FixedIndex_SeriesTooShort(t *testing.T) {
	s := mustSelector(t, forecast.PolicyFixedIndex)

	_, err := s.Select(hours(midnight(10), 22), midnight(10))

	assert.ErrorIs(t, err, domain.ErrDataShape)
}

func TestSelect_FixedIndex_NotMidnightAligned(t *testing.T) {
	s := mustSelector(t, forecast.PolicyFixedIndex)

	_, err := s.Select(hours(midnight(10).Add(time.Hour), 48), midnight(10))

	assert.ErrorIs(t, err, domain.ErrDataShape)
}

// ---- current-hour ----------------------------------------------------------

func TestSelect_CurrentHour_Match(t *testing.T) {
	s := mustSelector(t, forecast.PolicyCurrentHour)
	times := hours(midnight(10), 48)

	got, err := s.Select(times, midnight(10).Add(31*time.Hour+42*time.Minute))

	require.NoError(t, err)
	assert.Equal(t, 31, got)
}

func TestSelect_CurrentHour_NoMatchFallsBackToFixed(t *testing.T) {
	s := mustSelector(t, forecast.PolicyCurrentHour)
	times := hours(midnight(10), 24)

	got, err := s.Select(times, midnight(15))

	require.NoError(t, err)
	assert.Equal(t, forecast.FallbackIndex, got)
}

func TestSelect_CurrentHour_FallbackValidatesShape(t *testing.T) {
	s := mustSelector(t, forecast.PolicyCurrentHour)
	times := hours(midnight(10), 12)

	_, err := s.Select(times, midnight(15))

	assert.ErrorIs(t, err, domain.ErrDataShape)
}

// ---- IsNight ---------------------------------------------------------------

func TestIsNight(t *testing.T) {
	tests := []struct {
		hour int
		want bool
	}{
		{0, true}, {3, true}, {6, true}, {7, false}, {12, false},
		{17, false}, {18, true}, {22, true}, {23, true},
	}
	for _, tt := range tests {
		got := forecast.IsNight(midnight(10).Add(time.Duration(tt.hour) * time.Hour))
		assert.Equal(t, tt.want, got, "hour %d", tt.hour)
	}
}
