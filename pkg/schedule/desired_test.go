package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mondayAt returns a fixed Monday (2025-03-03) in UTC at the given hour.
func mondayAt(hour int) time.Time {
	return time.Date(2025, time.March, 3, hour, 0, 0, 0, time.UTC)
}

func businessHours() WeeklySchedule {
	return WeeklySchedule{"monday": {Start: 9, Stop: 18}}
}

func TestDesiredFor(t *testing.T) {
	tests := []struct {
		name string
		hour int
		want DesiredState
	}{
		{"inside window", 10, DesiredStart},
		{"after window", 19, DesiredStop},
		{"start boundary is inclusive", 9, DesiredStart},
		{"stop boundary is exclusive", 18, DesiredStop},
		{"before window", 8, DesiredStop},
		{"last hour inside window", 17, DesiredStart},
		{"midnight", 0, DesiredStop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DesiredFor(businessHours(), mondayAt(tt.hour))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDesiredForStartEqualsStop(t *testing.T) {
	ws := WeeklySchedule{"monday": {Start: 9, Stop: 9}}

	for hour := 0; hour < 24; hour++ {
		got, err := DesiredFor(ws, mondayAt(hour))
		require.NoError(t, err)
		assert.Equal(t, DesiredStop, got, "hour %d", hour)
	}
}

func TestDesiredForWindowNeverWraps(t *testing.T) {
	// Start after stop reads as an empty window, not an overnight one.
	ws := WeeklySchedule{"monday": {Start: 22, Stop: 6}}

	for _, hour := range []int{2, 5, 22, 23} {
		got, err := DesiredFor(ws, mondayAt(hour))
		require.NoError(t, err)
		assert.Equal(t, DesiredStop, got, "hour %d", hour)
	}
}

func TestDesiredForMissingWeekday(t *testing.T) {
	ws := WeeklySchedule{"tuesday": {Start: 9, Stop: 18}}

	got, err := DesiredFor(ws, mondayAt(10))
	require.ErrorIs(t, err, ErrDayNotScheduled)
	assert.Equal(t, DesiredStop, got, "unlisted days resolve to stop")
}

func TestDesiredForUsesLocalWeekdayAndHour(t *testing.T) {
	// 2025-03-03 10:00 in UTC-3 is 13:00 UTC; the schedule must be
	// evaluated against the local fields, not the UTC ones.
	brt := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2025, time.March, 3, 10, 0, 0, 0, brt)

	got, err := DesiredFor(WeeklySchedule{"monday": {Start: 10, Stop: 11}}, now)
	require.NoError(t, err)
	assert.Equal(t, DesiredStart, got)
}
