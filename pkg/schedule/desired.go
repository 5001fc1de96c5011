package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DesiredState is the power state a schedule resolves to at a moment
// in time.
type DesiredState string

const (
	DesiredStart DesiredState = "start"
	DesiredStop  DesiredState = "stop"
)

// ErrDayNotScheduled is returned when the current weekday has no entry
// in the weekly schedule. Callers treat the day as off-hours.
var ErrDayNotScheduled = errors.New("weekday not present in schedule")

// DesiredFor resolves the desired power state for the given moment.
// The weekday and hour are taken from now as-is, so callers must pass
// a time already converted to the scheduler's time zone.
//
// On ErrDayNotScheduled the returned state is DesiredStop so that
// callers falling back on it keep instances down on unlisted days.
func DesiredFor(ws WeeklySchedule, now time.Time) (DesiredState, error) {
	day := strings.ToLower(now.Weekday().String())
	w, ok := ws[day]
	if !ok {
		return DesiredStop, fmt.Errorf("%s: %w", day, ErrDayNotScheduled)
	}
	if w.Contains(now.Hour()) {
		return DesiredStart, nil
	}
	return DesiredStop, nil
}
