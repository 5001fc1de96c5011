package schedule

import (
	"fmt"
	"time"
)

// Clock supplies the current time to schedule evaluation. The daemon
// uses a zone-fixed clock; tests substitute a frozen one.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

type zoneClock struct {
	loc *time.Location
}

// NewZoneClock returns a Clock that reports wall time in the named
// IANA time zone, e.g. "UTC" or "America/Sao_Paulo".
func NewZoneClock(name string) (Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("error loading time zone %q: %w", name, err)
	}
	return zoneClock{loc: loc}, nil
}

func (c zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}
