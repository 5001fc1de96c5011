// Package schedule defines weekly running windows for groups of EC2
// instances and computes the power state each group should be in at a
// given moment.
package schedule

import (
	"encoding/json"
	"fmt"
)

// HoursPerWeek is the number of schedulable hours in one week.
const HoursPerWeek = 7 * 24

// Weekday keys accepted in schedule documents.
var validWeekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// Window is the daily running window in whole hours of the scheduler's
// clock. Instances should run from Start (inclusive) until Stop
// (exclusive). Start == Stop keeps them stopped all day. Start > Stop
// also resolves to stopped for every hour; windows never wrap past
// midnight.
type Window struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

// Contains reports whether hour falls inside the running window.
func (w Window) Contains(hour int) bool {
	return hour >= w.Start && hour < w.Stop
}

// OnHours returns how many hours of one day the window keeps instances
// running.
func (w Window) OnHours() int {
	if w.Stop <= w.Start {
		return 0
	}
	return w.Stop - w.Start
}

// WeeklySchedule maps lowercase weekday names to their running window.
// Weekdays without an entry default to stopped.
type WeeklySchedule map[string]Window

// OnHoursPerWeek returns the total hours per week the schedule keeps
// instances running.
func (ws WeeklySchedule) OnHoursPerWeek() int {
	total := 0
	for _, w := range ws {
		total += w.OnHours()
	}
	return total
}

// OffHoursPerWeek returns the total hours per week the schedule keeps
// instances stopped.
func (ws WeeklySchedule) OffHoursPerWeek() int {
	return HoursPerWeek - ws.OnHoursPerWeek()
}

// TagFilter lists the Name tag values a profile matches instances by.
// Schedule documents may give it as a single string or an array.
type TagFilter []string

// UnmarshalJSON accepts both "web-*" and ["web-*", "worker-*"] forms.
func (t *TagFilter) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TagFilter{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("instance_tags must be a string or an array of strings: %w", err)
	}
	*t = TagFilter(many)
	return nil
}

// Profile groups instances in one region under a weekly schedule.
// Profiles are built once at load time and never mutated afterwards.
type Profile struct {
	Name            string         `json:"name"`
	Region          string         `json:"region"`
	InstanceTags    TagFilter      `json:"instance_tags"`
	LoadBalancers   []string       `json:"elb_names,omitempty"`
	TargetGroupARNs []string       `json:"target_group_arns,omitempty"`
	Schedule        WeeklySchedule `json:"schedule"`
}

// Validate checks the structural invariants of a single profile.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	if p.Region == "" {
		return fmt.Errorf("profile %q: region must not be empty", p.Name)
	}
	if len(p.InstanceTags) == 0 {
		return fmt.Errorf("profile %q: instance_tags must not be empty", p.Name)
	}
	for _, tag := range p.InstanceTags {
		if tag == "" {
			return fmt.Errorf("profile %q: instance_tags must not contain empty values", p.Name)
		}
	}
	if len(p.Schedule) == 0 {
		return fmt.Errorf("profile %q: schedule must not be empty", p.Name)
	}
	for day, w := range p.Schedule {
		if !validWeekdays[day] {
			return fmt.Errorf("profile %q: unknown weekday %q", p.Name, day)
		}
		if w.Start < 0 || w.Start > 23 {
			return fmt.Errorf("profile %q: %s: start hour %d out of range 0-23", p.Name, day, w.Start)
		}
		if w.Stop < 0 || w.Stop > 23 {
			return fmt.Errorf("profile %q: %s: stop hour %d out of range 0-23", p.Name, day, w.Stop)
		}
	}
	return nil
}
