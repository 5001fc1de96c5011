package models

import "time"

// Action is the transition the reconciler decided on for one instance.
type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
	ActionNone  Action = "none" // no transition issued
	ActionSkip  Action = "skip" // transitional state, left alone
)

// Decision records the outcome for a single instance during one pass.
type Decision struct {
	Instance Instance
	Desired  string // "start" or "stop"
	Action   Action
	Reason   string
}

// RefreshReport summarizes the health check refresh for one profile.
type RefreshReport struct {
	LoadBalancers int // classic ELBs cycled
	TargetGroups  int // target groups cycled
	Errors        []string
}

// ProfileReport summarizes one reconcile pass over a single profile.
type ProfileReport struct {
	Profile        string
	Region         string
	Seen           int
	Started        int
	Stopped        int
	Unchanged      int
	Skipped        int
	WeeklyOffHours int // hours per week outside the profile's running windows
	Decisions      []Decision
	Refresh        RefreshReport
	Errors         []string
	Duration       time.Duration
}

// ChangedInstanceIDs returns the instances whose power state was
// changed during this pass.
func (r ProfileReport) ChangedInstanceIDs() []string {
	var ids []string
	for _, d := range r.Decisions {
		if d.Action == ActionStart || d.Action == ActionStop {
			ids = append(ids, d.Instance.InstanceID)
		}
	}
	return ids
}

// CycleReport aggregates all profile reports from one scheduler cycle.
type CycleReport struct {
	StartTime      time.Time
	Duration       time.Duration
	Profiles       int
	FailedProfiles int
	Seen           int
	Started        int
	Stopped        int
	Skipped        int
	Refreshed      int
	Errors         int
	Reports        []ProfileReport
}
