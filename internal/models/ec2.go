package models

import "time"

// PowerState is the coarse lifecycle state an instance is reduced to
// when deciding whether a transition is needed.
type PowerState string

const (
	PowerRunning PowerState = "running"
	PowerStopped PowerState = "stopped"

	// PowerOther covers transitional and terminal states (pending,
	// stopping, shutting-down, terminated). Instances in these states
	// are never started or stopped.
	PowerOther PowerState = "other"
)

// Instance represents an EC2 instance observed during a reconcile pass
type Instance struct {
	InstanceID       string
	Name             string
	InstanceType     string
	Region           string
	AvailabilityZone string
	State            PowerState
	RawState         string // verbatim EC2 state name, kept for logs
	LaunchTime       time.Time
	StoppedTime      *time.Time
}
