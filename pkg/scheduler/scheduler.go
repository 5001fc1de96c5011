// Package scheduler contains the reconciliation engine: it compares
// the observed power state of tagged EC2 instances against their
// weekly schedule, issues the start/stop transitions needed to close
// the gap, and cycles load balancer registrations so health checks
// recover after a transition.
package scheduler

import (
	"context"

	"workhours/internal/models"
)

// Compute is the EC2 surface the reconciler needs in one region.
type Compute interface {
	FindInstancesByTag(ctx context.Context, tags []string) ([]models.Instance, error)
	StartInstance(ctx context.Context, instanceID string) error
	StopInstance(ctx context.Context, instanceID string) error
}

// LoadBalancers is the classic ELB surface used for health check
// reregistration.
type LoadBalancers interface {
	GetLoadBalancers(ctx context.Context, names []string) ([]models.LoadBalancer, error)
	DeregisterInstances(ctx context.Context, name string, instanceIDs []string) error
	RegisterInstances(ctx context.Context, name string, instanceIDs []string) error
}

// TargetGroups is the ELBv2 surface used for health check
// reregistration.
type TargetGroups interface {
	GetTargetGroup(ctx context.Context, arn string) (models.TargetGroup, error)
	DeregisterTargets(ctx context.Context, arn string, targetIDs []string) error
	RegisterTargets(ctx context.Context, arn string, targetIDs []string) error
}

// Providers hands out per-region service surfaces. It is built once at
// startup and read concurrently, never mutated.
type Providers interface {
	Compute(region string) (Compute, error)
	LoadBalancers(region string) (LoadBalancers, error)
	TargetGroups(region string) (TargetGroups, error)
}

// MetricsSink receives the summary of each completed cycle. A nil
// sink disables metrics.
type MetricsSink interface {
	PutCycleMetrics(ctx context.Context, report models.CycleReport) error
}
