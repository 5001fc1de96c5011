package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"workhours/internal/models"
	"workhours/pkg/schedule"
)

// mondayAt returns a fixed Monday (2025-03-03) in UTC at the given hour.
func mondayAt(hour int) time.Time {
	return time.Date(2025, time.March, 3, hour, 0, 0, 0, time.UTC)
}

// frozenClock pins schedule evaluation to a single moment.
func frozenClock(at time.Time) schedule.Clock {
	return schedule.ClockFunc(func() time.Time { return at })
}

func businessHours() schedule.WeeklySchedule {
	return schedule.WeeklySchedule{"monday": {Start: 9, Stop: 18}}
}

func stoppedInstance(id string) models.Instance {
	return models.Instance{
		InstanceID: id,
		Name:       "test-" + id,
		State:      models.PowerStopped,
		RawState:   "stopped",
		Region:     "us-east-1",
	}
}

func runningInstance(id string) models.Instance {
	return models.Instance{
		InstanceID: id,
		Name:       "test-" + id,
		State:      models.PowerRunning,
		RawState:   "running",
		Region:     "us-east-1",
	}
}

// fakeCompute implements Compute, recording every transition request.
type fakeCompute struct {
	instances []models.Instance
	listErr   error
	startErr  map[string]error
	stopErr   map[string]error

	startAttempts []string
	stopAttempts  []string
	started       []string
	stopped       []string
}

func (f *fakeCompute) FindInstancesByTag(ctx context.Context, tags []string) ([]models.Instance, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.instances, nil
}

func (f *fakeCompute) StartInstance(ctx context.Context, id string) error {
	f.startAttempts = append(f.startAttempts, id)
	if err := f.startErr[id]; err != nil {
		return err
	}
	f.started = append(f.started, id)
	return nil
}

func (f *fakeCompute) StopInstance(ctx context.Context, id string) error {
	f.stopAttempts = append(f.stopAttempts, id)
	if err := f.stopErr[id]; err != nil {
		return err
	}
	f.stopped = append(f.stopped, id)
	return nil
}

// fakeLoadBalancers implements LoadBalancers, recording calls in order
// as "describe:name", "deregister:name", "register:name".
type fakeLoadBalancers struct {
	lbs         map[string]models.LoadBalancer
	describeErr map[string]error
	deregErr    map[string]error
	regErr      map[string]error

	calls []string
}

func (f *fakeLoadBalancers) GetLoadBalancers(ctx context.Context, names []string) ([]models.LoadBalancer, error) {
	var out []models.LoadBalancer
	for _, name := range names {
		f.calls = append(f.calls, "describe:"+name)
		if err := f.describeErr[name]; err != nil {
			return nil, err
		}
		if lb, ok := f.lbs[name]; ok {
			out = append(out, lb)
		}
	}
	return out, nil
}

func (f *fakeLoadBalancers) DeregisterInstances(ctx context.Context, name string, ids []string) error {
	f.calls = append(f.calls, "deregister:"+name)
	return f.deregErr[name]
}

func (f *fakeLoadBalancers) RegisterInstances(ctx context.Context, name string, ids []string) error {
	f.calls = append(f.calls, "register:"+name)
	return f.regErr[name]
}

// fakeTargetGroups implements TargetGroups with the same call log
// convention as fakeLoadBalancers.
type fakeTargetGroups struct {
	tgs         map[string]models.TargetGroup
	describeErr map[string]error
	deregErr    map[string]error
	regErr      map[string]error

	calls []string
}

func (f *fakeTargetGroups) GetTargetGroup(ctx context.Context, arn string) (models.TargetGroup, error) {
	f.calls = append(f.calls, "describe:"+arn)
	if err := f.describeErr[arn]; err != nil {
		return models.TargetGroup{}, err
	}
	return f.tgs[arn], nil
}

func (f *fakeTargetGroups) DeregisterTargets(ctx context.Context, arn string, ids []string) error {
	f.calls = append(f.calls, "deregister:"+arn)
	return f.deregErr[arn]
}

func (f *fakeTargetGroups) RegisterTargets(ctx context.Context, arn string, ids []string) error {
	f.calls = append(f.calls, "register:"+arn)
	return f.regErr[arn]
}

// fakeProviders hands out the per-region fakes and counts resolutions
// so tests can assert a provider was never touched.
type fakeProviders struct {
	compute map[string]*fakeCompute
	lbs     map[string]*fakeLoadBalancers
	tgs     map[string]*fakeTargetGroups

	lbResolves int
	tgResolves int
}

func (f *fakeProviders) Compute(region string) (Compute, error) {
	c, ok := f.compute[region]
	if !ok {
		return nil, fmt.Errorf("%s: region not configured", region)
	}
	return c, nil
}

func (f *fakeProviders) LoadBalancers(region string) (LoadBalancers, error) {
	f.lbResolves++
	l, ok := f.lbs[region]
	if !ok {
		return nil, fmt.Errorf("%s: region not configured", region)
	}
	return l, nil
}

func (f *fakeProviders) TargetGroups(region string) (TargetGroups, error) {
	f.tgResolves++
	tg, ok := f.tgs[region]
	if !ok {
		return nil, fmt.Errorf("%s: region not configured", region)
	}
	return tg, nil
}

// fakeMetrics implements MetricsSink. It is safe for concurrent use
// since loop tests read it while the loop goroutine publishes.
type fakeMetrics struct {
	mu      sync.Mutex
	reports []models.CycleReport
	err     error
}

func (f *fakeMetrics) PutCycleMetrics(ctx context.Context, report models.CycleReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, report)
	return f.err
}

func (f *fakeMetrics) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reports)
}

func (f *fakeMetrics) last() models.CycleReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reports[len(f.reports)-1]
}
