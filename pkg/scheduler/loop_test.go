package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workhours/internal/models"
	"workhours/pkg/schedule"
)

// testLoopSetup wires two profiles in separate regions: "web" in
// us-east-1 with one stopped instance and one load balancer, "batch"
// in eu-west-1 with one running instance and no load balancers.
type testLoopSetup struct {
	loop      *Loop
	webFake   *fakeCompute
	batchFake *fakeCompute
	lbs       *fakeLoadBalancers
	providers *fakeProviders
	metrics   *fakeMetrics
}

func newTestLoop(t *testing.T, interval time.Duration) *testLoopSetup {
	t.Helper()

	web := schedule.Profile{
		Name:          "web",
		Region:        "us-east-1",
		InstanceTags:  schedule.TagFilter{"web-*"},
		LoadBalancers: []string{"web-lb"},
		Schedule:      businessHours(),
	}
	batch := schedule.Profile{
		Name:         "batch",
		Region:       "eu-west-1",
		InstanceTags: schedule.TagFilter{"batch-*"},
		Schedule:     schedule.WeeklySchedule{"monday": {Start: 0, Stop: 6}},
	}

	s := &testLoopSetup{
		webFake:   &fakeCompute{instances: []models.Instance{stoppedInstance("i-web")}},
		batchFake: &fakeCompute{instances: []models.Instance{runningInstance("i-batch")}},
		lbs: &fakeLoadBalancers{lbs: map[string]models.LoadBalancer{
			"web-lb": lbWithInstances("web-lb", "i-web"),
		}},
		metrics: &fakeMetrics{},
	}
	s.providers = &fakeProviders{
		compute: map[string]*fakeCompute{"us-east-1": s.webFake, "eu-west-1": s.batchFake},
		lbs:     map[string]*fakeLoadBalancers{"us-east-1": s.lbs},
	}

	clock := frozenClock(mondayAt(10))
	reconciler := NewReconciler(s.providers, clock, zerolog.Nop(), false)
	reregistrar := newTestReregistrar(s.providers, false)

	store := schedule.NewStore([]schedule.Profile{web, batch})
	s.loop = NewLoop(store, reconciler, reregistrar, s.metrics, interval, zerolog.Nop())
	return s
}

func TestRunCycleWalksProfilesInOrder(t *testing.T) {
	s := newTestLoop(t, time.Hour)

	// Monday 10:00: web (9-18) wants its instance up, batch (0-6)
	// wants its instance down.
	cycle := s.loop.RunCycle(context.Background())

	assert.Equal(t, []string{"i-web"}, s.webFake.started)
	assert.Equal(t, []string{"i-batch"}, s.batchFake.stopped)

	assert.Equal(t, 2, cycle.Profiles)
	assert.Zero(t, cycle.FailedProfiles)
	assert.Equal(t, 2, cycle.Seen)
	assert.Equal(t, 1, cycle.Started)
	assert.Equal(t, 1, cycle.Stopped)
	assert.Equal(t, 1, cycle.Refreshed)
	assert.Zero(t, cycle.Errors)

	require.Len(t, cycle.Reports, 2)
	assert.Equal(t, "web", cycle.Reports[0].Profile, "document order is kept")
	assert.Equal(t, "batch", cycle.Reports[1].Profile)
	assert.Equal(t, 1, cycle.Reports[0].Refresh.LoadBalancers)
}

func TestRunCycleProfileFailureIsolation(t *testing.T) {
	s := newTestLoop(t, time.Hour)
	s.webFake.listErr = errors.New("api unavailable")

	cycle := s.loop.RunCycle(context.Background())

	assert.Equal(t, 1, cycle.FailedProfiles)
	assert.Equal(t, []string{"i-batch"}, s.batchFake.stopped, "later profiles still run")
	assert.Empty(t, s.lbs.calls, "reregistration is skipped for a failed profile")
	assert.Zero(t, cycle.Refreshed)
}

func TestRunCyclePublishesMetrics(t *testing.T) {
	s := newTestLoop(t, time.Hour)

	s.loop.RunCycle(context.Background())

	require.Equal(t, 1, s.metrics.count())
	published := s.metrics.last()
	assert.Equal(t, 1, published.Started)
	assert.Equal(t, 1, published.Stopped)
	assert.False(t, published.StartTime.IsZero())
}

func TestRunCycleSurvivesMetricsFailure(t *testing.T) {
	s := newTestLoop(t, time.Hour)
	s.metrics.err = errors.New("cloudwatch unavailable")

	cycle := s.loop.RunCycle(context.Background())

	assert.Equal(t, 1, cycle.Started, "metrics failures never affect the cycle")
}

func TestRunCycleWithoutMetricsSink(t *testing.T) {
	s := newTestLoop(t, time.Hour)
	s.loop.metrics = nil

	assert.NotPanics(t, func() { s.loop.RunCycle(context.Background()) })
}

func TestStartRunsFirstCycleImmediately(t *testing.T) {
	s := newTestLoop(t, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.loop.Start(ctx) }()

	// The first cycle does not wait for the ticker.
	require.Eventually(t, func() bool {
		return s.metrics.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}

	assert.Equal(t, []string{"i-web"}, s.webFake.started, "exactly one cycle ran")
}
