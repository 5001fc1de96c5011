package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"workhours/internal/models"
	"workhours/pkg/schedule"
)

// Loop runs reconciliation on a fixed interval until its context is
// cancelled. One cycle walks the profiles in document order, fully
// reconciling each profile (instances first, then load balancers)
// before moving to the next. A profile failure never stops the cycle.
type Loop struct {
	store       *schedule.Store
	reconciler  *Reconciler
	reregistrar *Reregistrar
	metrics     MetricsSink
	interval    time.Duration
	log         zerolog.Logger
}

// NewLoop creates a Loop. A nil metrics sink disables publication.
func NewLoop(store *schedule.Store, reconciler *Reconciler, reregistrar *Reregistrar, metrics MetricsSink, interval time.Duration, log zerolog.Logger) *Loop {
	return &Loop{
		store:       store,
		reconciler:  reconciler,
		reregistrar: reregistrar,
		metrics:     metrics,
		interval:    interval,
		log:         log,
	}
}

// Start blocks, running one cycle immediately and another every
// interval, until ctx is cancelled. It always returns ctx.Err().
func (l *Loop) Start(ctx context.Context) error {
	l.log.Info().
		Dur("interval", l.interval).
		Int("profiles", l.store.Len()).
		Msg("scheduler started")

	// The first cycle runs right away so a restarted process snaps
	// the fleet to its schedule without waiting out the interval.
	l.RunCycle(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			l.RunCycle(ctx)
		}
	}
}

// RunCycle executes one full pass over all profiles and returns its
// report. Errors never escape a cycle; they are logged, counted, and
// isolated to the profile or resource they occurred on.
func (l *Loop) RunCycle(ctx context.Context) models.CycleReport {
	cycle := models.CycleReport{
		StartTime: time.Now(),
		Profiles:  l.store.Len(),
	}

	for _, p := range l.store.Profiles() {
		if ctx.Err() != nil {
			break
		}

		report, err := l.reconciler.Reconcile(ctx, p)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				l.log.Info().Str("profile", p.Name).Msg("cycle interrupted")
				l.merge(&cycle, report)
				break
			}
			// Profile failure: log and move on to the next profile.
			// Reregistration is skipped since its instances were
			// never reconciled.
			cycle.FailedProfiles++
			l.merge(&cycle, report)
			l.log.Error().Str("profile", p.Name).Err(err).Msg("profile reconciliation failed")
			continue
		}

		report.Refresh = l.reregistrar.Refresh(ctx, p)
		l.merge(&cycle, report)
	}

	cycle.Duration = time.Since(cycle.StartTime)

	l.log.Info().
		Int("profiles", cycle.Profiles).
		Int("failed_profiles", cycle.FailedProfiles).
		Int("seen", cycle.Seen).
		Int("started", cycle.Started).
		Int("stopped", cycle.Stopped).
		Int("skipped", cycle.Skipped).
		Int("refreshed", cycle.Refreshed).
		Int("errors", cycle.Errors).
		Dur("duration", cycle.Duration).
		Msg("cycle complete")

	if l.metrics != nil && ctx.Err() == nil {
		if err := l.metrics.PutCycleMetrics(ctx, cycle); err != nil {
			l.log.Warn().Err(err).Msg("error publishing cycle metrics")
		}
	}

	return cycle
}

func (l *Loop) merge(cycle *models.CycleReport, report models.ProfileReport) {
	cycle.Seen += report.Seen
	cycle.Started += report.Started
	cycle.Stopped += report.Stopped
	cycle.Skipped += report.Skipped
	cycle.Refreshed += report.Refresh.LoadBalancers + report.Refresh.TargetGroups
	cycle.Errors += len(report.Errors) + len(report.Refresh.Errors)
	cycle.Reports = append(cycle.Reports, report)
}
