package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"workhours/internal/models"
	"workhours/pkg/schedule"
)

// Reconciler drives one profile through a single pass: list the
// profile's instances, resolve the desired state for each, and issue
// whatever transitions are needed to close the gap.
//
// Transitions are fire-and-forget. A started instance is still
// pending when the pass moves on; the next cycle observes the settled
// state and leaves it alone.
type Reconciler struct {
	providers Providers
	clock     schedule.Clock
	log       zerolog.Logger
	dryRun    bool
}

// NewReconciler creates a Reconciler. With dryRun set it decides and
// logs but never calls StartInstance or StopInstance.
func NewReconciler(providers Providers, clock schedule.Clock, log zerolog.Logger, dryRun bool) *Reconciler {
	return &Reconciler{
		providers: providers,
		clock:     clock,
		log:       log,
		dryRun:    dryRun,
	}
}

// Reconcile runs one pass over the profile. The returned error is
// non-nil only when the whole profile failed (unknown region, listing
// failed, context cancelled); per-instance transition failures are
// recorded in the report and logged, and the pass continues.
func (r *Reconciler) Reconcile(ctx context.Context, p schedule.Profile) (models.ProfileReport, error) {
	passStart := time.Now()

	report := models.ProfileReport{
		Profile:        p.Name,
		Region:         p.Region,
		WeeklyOffHours: p.Schedule.OffHoursPerWeek(),
	}

	compute, err := r.providers.Compute(p.Region)
	if err != nil {
		return report, fmt.Errorf("profile %s: %w", p.Name, err)
	}

	instances, err := compute.FindInstancesByTag(ctx, p.InstanceTags)
	if err != nil {
		return report, fmt.Errorf("profile %s: error listing instances: %w", p.Name, err)
	}
	report.Seen = len(instances)

	dayWarned := false
	for _, inst := range instances {
		if ctx.Err() != nil {
			report.Duration = time.Since(passStart)
			return report, ctx.Err()
		}

		// Desired state is resolved per instance so a pass crossing an
		// hour boundary acts on the current hour, not a stale one.
		desired, err := schedule.DesiredFor(p.Schedule, r.clock.Now())
		if errors.Is(err, schedule.ErrDayNotScheduled) && !dayWarned {
			r.log.Warn().
				Str("profile", p.Name).
				Err(err).
				Msg("weekday missing from schedule, defaulting to stop")
			dayWarned = true
		}

		decision := r.reconcileInstance(ctx, compute, p.Name, inst, desired, &report)
		report.Decisions = append(report.Decisions, decision)

		switch decision.Action {
		case models.ActionStart:
			report.Started++
		case models.ActionStop:
			report.Stopped++
		case models.ActionSkip:
			report.Skipped++
		default:
			report.Unchanged++
		}
	}

	report.Duration = time.Since(passStart)
	return report, nil
}

func (r *Reconciler) reconcileInstance(ctx context.Context, compute Compute, profile string, inst models.Instance, desired schedule.DesiredState, report *models.ProfileReport) models.Decision {
	decision := models.Decision{
		Instance: inst,
		Desired:  string(desired),
	}

	log := r.log.With().
		Str("profile", profile).
		Str("instance", inst.InstanceID).
		Str("name", inst.Name).
		Str("state", inst.RawState).
		Str("desired", string(desired)).
		Logger()

	switch {
	case inst.State == models.PowerOther:
		// pending, stopping, shutting-down, terminated: never touched
		decision.Action = models.ActionSkip
		decision.Reason = fmt.Sprintf("transitional state %s", inst.RawState)
		log.Info().Msg("skipping instance in transitional state")

	case desired == schedule.DesiredStart && inst.State == models.PowerStopped:
		r.issue(ctx, log, models.ActionStart, compute, &decision, report)

	case desired == schedule.DesiredStop && inst.State == models.PowerRunning:
		r.issue(ctx, log, models.ActionStop, compute, &decision, report)

	default:
		decision.Action = models.ActionNone
		decision.Reason = "already in desired state"
		log.Debug().Msg("instance already in desired state")
	}

	return decision
}

// issue requests one start or stop and classifies the outcome. A
// state race or vanished instance downgrades to a no-op; anything
// else counts as an error.
func (r *Reconciler) issue(ctx context.Context, log zerolog.Logger, action models.Action, compute Compute, decision *models.Decision, report *models.ProfileReport) {
	verb := "stop"
	call := compute.StopInstance
	if action == models.ActionStart {
		verb = "start"
		call = compute.StartInstance
	}

	if r.dryRun {
		decision.Action = action
		decision.Reason = "dry-run"
		log.Info().Bool("dry_run", true).Msgf("would %s instance", verb)
		return
	}

	err := call(ctx, decision.Instance.InstanceID)
	if err == nil {
		decision.Action = action
		log.Info().Msgf("%s requested", verb)
		return
	}

	decision.Action = models.ActionNone
	if IsIncorrectState(err) || IsNotFound(err) {
		decision.Reason = fmt.Sprintf("%s not possible: %v", verb, err)
		log.Warn().Err(err).Msgf("instance changed underneath, %s not issued", verb)
		return
	}

	decision.Reason = fmt.Sprintf("%s failed: %v", verb, err)
	report.Errors = append(report.Errors, decision.Reason)
	log.Error().Err(err).Msgf("error issuing %s", verb)
}
