package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"workhours/internal/models"
	"workhours/pkg/schedule"
)

// Reregistrar cycles load balancer registrations after a reconcile
// pass. The provider does not resume health checking an instance that
// was stopped and started again; a deregister followed by an
// immediate register resets the health check from scratch.
//
// Every load balancer listed on the profile is cycled every pass,
// whether or not anything changed. Cycling is paced at one load
// balancer per second to stay under the ELB API mutation limits.
type Reregistrar struct {
	providers Providers
	limiter   *rate.Limiter
	log       zerolog.Logger
	dryRun    bool
}

// NewReregistrar creates a Reregistrar. With dryRun set it describes
// load balancers but never deregisters or registers anything.
func NewReregistrar(providers Providers, log zerolog.Logger, dryRun bool) *Reregistrar {
	return &Reregistrar{
		providers: providers,
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
		log:       log,
		dryRun:    dryRun,
	}
}

// Refresh cycles every load balancer and target group listed on the
// profile. Failures are isolated per resource: a stale name or a
// throttled call is recorded and the remaining resources are still
// processed. Profiles without load balancers return an empty report
// without touching the provider.
func (r *Reregistrar) Refresh(ctx context.Context, p schedule.Profile) models.RefreshReport {
	var report models.RefreshReport

	if len(p.LoadBalancers) == 0 && len(p.TargetGroupARNs) == 0 {
		return report
	}

	if len(p.LoadBalancers) > 0 {
		client, err := r.providers.LoadBalancers(p.Region)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			r.log.Error().Str("profile", p.Name).Err(err).Msg("error resolving load balancer client")
		} else {
			for _, name := range p.LoadBalancers {
				if err := r.limiter.Wait(ctx); err != nil {
					return report
				}
				r.cycleLoadBalancer(ctx, client, p.Name, name, &report)
			}
		}
	}

	if len(p.TargetGroupARNs) > 0 {
		client, err := r.providers.TargetGroups(p.Region)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			r.log.Error().Str("profile", p.Name).Err(err).Msg("error resolving target group client")
		} else {
			for _, arn := range p.TargetGroupARNs {
				if err := r.limiter.Wait(ctx); err != nil {
					return report
				}
				r.cycleTargetGroup(ctx, client, p.Name, arn, &report)
			}
		}
	}

	return report
}

func (r *Reregistrar) cycleLoadBalancer(ctx context.Context, client LoadBalancers, profile, name string, report *models.RefreshReport) {
	log := r.log.With().Str("profile", profile).Str("elb", name).Logger()

	lbs, err := client.GetLoadBalancers(ctx, []string{name})
	if err != nil {
		if IsNotFound(err) {
			log.Warn().Msg("load balancer not found, skipping")
			return
		}
		report.Errors = append(report.Errors, fmt.Sprintf("elb %s: %v", name, err))
		log.Error().Err(err).Msg("error describing load balancer")
		return
	}
	if len(lbs) == 0 {
		log.Warn().Msg("load balancer not found, skipping")
		return
	}

	lb := lbs[0]
	if len(lb.InstanceIDs) == 0 {
		log.Info().Msg("load balancer has no instances, skipping")
		return
	}

	if r.dryRun {
		report.LoadBalancers++
		log.Info().Bool("dry_run", true).Int("instances", len(lb.InstanceIDs)).Msg("would cycle health check registration")
		return
	}

	if err := client.DeregisterInstances(ctx, name, lb.InstanceIDs); err != nil {
		r.recordCycleError(log, report, "elb", name, "deregister", err)
		return
	}
	if err := client.RegisterInstances(ctx, name, lb.InstanceIDs); err != nil {
		r.recordCycleError(log, report, "elb", name, "register", err)
		return
	}

	report.LoadBalancers++
	log.Info().Int("instances", len(lb.InstanceIDs)).Msg("health check registration cycled")
}

func (r *Reregistrar) cycleTargetGroup(ctx context.Context, client TargetGroups, profile, arn string, report *models.RefreshReport) {
	log := r.log.With().Str("profile", profile).Str("target_group", arn).Logger()

	tg, err := client.GetTargetGroup(ctx, arn)
	if err != nil {
		if IsNotFound(err) {
			log.Warn().Msg("target group not found, skipping")
			return
		}
		report.Errors = append(report.Errors, fmt.Sprintf("target group %s: %v", arn, err))
		log.Error().Err(err).Msg("error describing target group")
		return
	}

	if len(tg.TargetIDs) == 0 {
		log.Info().Msg("target group has no targets, skipping")
		return
	}

	if r.dryRun {
		report.TargetGroups++
		log.Info().Bool("dry_run", true).Int("targets", len(tg.TargetIDs)).Msg("would cycle health check registration")
		return
	}

	if err := client.DeregisterTargets(ctx, arn, tg.TargetIDs); err != nil {
		r.recordCycleError(log, report, "target group", arn, "deregister", err)
		return
	}
	if err := client.RegisterTargets(ctx, arn, tg.TargetIDs); err != nil {
		r.recordCycleError(log, report, "target group", arn, "register", err)
		return
	}

	report.TargetGroups++
	log.Info().Int("targets", len(tg.TargetIDs)).Msg("health check registration cycled")
}

// recordCycleError classifies one failed deregister/register call.
// Racing the fleet (instance vanished, registration already gone) is
// expected and only warned about.
func (r *Reregistrar) recordCycleError(log zerolog.Logger, report *models.RefreshReport, kind, name, op string, err error) {
	if IsNotFound(err) || IsInvalidTarget(err) {
		log.Warn().Err(err).Msgf("%s skipped", op)
		return
	}
	report.Errors = append(report.Errors, fmt.Sprintf("%s %s: %s: %v", kind, name, op, err))
	log.Error().Err(err).Msgf("error during %s", op)
}
