package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"workhours/internal/config"
	"workhours/internal/logging"
	"workhours/internal/version"
	"workhours/pkg/aws"
	"workhours/pkg/formatter"
	"workhours/pkg/pricing"
	"workhours/pkg/schedule"
	"workhours/pkg/scheduler"
	"workhours/pkg/utils"
)

var (
	configPath   string
	schedulePath string
	runOnce      bool
	dryRun       bool
	showPlan     bool
	showVersion  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "workhours",
		Short: "Daemon that starts and stops EC2 instances on a weekly schedule",
		Long: `workhours keeps tagged EC2 instances powered on only during their
scheduled working hours. Outside those hours it stops them, and after
every reconcile pass it cycles load balancer registrations so health
checks pick up the new instance states.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If version flag is set, print version info and exit
			if showVersion {
				fmt.Println(version.Get().String())
				return nil
			}

			return run(cmd.Context())
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "./workhours.yaml", "Path to the config file")
	rootCmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "Schedule document path or s3://bucket/key (overrides config)")
	rootCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single reconcile cycle and exit")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Decide transitions but do not issue them")
	rootCmd.Flags().BoolVar(&showPlan, "plan", false, "Print what a cycle would do, with estimated savings, and exit")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	interval, err := cfg.ReconcileInterval()
	if err != nil {
		return err
	}

	clock, err := schedule.NewZoneClock(cfg.Scheduler.Timezone)
	if err != nil {
		return err
	}

	creds := make(map[string]aws.RegionCredentials, len(cfg.Regions))
	for region, rc := range cfg.Regions {
		creds[region] = aws.RegionCredentials{AccessKey: rc.AccessKey, SecretKey: rc.SecretKey}
	}

	conns, err := aws.NewConnections(ctx, creds)
	if err != nil {
		return err
	}

	store, err := loadSchedule(ctx, cfg, conns, log)
	if err != nil {
		return err
	}

	// Profiles in unconfigured regions fail every cycle; say so once at
	// startup instead of letting the operator find out from cycle errors.
	for _, region := range store.Regions() {
		if !conns.Has(region) {
			log.Warn().Str("region", region).
				Msg("schedule references a region with no configured connection")
		}
	}

	// Windows never wrap past midnight; a start after the stop hour
	// keeps instances down all day. Flag it here since that is rarely
	// what the operator meant.
	for _, p := range store.Profiles() {
		for day, w := range p.Schedule {
			if w.Start > w.Stop {
				log.Warn().Str("profile", p.Name).Str("day", day).
					Int("start", w.Start).Int("stop", w.Stop).
					Msg("window starts after it stops and will never run")
			}
		}
	}

	info := version.Get()
	log.Info().
		Str("version", info.Version).
		Str("config", configPath).
		Int("profiles", store.Len()).
		Msg("workhours starting")

	simulate := dryRun || showPlan
	reconciler := scheduler.NewReconciler(conns, clock, log, simulate)
	reregistrar := scheduler.NewReregistrar(conns, log, simulate)

	var metrics scheduler.MetricsSink
	if cfg.Metrics.Enabled && !simulate {
		awsCfg, err := conns.Config(cfg.MetricsRegion())
		if err != nil {
			return fmt.Errorf("error resolving metrics region: %w", err)
		}
		metrics = aws.NewMetricsClient(awsCfg, cfg.Metrics.Namespace)
	}

	loop := scheduler.NewLoop(store, reconciler, reregistrar, metrics, interval, log)

	if showPlan {
		report := loop.RunCycle(ctx)

		formatter.PrintPlanTable(report.Reports, report.StartTime, report.Duration)
		if msg := pricing.GetInitMessage(); msg != "" {
			fmt.Println(msg)
		}
		formatter.PrintPlanSummary(report.Reports)
		formatter.PrintPricingAPIStats()
		return nil
	}

	if runOnce {
		report := loop.RunCycle(ctx)
		if report.FailedProfiles > 0 || report.Errors > 0 {
			return fmt.Errorf("cycle finished with %d failed profiles and %d errors",
				report.FailedProfiles, report.Errors)
		}
		return nil
	}

	if err := loop.Start(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadSchedule reads the schedule document from a local path or from S3
// and returns the parsed store.
func loadSchedule(ctx context.Context, cfg config.Config, conns *aws.Connections, log zerolog.Logger) (*schedule.Store, error) {
	path := schedulePath
	if path == "" {
		path = cfg.Schedule.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no schedule document configured: set schedule.path or pass --schedule")
	}

	if !aws.IsS3URI(path) {
		return schedule.LoadFile(path)
	}

	bucket, key, err := aws.ParseS3URI(path)
	if err != nil {
		return nil, err
	}

	region := cfg.Schedule.Region
	if region != "" && !conns.Has(region) {
		log.Warn().Str("region", region).
			Msg("schedule region has no configured connection, picking a configured one")
		region = ""
	}
	if region == "" {
		region = utils.GetDefaultRegion()
		if !conns.Has(region) {
			region = conns.Regions()[0]
		}
	}

	awsCfg, err := conns.Config(region)
	if err != nil {
		return nil, err
	}

	data, err := aws.NewS3Client(awsCfg).FetchObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	return schedule.Parse(data)
}
