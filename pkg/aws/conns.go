// Package aws wraps the AWS SDK clients used by the scheduler. One
// client struct per service, constructed once per region at startup
// and reused for every cycle.
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"

	"workhours/pkg/scheduler"
)

// ErrRegionNotConfigured is returned when a profile references a
// region that has no connection set.
var ErrRegionNotConfigured = errors.New("region not configured")

// RegionCredentials holds optional static credentials for one region.
// Empty values fall back to the default credential chain.
type RegionCredentials struct {
	AccessKey string
	SecretKey string
}

type regionClients struct {
	cfg aws.Config
	ec2 *EC2Client
	elb *ELBClient
	tg  *TargetGroupClient
}

// Connections holds the per-region service clients. Built once at
// startup, read-only afterwards, safe for concurrent use.
type Connections struct {
	regions map[string]regionClients
}

// NewConnections builds service clients for every given region.
// Construction fails if any region's credential chain cannot be
// resolved, so a bad setup aborts before the first cycle.
func NewConnections(ctx context.Context, regions map[string]RegionCredentials) (*Connections, error) {
	conns := &Connections{regions: make(map[string]regionClients, len(regions))}

	for region, creds := range regions {
		cfg, err := loadRegionConfig(ctx, region, creds)
		if err != nil {
			return nil, fmt.Errorf("error loading AWS config for region %s: %w", region, err)
		}

		conns.regions[region] = regionClients{
			cfg: cfg,
			ec2: NewEC2Client(cfg, region),
			elb: NewELBClient(cfg, region),
			tg:  NewTargetGroupClient(cfg, region),
		}
	}

	return conns, nil
}

func loadRegionConfig(ctx context.Context, region string, creds RegionCredentials) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithEC2IMDSClientEnableState(imds.ClientEnabled),
	}
	if creds.AccessKey != "" && creds.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, "")))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

// Regions returns the configured region names.
func (c *Connections) Regions() []string {
	regions := make([]string, 0, len(c.regions))
	for region := range c.regions {
		regions = append(regions, region)
	}
	return regions
}

// Has reports whether the region has a connection set.
func (c *Connections) Has(region string) bool {
	_, ok := c.regions[region]
	return ok
}

// Compute returns the EC2 surface for the region.
func (c *Connections) Compute(region string) (scheduler.Compute, error) {
	rc, ok := c.regions[region]
	if !ok {
		return nil, fmt.Errorf("%s: %w", region, ErrRegionNotConfigured)
	}
	return rc.ec2, nil
}

// LoadBalancers returns the classic ELB surface for the region.
func (c *Connections) LoadBalancers(region string) (scheduler.LoadBalancers, error) {
	rc, ok := c.regions[region]
	if !ok {
		return nil, fmt.Errorf("%s: %w", region, ErrRegionNotConfigured)
	}
	return rc.elb, nil
}

// TargetGroups returns the ELBv2 target group surface for the region.
func (c *Connections) TargetGroups(region string) (scheduler.TargetGroups, error) {
	rc, ok := c.regions[region]
	if !ok {
		return nil, fmt.Errorf("%s: %w", region, ErrRegionNotConfigured)
	}
	return rc.tg, nil
}

// Config returns the resolved SDK config for the region, for callers
// that need to build additional service clients against it.
func (c *Connections) Config(region string) (aws.Config, error) {
	rc, ok := c.regions[region]
	if !ok {
		return aws.Config{}, fmt.Errorf("%s: %w", region, ErrRegionNotConfigured)
	}
	return rc.cfg, nil
}
