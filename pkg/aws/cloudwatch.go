package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"workhours/internal/models"
)

// MetricsClient publishes per-cycle counters as CloudWatch custom
// metrics so operators can alarm on failed profiles or error spikes.
type MetricsClient struct {
	client    *cloudwatch.Client
	namespace string
}

// NewMetricsClient creates a new MetricsClient publishing under the
// given namespace.
func NewMetricsClient(cfg aws.Config, namespace string) *MetricsClient {
	return &MetricsClient{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
	}
}

// PutCycleMetrics publishes one datapoint per cycle counter, stamped
// with the cycle start time.
func (c *MetricsClient) PutCycleMetrics(ctx context.Context, report models.CycleReport) error {
	ts := report.StartTime

	data := []cwtypes.MetricDatum{
		datum("ProfilesReconciled", float64(report.Profiles-report.FailedProfiles), ts),
		datum("ProfilesFailed", float64(report.FailedProfiles), ts),
		datum("InstancesSeen", float64(report.Seen), ts),
		datum("InstancesStarted", float64(report.Started), ts),
		datum("InstancesStopped", float64(report.Stopped), ts),
		datum("InstancesSkipped", float64(report.Skipped), ts),
		datum("HealthChecksRefreshed", float64(report.Refreshed), ts),
		datum("Errors", float64(report.Errors), ts),
		{
			MetricName: aws.String("CycleDuration"),
			Value:      aws.Float64(report.Duration.Seconds()),
			Timestamp:  aws.Time(ts),
			Unit:       cwtypes.StandardUnitSeconds,
		},
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(c.namespace),
		MetricData: data,
	}

	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("error publishing cycle metrics: %w", err)
	}
	return nil
}

func datum(name string, value float64, ts time.Time) cwtypes.MetricDatum {
	return cwtypes.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Timestamp:  aws.Time(ts),
		Unit:       cwtypes.StandardUnitCount,
	}
}
