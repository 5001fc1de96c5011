package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"workhours/internal/models"
)

// TargetGroupClient wraps the ELBv2 target group API used for health
// check reregistration of ALB/NLB targets.
type TargetGroupClient struct {
	client *elbv2.Client
	region string
}

// NewTargetGroupClient creates a new TargetGroupClient from a resolved
// region config
func NewTargetGroupClient(cfg aws.Config, region string) *TargetGroupClient {
	return &TargetGroupClient{
		client: elbv2.NewFromConfig(cfg),
		region: region,
	}
}

// GetTargetGroup describes one target group with its currently
// registered targets.
func (c *TargetGroupClient) GetTargetGroup(ctx context.Context, arn string) (models.TargetGroup, error) {
	input := &elbv2.DescribeTargetHealthInput{
		TargetGroupArn: aws.String(arn),
	}

	result, err := c.client.DescribeTargetHealth(ctx, input)
	if err != nil {
		return models.TargetGroup{}, fmt.Errorf("error describing target health for %s: %w", arn, err)
	}

	tg := models.TargetGroup{
		ARN:    arn,
		Region: c.region,
	}
	for _, desc := range result.TargetHealthDescriptions {
		if desc.Target != nil {
			tg.TargetIDs = append(tg.TargetIDs, aws.ToString(desc.Target.Id))
		}
	}

	return tg, nil
}

// DeregisterTargets removes the targets from the target group.
func (c *TargetGroupClient) DeregisterTargets(ctx context.Context, arn string, targetIDs []string) error {
	input := &elbv2.DeregisterTargetsInput{
		TargetGroupArn: aws.String(arn),
		Targets:        toTargetDescriptions(targetIDs),
	}

	if _, err := c.client.DeregisterTargets(ctx, input); err != nil {
		return fmt.Errorf("error deregistering targets from %s: %w", arn, err)
	}
	return nil
}

// RegisterTargets adds the targets back to the target group.
func (c *TargetGroupClient) RegisterTargets(ctx context.Context, arn string, targetIDs []string) error {
	input := &elbv2.RegisterTargetsInput{
		TargetGroupArn: aws.String(arn),
		Targets:        toTargetDescriptions(targetIDs),
	}

	if _, err := c.client.RegisterTargets(ctx, input); err != nil {
		return fmt.Errorf("error registering targets with %s: %w", arn, err)
	}
	return nil
}

func toTargetDescriptions(targetIDs []string) []elbv2types.TargetDescription {
	targets := make([]elbv2types.TargetDescription, 0, len(targetIDs))
	for _, id := range targetIDs {
		targets = append(targets, elbv2types.TargetDescription{Id: aws.String(id)})
	}
	return targets
}
