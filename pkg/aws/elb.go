package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elb "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing/types"

	"workhours/internal/models"
)

// ELBClient wraps the classic Elastic Load Balancing API used for
// health check reregistration.
type ELBClient struct {
	client *elb.Client
	region string
}

// NewELBClient creates a new ELBClient from a resolved region config
func NewELBClient(cfg aws.Config, region string) *ELBClient {
	return &ELBClient{
		client: elb.NewFromConfig(cfg),
		region: region,
	}
}

// GetLoadBalancers describes the named classic load balancers along
// with their currently registered instances.
func (c *ELBClient) GetLoadBalancers(ctx context.Context, names []string) ([]models.LoadBalancer, error) {
	input := &elb.DescribeLoadBalancersInput{
		LoadBalancerNames: names,
	}

	result, err := c.client.DescribeLoadBalancers(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("error describing load balancers: %w", err)
	}

	lbs := make([]models.LoadBalancer, 0, len(result.LoadBalancerDescriptions))
	for _, desc := range result.LoadBalancerDescriptions {
		lb := models.LoadBalancer{
			Name:   aws.ToString(desc.LoadBalancerName),
			Region: c.region,
		}
		for _, instance := range desc.Instances {
			lb.InstanceIDs = append(lb.InstanceIDs, aws.ToString(instance.InstanceId))
		}
		lbs = append(lbs, lb)
	}

	return lbs, nil
}

// DeregisterInstances removes the instances from the load balancer.
func (c *ELBClient) DeregisterInstances(ctx context.Context, name string, instanceIDs []string) error {
	input := &elb.DeregisterInstancesFromLoadBalancerInput{
		LoadBalancerName: aws.String(name),
		Instances:        toELBInstances(instanceIDs),
	}

	if _, err := c.client.DeregisterInstancesFromLoadBalancer(ctx, input); err != nil {
		return fmt.Errorf("error deregistering instances from %s: %w", name, err)
	}
	return nil
}

// RegisterInstances adds the instances back to the load balancer,
// which restarts health checking from scratch.
func (c *ELBClient) RegisterInstances(ctx context.Context, name string, instanceIDs []string) error {
	input := &elb.RegisterInstancesWithLoadBalancerInput{
		LoadBalancerName: aws.String(name),
		Instances:        toELBInstances(instanceIDs),
	}

	if _, err := c.client.RegisterInstancesWithLoadBalancer(ctx, input); err != nil {
		return fmt.Errorf("error registering instances with %s: %w", name, err)
	}
	return nil
}

func toELBInstances(instanceIDs []string) []elbtypes.Instance {
	instances := make([]elbtypes.Instance, 0, len(instanceIDs))
	for _, id := range instanceIDs {
		instances = append(instances, elbtypes.Instance{InstanceId: aws.String(id)})
	}
	return instances
}
