package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"workhours/internal/models"
	"workhours/pkg/utils"
)

// EC2Client struct for EC2 client
type EC2Client struct {
	client *ec2.Client
	region string
}

// NewEC2Client creates a new EC2Client from a resolved region config
func NewEC2Client(cfg aws.Config, region string) *EC2Client {
	return &EC2Client{
		client: ec2.NewFromConfig(cfg),
		region: region,
	}
}

// FindInstancesByTag returns every instance whose Name tag matches one
// of the given values. Wildcard patterns are expanded server side by
// the tag filter.
func (c *EC2Client) FindInstancesByTag(ctx context.Context, tags []string) ([]models.Instance, error) {
	filter := types.Filter{
		Name:   aws.String("tag:Name"),
		Values: tags,
	}

	input := &ec2.DescribeInstancesInput{
		Filters: []types.Filter{filter},
	}

	instances := []models.Instance{}

	paginator := ec2.NewDescribeInstancesPaginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EC2 instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				instances = append(instances, toInstance(instance, c.region))
			}
		}
	}

	return instances, nil
}

// StartInstance requests a start for the instance. The call returns as
// soon as the transition is accepted; it does not wait for running.
func (c *EC2Client) StartInstance(ctx context.Context, instanceID string) error {
	input := &ec2.StartInstancesInput{
		InstanceIds: []string{instanceID},
	}

	if _, err := c.client.StartInstances(ctx, input); err != nil {
		return fmt.Errorf("error starting instance %s: %w", instanceID, err)
	}
	return nil
}

// StopInstance requests a stop for the instance. Like StartInstance it
// does not wait for the transition to finish.
func (c *EC2Client) StopInstance(ctx context.Context, instanceID string) error {
	input := &ec2.StopInstancesInput{
		InstanceIds: []string{instanceID},
	}

	if _, err := c.client.StopInstances(ctx, input); err != nil {
		return fmt.Errorf("error stopping instance %s: %w", instanceID, err)
	}
	return nil
}

func toInstance(instance types.Instance, region string) models.Instance {
	var stateName string
	if instance.State != nil {
		stateName = string(instance.State.Name)
	}

	var az string
	if instance.Placement != nil {
		az = utils.SafeDeref(instance.Placement.AvailabilityZone)
	}

	m := models.Instance{
		InstanceID:       utils.SafeDeref(instance.InstanceId),
		Name:             utils.GetName(instance.Tags),
		InstanceType:     string(instance.InstanceType),
		Region:           region,
		AvailabilityZone: az,
		State:            powerStateOf(stateName),
		RawState:         stateName,
	}

	if instance.LaunchTime != nil {
		m.LaunchTime = *instance.LaunchTime
	}

	// Stop time only survives in the state transition reason string
	if instance.StateTransitionReason != nil && len(*instance.StateTransitionReason) > 0 {
		m.StoppedTime = utils.ParseStateTransitionTime(*instance.StateTransitionReason)
	}

	return m
}

func powerStateOf(stateName string) models.PowerState {
	switch types.InstanceStateName(stateName) {
	case types.InstanceStateNameRunning:
		return models.PowerRunning
	case types.InstanceStateNameStopped:
		return models.PowerStopped
	default:
		return models.PowerOther
	}
}
