package utils

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStateTransitionTime(t *testing.T) {
	parsed := ParseStateTransitionTime("User initiated (2023-04-01 12:34:56 GMT)")
	require.NotNil(t, parsed)
	assert.Equal(t, 2023, parsed.Year())
	assert.Equal(t, time.April, parsed.Month())
	assert.Equal(t, 12, parsed.Hour())

	assert.Nil(t, ParseStateTransitionTime(""))
	assert.Nil(t, ParseStateTransitionTime("User initiated"))
	assert.Nil(t, ParseStateTransitionTime("User initiated (yesterday)"))
}

func TestGetName(t *testing.T) {
	tags := []types.Tag{
		{Key: aws.String("env"), Value: aws.String("dev")},
		{Key: aws.String("Name"), Value: aws.String("batch-3")},
	}

	assert.Equal(t, "batch-3", GetName(tags))
	assert.Equal(t, "dev", GetTagValue(tags, "env"))
	assert.Empty(t, GetName(nil))
}

func TestSafeDeref(t *testing.T) {
	assert.Empty(t, SafeDeref(nil))
	assert.Equal(t, "i-123", SafeDeref(aws.String("i-123")))
}

func TestIsValidRegion(t *testing.T) {
	assert.True(t, IsValidRegion("us-east-1"))
	assert.True(t, IsValidRegion("ap-northeast-2"))
	assert.False(t, IsValidRegion("mars-north-1"))
	assert.False(t, IsValidRegion(""))
}
