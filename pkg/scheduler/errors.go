package scheduler

import (
	"errors"

	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing/types"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/smithy-go"
)

// The engine keeps cycling through resources when a single one
// misbehaves, which requires telling expected API failures (stale
// names in a schedule, instances that raced a transition) apart from
// transport or auth problems. Only the former are classified here;
// everything else is surfaced and counted.

// IsNotFound reports whether err means the referenced load balancer,
// target group or instance does not exist.
func IsNotFound(err error) bool {
	var lbNotFound *elbtypes.AccessPointNotFoundException
	if errors.As(err, &lbNotFound) {
		return true
	}
	var tgNotFound *elbv2types.TargetGroupNotFoundException
	if errors.As(err, &tgNotFound) {
		return true
	}

	switch apiErrorCode(err) {
	case "LoadBalancerNotFound", "TargetGroupNotFound", "InvalidInstanceID.NotFound":
		return true
	}
	return false
}

// IsInvalidTarget reports whether err means an instance or target was
// not registered or not in a registrable state. Deregistering an
// already empty load balancer lands here.
func IsInvalidTarget(err error) bool {
	var invalidEndpoint *elbtypes.InvalidEndPointException
	if errors.As(err, &invalidEndpoint) {
		return true
	}
	var invalidTarget *elbv2types.InvalidTargetException
	if errors.As(err, &invalidTarget) {
		return true
	}

	return apiErrorCode(err) == "InvalidInstance"
}

// IsIncorrectState reports whether err means a start or stop raced
// with another transition of the same instance.
func IsIncorrectState(err error) bool {
	return apiErrorCode(err) == "IncorrectInstanceState"
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
