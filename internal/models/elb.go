package models

// LoadBalancer holds the classic ELB attributes used during health
// check reregistration.
type LoadBalancer struct {
	Name        string
	Region      string
	InstanceIDs []string // instances currently registered
}

// TargetGroup holds the ELBv2 target group attributes used during
// health check reregistration.
type TargetGroup struct {
	ARN       string
	Region    string
	TargetIDs []string // targets currently registered
}
