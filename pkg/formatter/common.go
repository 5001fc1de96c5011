package formatter

import (
	"fmt"
	"time"
)

// printTimestamp prints the plan timestamp and duration
func printTimestamp(planStartTime time.Time, planDuration time.Duration) {
	// Format the plan time
	timeStr := planStartTime.Format("2006-01-02 15:04:05")

	// Format the duration
	durationStr := fmt.Sprintf("%.2fs", planDuration.Seconds())

	fmt.Printf("Plan computed at %s (took %s)\n", timeStr, durationStr)
}

// getInstanceName returns a formatted instance name or <unnamed> if empty
func getInstanceName(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}

// GetPricingMarker returns a suitable marker for the pricing source
func GetPricingMarker(source string) string {
	switch source {
	case "API":
		return "API"
	case "Cache":
		return "CACHE"
	case "N/A":
		return "N/A"
	default:
		return "-"
	}
}
