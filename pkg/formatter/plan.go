package formatter

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"workhours/internal/models"
	"workhours/pkg/pricing"
)

// PrintPlanTable prints what a reconcile cycle would do, one row per
// instance, without any transitions having been issued.
func PrintPlanTable(reports []models.ProfileReport, planStartTime time.Time, planDuration time.Duration) {
	total := 0
	for _, r := range reports {
		total += len(r.Decisions)
	}
	if total == 0 {
		fmt.Println("No instances matched any profile.")
		return
	}

	printTimestamp(planStartTime, planDuration)

	// kubectl style tabwriter settings
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	// Print header
	fmt.Fprintln(w, "PROFILE\tINSTANCE ID\tNAME\tTYPE\tSTATE\tACTION\tSTOPPED SINCE\tCOST/MO\tSAVINGS/MO\tPRICING")

	var totalCost, totalSavings float64

	for _, r := range reports {
		for _, d := range r.Decisions {
			inst := d.Instance

			// Format the stopped time as a relative age
			stoppedStr := "-"
			if inst.StoppedTime != nil {
				stoppedStr = humanize.Time(*inst.StoppedTime)
			}

			cost, source := pricing.CalculateMonthlyCostWithSource(inst.InstanceType, r.Region)
			savings, _ := pricing.CalculateScheduleSavingsWithSource(inst.InstanceType, r.Region, r.WeeklyOffHours)

			// Format the monthly cost and savings with 2 decimal places
			var costStr, savingsStr string
			if source == string(pricing.PricingSourceNA) {
				costStr = "N/A"
				savingsStr = "N/A"
			} else {
				costStr = fmt.Sprintf("$%.2f", cost)
				savingsStr = fmt.Sprintf("$%.2f", savings)
				totalCost += cost
				totalSavings += savings
			}

			// Print row
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Profile,
				inst.InstanceID,
				getInstanceName(inst.Name),
				inst.InstanceType,
				inst.RawState,
				string(d.Action),
				stoppedStr,
				costStr,
				savingsStr,
				GetPricingMarker(source),
			)
		}
	}

	// Print totals without separator
	fmt.Fprintf(w, "Total:\t\t\t\t\t\t%d\t$%.2f\t$%.2f\n",
		total,
		totalCost,
		totalSavings,
	)

	w.Flush()
}

// PrintPlanSummary prints per-profile totals for the simulated cycle.
func PrintPlanSummary(reports []models.ProfileReport) {
	if len(reports) == 0 {
		return
	}

	fmt.Println("\n## Profile Summary")

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	// Print header
	fmt.Fprintln(w, "PROFILE\tREGION\tSEEN\tSTART\tSTOP\tUNCHANGED\tSKIPPED\tELBS\tTARGET GROUPS\tOFF HRS/WK\tERRORS")

	// Print rows
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Profile,
			r.Region,
			r.Seen,
			r.Started,
			r.Stopped,
			r.Unchanged,
			r.Skipped,
			r.Refresh.LoadBalancers,
			r.Refresh.TargetGroups,
			r.WeeklyOffHours,
			len(r.Errors)+len(r.Refresh.Errors),
		)
	}

	w.Flush()
}
