package main

import (
	"context"
	"fmt"

	"github.com/kikitori/kikitori/internal/formatter"
	"github.com/urfave/cli/v3"
)

// AdminStats shows service-wide usage and revenue statistics.
//
// Authorization is enforced by the backend; a non-admin caller gets a 403
// which surfaces as a normal forbidden error here.
func (r *Runner) AdminStats(ctx context.Context, cmd *cli.Command) error {
	stats, err := r.admin.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlain("Users: %d (%d active)\n", stats.TotalUsers, stats.ActiveUsers)
	r.writePlain("Transcriptions: %d (%.1f hours)\n", stats.TotalTranscriptions, stats.TotalHoursProcessed)
	r.writePlain("This month: ¥%d revenue, ¥%.0f cost, ¥%.0f profit\n",
		stats.MonthlyRevenue, stats.MonthlyCost, stats.MonthlyProfit)
	r.writePlain("GPU hours: %.1f (avg ratio %.2f)\n", stats.TotalGPUHours, stats.AverageProcessingRatio)

	if len(stats.PlanStats) > 0 {
		rows := make([][]string, 0, len(stats.PlanStats))
		for _, plan := range stats.PlanStats {
			rows = append(rows, []string{
				formatter.FormatPlanType(plan.PlanType),
				fmt.Sprintf("%d", plan.UserCount),
				fmt.Sprintf("¥%d", plan.TotalRevenue),
			})
		}
		r.writePlainln("%s", renderTable(
			[]string{"PLAN", "USERS", "REVENUE"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight},
		))
	}

	if len(stats.MonthlyHistory) > 0 {
		rows := make([][]string, 0, len(stats.MonthlyHistory))
		for _, month := range stats.MonthlyHistory {
			rows = append(rows, []string{
				month.Month,
				fmt.Sprintf("%d", month.UserCount),
				fmt.Sprintf("%d", month.TranscriptionCount),
				fmt.Sprintf("¥%d", month.TotalRevenue),
				fmt.Sprintf("¥%.0f", month.TotalCost),
			})
		}
		r.writePlainln("%s", renderTable(
			[]string{"MONTH", "USERS", "JOBS", "REVENUE", "COST"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
		))
	}

	return nil
}
