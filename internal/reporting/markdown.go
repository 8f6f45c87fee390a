package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Wealth Projection Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.Owner != "" {
		sb.WriteString(fmt.Sprintf("Owner: %s\n\n", r.Owner))
	}

	// Plan Summary
	sb.WriteString("## Plan Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Current Age | %d |\n", r.PlanSummary.CurrentAge))
	sb.WriteString(fmt.Sprintf("| Retirement Age | %d |\n", r.PlanSummary.RetirementAge))
	sb.WriteString(fmt.Sprintf("| End Age | %d |\n", r.PlanSummary.EndAge))
	sb.WriteString(fmt.Sprintf("| Initial Assets | %.0f |\n", r.PlanSummary.InitialAssets))
	sb.WriteString(fmt.Sprintf("| Monthly Contribution | %.0f |\n", r.PlanSummary.MonthlyContribution))
	sb.WriteString(fmt.Sprintf("| Monthly Expense (retired) | %.0f |\n", r.PlanSummary.MonthlyExpense))
	sb.WriteString(fmt.Sprintf("| Simulated Paths | %d |\n", r.PlanSummary.NumPaths))
	sb.WriteString("\n")

	// Portfolio Summary
	sb.WriteString("## Portfolio\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Value | %.0f |\n", r.Portfolio.TotalValue))
	sb.WriteString(fmt.Sprintf("| Expected Return | %.2f%% |\n", r.Portfolio.ExpectedReturn*100))
	sb.WriteString(fmt.Sprintf("| Volatility | %.2f%% |\n", r.Portfolio.Volatility*100))
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.3f |\n", r.Portfolio.SharpeRatio))
	sb.WriteString("\n")

	// Projection
	sb.WriteString("## Projection\n\n")
	if len(r.Projection) > 0 {
		sb.WriteString("| Age | P5 | P25 | Median | P75 | P95 |\n")
		sb.WriteString("|-----|-----|-----|--------|-----|-----|\n")
		for _, row := range r.Projection {
			sb.WriteString(fmt.Sprintf("| %d | %.0f | %.0f | %.0f | %.0f | %.0f |\n",
				row.Age, row.P5, row.P25, row.P50, row.P75, row.P95))
		}
	} else {
		sb.WriteString("No projection available.\n")
	}
	sb.WriteString("\n")

	// Risk
	sb.WriteString("## Risk\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Expected Final Value | %.0f |\n", r.Risk.ExpectedFinalValue))
	sb.WriteString(fmt.Sprintf("| Probability of Loss | %.1f%% |\n", r.Risk.ProbabilityOfLoss*100))
	sb.WriteString(fmt.Sprintf("| VaR (95%%) | %.2f%% |\n", r.Risk.VaR95*100))
	sb.WriteString(fmt.Sprintf("| CVaR (95%%) | %.2f%% |\n", r.Risk.CVaR95*100))
	sb.WriteString(fmt.Sprintf("| Depletion Probability | %.1f%% |\n", r.Risk.DepletionProbability*100))
	if r.Risk.DepletionAge != nil {
		sb.WriteString(fmt.Sprintf("| Depletion Age | %d |\n", *r.Risk.DepletionAge))
	}
	sb.WriteString("\n")

	// Stress
	sb.WriteString("## Stress Scenarios\n\n")
	if len(r.Stress) > 0 {
		sb.WriteString("| Scenario | Period | Loss | Loss Amount |\n")
		sb.WriteString("|----------|--------|------|-------------|\n")
		for _, s := range r.Stress {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.1f%% | %.0f |\n",
				s.ScenarioName, s.Period, s.LossFraction*100, s.TotalLoss))
		}
	} else {
		sb.WriteString("No stress results available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
