package simulate

import (
	"math"

	"portfolio-sim-lab/internal/domain"
)

// FixedContribution returns a cash flow that adds amount every step.
func FixedContribution(amount float64) domain.CashFlowFunc {
	return func(step int) float64 { return amount }
}

// FixedWithdrawal returns a cash flow that removes amount every step.
func FixedWithdrawal(amount float64) domain.CashFlowFunc {
	return func(step int) float64 { return -amount }
}

// RetirementSchedule models the accumulation-then-drawdown cash flow of a
// life plan on a monthly grid: contribute until RetirementStep (inclusive),
// then withdraw living expenses that grow with inflation.
type RetirementSchedule struct {
	MonthlyContribution float64
	RetirementStep      int // last contributing step; <= 0 means retired from the start
	MonthlyExpense      float64
	MonthlyInflation    float64
}

// CashFlow returns the schedule as a CashFlowFunc.
func (s RetirementSchedule) CashFlow() domain.CashFlowFunc {
	return func(step int) float64 {
		if step <= s.RetirementStep {
			return s.MonthlyContribution
		}
		monthsRetired := step - s.RetirementStep
		if s.MonthlyInflation == 0 {
			return -s.MonthlyExpense
		}
		return -s.MonthlyExpense * math.Pow(1+s.MonthlyInflation, float64(monthsRetired))
	}
}
