package projection

import (
	"errors"
	"io"
	"log"
	"math"
	"testing"

	"portfolio-sim-lab/internal/domain"
)

func u64(v uint64) *uint64 { return &v }

func testRunner() *Runner {
	return NewRunner(RunnerOptions{Logger: log.New(io.Discard, "", 0)})
}

func basePlan() LifePlan {
	return LifePlan{
		CurrentAge:          35,
		RetirementAge:       65,
		EndAge:              95,
		InitialAssets:       5_000_000,
		MonthlyContribution: 100_000,
		MonthlyExpense:      250_000,
		AnnualInflation:     0.01,
		ExpectedReturn:      0.05,
		Volatility:          0.12,
		NumPaths:            400,
		Seed:                u64(99),
	}
}

func TestRunMonteCarlo_ShapeAndAges(t *testing.T) {
	runner := testRunner()
	proj, err := runner.RunMonteCarlo(basePlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(proj.Ages) != 61 {
		t.Fatalf("expected 61 ages, got %d", len(proj.Ages))
	}
	if proj.Ages[0] != 35 || proj.Ages[60] != 95 {
		t.Errorf("age range wrong: %d..%d", proj.Ages[0], proj.Ages[60])
	}
	for _, q := range domain.SummaryQuantiles {
		if len(proj.Bands[q]) != 61 {
			t.Errorf("band %d: expected 61 points, got %d", q, len(proj.Bands[q]))
		}
		if proj.Bands[q][0] != 5_000_000 {
			t.Errorf("band %d: expected initial assets at age 35, got %f", q, proj.Bands[q][0])
		}
	}
}

func TestRunMonteCarlo_Reproducible(t *testing.T) {
	runner := testRunner()
	a, err := runner.RunMonteCarlo(basePlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := runner.RunMonteCarlo(basePlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, q := range domain.SummaryQuantiles {
		for y := range a.Bands[q] {
			if a.Bands[q][y] != b.Bands[q][y] {
				t.Fatalf("band %d year %d differs across runs", q, y)
			}
		}
	}
}

func TestRunMonteCarlo_InvalidAges(t *testing.T) {
	runner := testRunner()
	plan := basePlan()
	plan.EndAge = plan.CurrentAge
	if _, err := runner.RunMonteCarlo(plan); !errors.Is(err, ErrBadAges) {
		t.Errorf("expected ErrBadAges, got %v", err)
	}
}

func TestRunMonteCarlo_DepletionAgeOnUnderfundedPlan(t *testing.T) {
	runner := testRunner()
	plan := basePlan()
	plan.InitialAssets = 1_000_000
	plan.MonthlyContribution = 0
	plan.RetirementAge = 35 // retired now, spending from day one
	plan.MonthlyExpense = 300_000
	plan.Volatility = 0.05

	proj, err := runner.RunMonteCarlo(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Summary.DepletionProbability != 1 {
		t.Errorf("expected certain depletion, got %f", proj.Summary.DepletionProbability)
	}
	if proj.DepletionAge == nil {
		t.Fatal("expected a depletion age")
	}
	if *proj.DepletionAge < 35 || *proj.DepletionAge > 37 {
		t.Errorf("depletion age implausible: %d", *proj.DepletionAge)
	}
}

func TestRunDeterministic_MatchesClosedForm(t *testing.T) {
	runner := testRunner()
	plan := LifePlan{
		CurrentAge:     40,
		RetirementAge:  41,
		EndAge:         41,
		InitialAssets:  1_000_000,
		ExpectedReturn: 0.05,
	}

	proj, err := runner.RunDeterministic(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One year at 5% drift, no cash flows: exactly e^0.05.
	want := 1_000_000 * math.Exp(0.05)
	if math.Abs(proj.FinalValue-want) > 1e-6 {
		t.Errorf("expected %f, got %f", want, proj.FinalValue)
	}
	if len(proj.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(proj.Points))
	}
	if proj.Points[0].Age != 40 || proj.Points[1].Age != 41 {
		t.Errorf("ages wrong: %+v", proj.Points)
	}
}

func TestRunDeterministic_ContributionsGrowAssets(t *testing.T) {
	runner := testRunner()
	plan := basePlan()
	plan.Volatility = 0 // irrelevant for deterministic but keep explicit

	proj, err := runner.RunDeterministic(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Assets at retirement should exceed initial: 30 years of growth plus
	// contributions.
	atRetirement := proj.Points[30].Value
	if atRetirement <= plan.InitialAssets {
		t.Errorf("expected growth by retirement, got %f", atRetirement)
	}
}

func TestRunDeterministic_DepletionWarning(t *testing.T) {
	runner := testRunner()
	plan := LifePlan{
		CurrentAge:     70,
		RetirementAge:  65, // already retired
		EndAge:         100,
		InitialAssets:  2_000_000,
		MonthlyExpense: 300_000,
		ExpectedReturn: 0.01,
	}

	proj, err := runner.RunDeterministic(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.DepletionAge == nil {
		t.Fatal("expected depletion")
	}
	if *proj.DepletionAge != 70 {
		t.Errorf("expected depletion at 70, got %d", *proj.DepletionAge)
	}
	if len(proj.Warnings) == 0 {
		t.Error("expected warnings for depleting plan")
	}
}

func TestRetirementStep_AlreadyRetired(t *testing.T) {
	plan := LifePlan{CurrentAge: 70, RetirementAge: 65, EndAge: 90}
	if got := plan.retirementStep(); got != 0 {
		t.Errorf("expected step 0 for already-retired plan, got %d", got)
	}
}
