package reporting

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/portfolio"
	"portfolio-sim-lab/internal/projection"
	"portfolio-sim-lab/internal/stress"
)

func u64(v uint64) *uint64 { return &v }

func buildReport(t *testing.T) *Report {
	t.Helper()

	plan := projection.LifePlan{
		CurrentAge:          40,
		RetirementAge:       65,
		EndAge:              90,
		InitialAssets:       10_000_000,
		MonthlyContribution: 100_000,
		MonthlyExpense:      250_000,
		ExpectedReturn:      0.05,
		Volatility:          0.12,
		NumPaths:            200,
		Seed:                u64(1),
	}
	runner := projection.NewRunner(projection.RunnerOptions{Logger: log.New(io.Discard, "", 0)})
	proj, err := runner.RunMonteCarlo(plan)
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}

	holdings := []domain.Holding{
		{Ticker: "slim_sp500", AssetClass: domain.AssetForeignStock, Value: 6_000_000},
		{Ticker: "slim_domestic_bond", AssetClass: domain.AssetDomesticBond, Value: 4_000_000},
	}
	agg := portfolio.Aggregate(holdings, domain.DefaultRiskFreeRate)
	stressResults := stress.ApplyAll(holdings)

	gen := NewGenerator().WithClock(func() time.Time {
		return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	})
	return gen.Generate("alice", plan, proj, agg, stressResults)
}

func TestGenerate_PopulatesAllSections(t *testing.T) {
	r := buildReport(t)

	if r.Owner != "alice" {
		t.Errorf("expected owner alice, got %s", r.Owner)
	}
	if !r.GeneratedAt.Equal(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("clock not applied: %v", r.GeneratedAt)
	}
	if len(r.Projection) != 51 {
		t.Errorf("expected 51 projection rows, got %d", len(r.Projection))
	}
	if r.Projection[0].Age != 40 || r.Projection[50].Age != 90 {
		t.Errorf("age range wrong: %d..%d", r.Projection[0].Age, r.Projection[50].Age)
	}
	if r.Portfolio.TotalValue != 10_000_000 {
		t.Errorf("expected total 10000000, got %f", r.Portfolio.TotalValue)
	}
	if len(r.Stress) != len(domain.Scenarios()) {
		t.Errorf("expected %d stress rows, got %d", len(domain.Scenarios()), len(r.Stress))
	}
}

func TestGenerate_ProjectionRowsOrdered(t *testing.T) {
	r := buildReport(t)
	for _, row := range r.Projection {
		if row.P5 > row.P25 || row.P25 > row.P50 || row.P50 > row.P75 || row.P75 > row.P95 {
			t.Fatalf("age %d: percentile row out of order: %+v", row.Age, row)
		}
	}
}

func TestRenderMarkdown_ContainsSections(t *testing.T) {
	r := buildReport(t)
	md := RenderMarkdown(r)

	for _, section := range []string{
		"# Wealth Projection Report",
		"## Plan Summary",
		"## Portfolio",
		"## Projection",
		"## Risk",
		"## Stress Scenarios",
		"Owner: alice",
		"Generated: 2026-01-15T12:00:00Z",
	} {
		if !strings.Contains(md, section) {
			t.Errorf("markdown missing %q", section)
		}
	}
}

func TestRenderMarkdown_EmptyReport(t *testing.T) {
	md := RenderMarkdown(&Report{GeneratedAt: time.Unix(0, 0).UTC()})
	if !strings.Contains(md, "No projection available.") {
		t.Error("expected empty projection notice")
	}
	if !strings.Contains(md, "No stress results available.") {
		t.Error("expected empty stress notice")
	}
}

func TestRenderCSV_HeaderAndRows(t *testing.T) {
	rows := []ProjectionRow{
		{Age: 40, P5: 1, P25: 2, P50: 3, P75: 4, P95: 5},
		{Age: 41, P5: 6, P25: 7, P50: 8, P75: 9, P95: 10},
	}
	csv := RenderCSV(rows)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "age,p5,p25,p50,p75,p95" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "40,1.00,2.00,3.00,4.00,5.00" {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestRenderCSV_Empty(t *testing.T) {
	csv := RenderCSV(nil)
	if strings.TrimSpace(csv) != "age,p5,p25,p50,p75,p95" {
		t.Errorf("expected header only, got %q", csv)
	}
}
