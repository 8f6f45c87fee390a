package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/portfolio"
	"portfolio-sim-lab/internal/projection"
	"portfolio-sim-lab/internal/reporting"
	"portfolio-sim-lab/internal/simulate"
	"portfolio-sim-lab/internal/stress"
)

func main() {
	// Parse flags
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	holdingsPath := flag.String("holdings", "", "Path to a JSON file with current holdings")
	owner := flag.String("owner", "", "Report owner name")

	currentAge := flag.Int("current-age", 35, "Current age in years")
	retirementAge := flag.Int("retirement-age", 65, "Planned retirement age")
	endAge := flag.Int("end-age", 95, "Projection end age")
	initialAssets := flag.Float64("initial-assets", 10_000_000, "Initial investable assets")
	monthlyContribution := flag.Float64("monthly-contribution", 100_000, "Monthly contribution while working")
	monthlyExpense := flag.Float64("monthly-expense", 250_000, "Monthly expense after retirement")
	annualInflation := flag.Float64("inflation", 0.01, "Annual inflation applied to retirement expenses")
	expectedReturn := flag.Float64("return", 0.05, "Expected annual return")
	volatility := flag.Float64("volatility", 0.12, "Annual volatility")
	numPaths := flag.Int("paths", projection.DefaultNumPaths, "Number of Monte Carlo paths")
	seed := flag.Uint64("seed", 0, "Random seed (0 = time-based)")
	verbose := flag.Bool("verbose", false, "Log projection progress")

	flag.Parse()

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "[simulate] ", log.LstdFlags)

	plan := projection.LifePlan{
		CurrentAge:          *currentAge,
		RetirementAge:       *retirementAge,
		EndAge:              *endAge,
		InitialAssets:       *initialAssets,
		MonthlyContribution: *monthlyContribution,
		MonthlyExpense:      *monthlyExpense,
		AnnualInflation:     *annualInflation,
		ExpectedReturn:      *expectedReturn,
		Volatility:          *volatility,
		NumPaths:            *numPaths,
	}
	if *seed != 0 {
		plan.Seed = seed
	}

	holdings, err := loadHoldings(*holdingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		os.Exit(1)
	}

	runner := projection.NewRunner(projection.RunnerOptions{
		Engine: simulate.NewEngine(simulate.EngineOptions{}),
		Logger: logger,
	})

	proj, err := runner.RunMonteCarlo(plan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running projection: %v\n", err)
		os.Exit(1)
	}

	agg := portfolio.Aggregate(holdings, domain.DefaultRiskFreeRate)
	stressResults := stress.ApplyAll(holdings)

	report := reporting.NewGenerator().Generate(*owner, plan, proj, agg, stressResults)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*outputDir, "PROJECTION_REPORT.md")
	csvPath := filepath.Join(*outputDir, "PROJECTION_BANDS.csv")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Projection)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Projection report generated successfully:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
	if proj.DepletionAge != nil {
		fmt.Printf("Warning: median path depletes at age %d\n", *proj.DepletionAge)
	}
}

// loadHoldings reads holdings from a JSON file. An empty path yields a demo
// portfolio so the report still exercises every section.
func loadHoldings(path string) ([]domain.Holding, error) {
	if path == "" {
		return demoHoldings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holdings file: %w", err)
	}
	var holdings []domain.Holding
	if err := json.Unmarshal(data, &holdings); err != nil {
		return nil, fmt.Errorf("parse holdings file: %w", err)
	}
	return holdings, nil
}

// demoHoldings is a plausible balanced portfolio for fixture-free runs.
func demoHoldings() []domain.Holding {
	return []domain.Holding{
		{Ticker: "slim_sp500", Name: "S&P 500 Index", AssetClass: domain.AssetForeignStock, Value: 4_000_000},
		{Ticker: "slim_topix", Name: "TOPIX Index", AssetClass: domain.AssetDomesticStock, Value: 2_000_000},
		{Ticker: "slim_domestic_bond", Name: "Domestic Bond Index", AssetClass: domain.AssetDomesticBond, Value: 3_000_000},
		{Ticker: "slim_em_stock", Name: "Emerging Markets Index", AssetClass: domain.AssetEmergingStock, Value: 1_000_000},
	}
}
