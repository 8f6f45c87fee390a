// Package main provides the simulation API server:
// - Monte Carlo and deterministic wealth projections
// - Portfolio aggregation, frontier, and rebalancing endpoints
// - Crisis stress testing
// - Portfolio snapshot persistence
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"portfolio-sim-lab/internal/observability"
	"portfolio-sim-lab/internal/projection"
	"portfolio-sim-lab/internal/simulate"
	"portfolio-sim-lab/internal/storage"
	chstore "portfolio-sim-lab/internal/storage/clickhouse"
	"portfolio-sim-lab/internal/storage/memory"
	"portfolio-sim-lab/internal/storage/migrations"
	pgstore "portfolio-sim-lab/internal/storage/postgres"
)

// Server holds all components of the API service.
type Server struct {
	// Configuration
	postgresDSN   string
	clickhouseDSN string
	useMemory     bool

	// Stores
	snapshotStore  storage.PortfolioSnapshotStore
	fundPriceStore storage.FundPriceStore

	// Components
	engine *simulate.Engine
	runner *projection.Runner
	logger *log.Logger

	// State
	mu             sync.Mutex
	startedAt      time.Time
	simulationsRun int
	stressRuns     int
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of databases")
	maxPaths := flag.Int("max-paths", simulate.DefaultMaxPaths, "Maximum paths per simulation request")
	maxSteps := flag.Int("max-steps", simulate.DefaultMaxSteps, "Maximum steps per simulation request")
	workers := flag.Int("workers", 0, "Simulation worker goroutines (0 = GOMAXPROCS)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())

	snapshotStore, fundPriceStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	engine := simulate.NewEngine(simulate.EngineOptions{
		MaxPaths: *maxPaths,
		MaxSteps: *maxSteps,
		Workers:  *workers,
	})

	server := &Server{
		postgresDSN:    *postgresDSN,
		clickhouseDSN:  *clickhouseDSN,
		useMemory:      *useMemory,
		snapshotStore:  snapshotStore,
		fundPriceStore: fundPriceStore,
		engine:         engine,
		runner: projection.NewRunner(projection.RunnerOptions{
			Engine: engine,
			Logger: log.New(os.Stdout, "[projection] ", log.LstdFlags),
		}),
		logger:    logger,
		startedAt: time.Now(),
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.routes(),
	}

	// Uptime counter
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.DefaultMetrics.UptimeSeconds.Inc()
			}
		}
	}()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-shutdownCtx.Done():
		}
	}()

	logger.Printf("Starting HTTP server on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	// Simulation
	mux.HandleFunc("/api/v1/simulate", s.handleSimulate)
	mux.HandleFunc("/api/v1/simulate/deterministic", s.handleSimulateDeterministic)
	mux.HandleFunc("/api/v1/simulate/stream", s.handleSimulateStream)

	// Portfolio
	mux.HandleFunc("/api/v1/portfolio/metrics", s.handlePortfolioMetrics)
	mux.HandleFunc("/api/v1/portfolio/frontier", s.handleFrontier)
	mux.HandleFunc("/api/v1/portfolio/rebalance", s.handleRebalance)
	mux.HandleFunc("/api/v1/portfolio/compare", s.handleCompare)

	// Stress testing
	mux.HandleFunc("/api/v1/stress", s.handleStress)
	mux.HandleFunc("/api/v1/stress/scenarios", s.handleStressScenarios)

	// Funds
	mux.HandleFunc("/api/v1/funds", s.handleFunds)
	mux.HandleFunc("/api/v1/funds/", s.handleFundByID)

	// Snapshots
	mux.HandleFunc("/api/v1/snapshots", s.handleSnapshots)
	mux.HandleFunc("/api/v1/snapshots/", s.handleSnapshotByID)

	return withRequestMetrics(mux)
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack forwards to the underlying writer so WebSocket upgrades still work.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// withRequestMetrics records request counts and latency per path.
func withRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		observability.RecordHTTPRequest(r.URL.Path, fmt.Sprintf("%d", rec.status), time.Since(start).Seconds())
	})
}

// createStores creates the snapshot and fund price stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (storage.PortfolioSnapshotStore, storage.FundPriceStore, func(), error) {
	if useMemory {
		return memory.NewSnapshotStore(), memory.NewFundPriceStore(), func() {}, nil
	}

	// PostgreSQL (snapshots)
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	// ClickHouse (fund NAV history)
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return pgstore.NewSnapshotStore(pool), chstore.NewFundPriceStore(chConn), cleanup, nil
}

// envOr returns the env var value or a default.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
