// Package main provides the attribution server:
// - API (continuous): attribution computed on demand for dashboards
// - Ingestion (optional, continuous): WebSocket decision feed into storage
// - Observability: health and Prometheus metrics
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trade-attribution-lab/internal/attribution"
	"trade-attribution-lab/internal/domain"
	"trade-attribution-lab/internal/ingestion"
	"trade-attribution-lab/internal/normalization"
	"trade-attribution-lab/internal/observability"
	"trade-attribution-lab/internal/storage"
	chstore "trade-attribution-lab/internal/storage/clickhouse"
	"trade-attribution-lab/internal/storage/memory"
	"trade-attribution-lab/internal/storage/migrations"
	pgstore "trade-attribution-lab/internal/storage/postgres"
)

// Server holds all components of the attribution service.
type Server struct {
	decisionStore storage.DecisionStore
	returnStore   storage.DailyReturnStore
	metrics       *observability.Metrics
	logger        *log.Logger
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	apiAddr := flag.String("api-addr", envOr("API_ADDR", ":8080"), "API HTTP address")
	metricsAddr := flag.String("metrics-addr", envOr("METRICS_ADDR", ":9090"), "Prometheus metrics HTTP address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	feedEndpoint := flag.String("feed-endpoint", os.Getenv("DECISION_FEED_ENDPOINT"), "WebSocket decision feed endpoint (optional)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores
	decisionStore, returnStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		decisionStore: decisionStore,
		returnStore:   returnStore,
		metrics:       observability.NewMetrics(""),
		logger:        logger,
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start metrics server
	go server.startMetricsServer(*metricsAddr)

	// Start ingestion when a feed endpoint is configured
	if *feedEndpoint != "" {
		feedCfg := ingestion.DefaultWSConfig()
		feedCfg.OnReconnect = func() { server.metrics.FeedReconnects.Inc() }
		source, err := ingestion.NewWSDecisionSource(ctx, *feedEndpoint, &feedCfg, logger)
		if err != nil {
			logger.Fatalf("Failed to connect decision feed: %v", err)
		}
		defer source.Close()

		runner := ingestion.NewRunner(ingestion.RunnerOptions{
			Source:  source,
			Store:   decisionStore,
			Metrics: server.metrics,
			Logger:  logger,
		})
		go func() {
			if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Printf("Ingestion stopped: %v", err)
			}
		}()
		logger.Printf("Ingesting decision feed from %s", *feedEndpoint)
	}

	// Run the API server
	err = server.runAPI(ctx, *apiAddr)
	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates the decision and daily-return stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (storage.DecisionStore, storage.DailyReturnStore, func(), error) {
	if useMemory {
		return memory.NewDecisionStore(), memory.NewDailyReturnStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	conn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("clickhouse: %w", err)
	}
	if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
		pool.Close()
		conn.Close()
		return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	cleanup := func() {
		pool.Close()
		conn.Close()
	}
	return pgstore.NewDecisionStore(pool), chstore.NewDailyReturnStore(conn), cleanup, nil
}

// runAPI serves the attribution API until the context is canceled.
func (s *Server) runAPI(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/v1/attribution", s.handleAttribution)

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

// startMetricsServer serves health and Prometheus metrics.
func (s *Server) startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())

	s.logger.Printf("Starting metrics server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("Metrics server error: %v", err)
	}
}

// AttributionResponse is the JSON response for /api/v1/attribution.
type AttributionResponse struct {
	Ticker     string       `json:"ticker"`
	Strategy   string       `json:"strategy,omitempty"`
	AssetClass string       `json:"asset_class"`
	AsOf       string       `json:"as_of"`
	Periods    []PeriodJSON `json:"periods"`
	Daily      []DailyJSON  `json:"daily_classifications"`
	Summary    SummaryJSON  `json:"summary"`
}

// PeriodJSON is one filtered period in the response.
type PeriodJSON struct {
	Kind                string  `json:"kind"`
	Label               string  `json:"label"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	DurationDays        int     `json:"duration_days"`
	CumulativeReturnPct float64 `json:"cumulative_return_percent"`
	SampleCount         int     `json:"sample_count"`
}

// DailyJSON is one classified daily return in the response.
type DailyJSON struct {
	Date       string  `json:"date"`
	ReturnPct  float64 `json:"daily_return_percent"`
	PeriodKind string  `json:"period_kind"`
}

// SummaryJSON carries the aggregate counts.
type SummaryJSON struct {
	TotalDays    int `json:"total_days"`
	HeldDays     int `json:"held_days"`
	TotalPeriods int `json:"total_periods"`
	HeldPeriods  int `json:"held_periods"`
}

const dayLayout = "2006-01-02"

// handleAttribution computes attribution for one ticker on demand.
func (s *Server) handleAttribution(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	strategy := r.URL.Query().Get("strategy")
	class := domain.AssetClass(r.URL.Query().Get("asset_class"))
	asOfParam := r.URL.Query().Get("as_of")

	if ticker == "" {
		s.httpError(w, r, http.StatusBadRequest, "ticker is required")
		return
	}
	if class == "" {
		class = domain.AssetClassStocks
	}

	asOf := time.Now().UTC()
	if asOfParam != "" {
		parsed, err := normalization.ParseDate(asOfParam)
		if err != nil {
			s.httpError(w, r, http.StatusBadRequest, "unparsable as_of")
			return
		}
		asOf = parsed
	}

	ctx := r.Context()
	events, err := s.loadDecisions(ctx, ticker, strategy)
	if err != nil {
		s.logger.Printf("load decisions for %s: %v", ticker, err)
		s.httpError(w, r, http.StatusInternalServerError, "storage error")
		return
	}
	rows, err := s.returnStore.GetByTicker(ctx, class, ticker)
	if err != nil {
		s.logger.Printf("load returns for %s: %v", ticker, err)
		s.httpError(w, r, http.StatusInternalServerError, "storage error")
		return
	}

	in := attribution.Input{
		Ticker:     ticker,
		Strategy:   strategy,
		AssetClass: class,
		Decisions:  decisionRecords(events),
		Returns:    rows,
		AsOf:       asOf,
	}

	start := time.Now()
	result, err := attribution.Compute(in)
	if err != nil {
		if errors.Is(err, normalization.ErrInvalidInput) {
			s.metrics.AttributionErrors.WithLabelValues("invalid_input").Inc()
			s.httpError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.metrics.AttributionErrors.WithLabelValues("internal").Inc()
		s.logger.Printf("attribution for %s: %v", ticker, err)
		s.httpError(w, r, http.StatusInternalServerError, "attribution error")
		return
	}
	s.metrics.AttributionDuration.Observe(time.Since(start).Seconds())
	s.metrics.AttributionsComputed.WithLabelValues(string(class)).Inc()

	resp := buildResponse(in, result)
	w.Header().Set("Content-Type", "application/json")
	s.metrics.HTTPRequests.WithLabelValues(r.URL.Path, "200").Inc()
	json.NewEncoder(w).Encode(resp)
}

// loadDecisions reads the decision log, filtered by strategy when given.
func (s *Server) loadDecisions(ctx context.Context, ticker, strategy string) ([]*domain.DecisionEvent, error) {
	if strategy != "" {
		return s.decisionStore.GetByTickerStrategy(ctx, ticker, strategy)
	}
	return s.decisionStore.GetByTicker(ctx, ticker)
}

func (s *Server) httpError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.metrics.HTTPRequests.WithLabelValues(r.URL.Path, fmt.Sprintf("%d", status)).Inc()
	http.Error(w, msg, status)
}

// decisionRecords converts stored events into engine input records,
// preserving insertion order for duplicate-date decisions.
func decisionRecords(events []*domain.DecisionEvent) []domain.DecisionRecord {
	records := make([]domain.DecisionRecord, 0, len(events))
	for _, e := range events {
		records = append(records, e.Record())
	}
	return records
}

// buildResponse converts an engine result into the wire shape.
func buildResponse(in attribution.Input, result *attribution.Result) AttributionResponse {
	resp := AttributionResponse{
		Ticker:     in.Ticker,
		Strategy:   in.Strategy,
		AssetClass: string(in.AssetClass),
		AsOf:       in.AsOf.Format(dayLayout),
		Periods:    []PeriodJSON{},
		Daily:      []DailyJSON{},
		Summary: SummaryJSON{
			TotalDays:    result.Summary.TotalDays,
			HeldDays:     result.Summary.HeldDays,
			TotalPeriods: result.Summary.TotalPeriods,
			HeldPeriods:  result.Summary.HeldPeriods,
		},
	}
	for _, p := range result.Periods {
		resp.Periods = append(resp.Periods, PeriodJSON{
			Kind:                string(p.Kind),
			Label:               p.Label,
			StartDate:           p.StartDate.Format(dayLayout),
			EndDate:             p.EndDate.Format(dayLayout),
			DurationDays:        p.DurationDays,
			CumulativeReturnPct: p.CumulativeReturnPercent,
			SampleCount:         p.SampleCount,
		})
	}
	for _, d := range result.DailyClassifications {
		resp.Daily = append(resp.Daily, DailyJSON{
			Date:       d.Date.Format(dayLayout),
			ReturnPct:  d.DailyReturnPercent,
			PeriodKind: string(d.PeriodKind),
		})
	}
	return resp
}

// envOr returns the env var value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadEnvFile reads a .env file into the environment without overriding
// variables that are already set.
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

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
