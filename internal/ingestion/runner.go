// Package ingestion appends decision events from external feeds to storage.
package ingestion

import (
	"context"
	"errors"
	"log"
	"time"

	"trade-attribution-lab/internal/domain"
	"trade-attribution-lab/internal/idhash"
	"trade-attribution-lab/internal/normalization"
	"trade-attribution-lab/internal/observability"
	"trade-attribution-lab/internal/storage"
)

// Runner consumes a decision source and appends validated events to the
// decision store. Events with unparsable dates are counted and skipped:
// a live feed must keep flowing, unlike the engine's fatal handling of
// caller-supplied input. Duplicate events (same record_id) are skipped too.
type Runner struct {
	source  DecisionSource
	store   storage.DecisionStore
	metrics *observability.Metrics
	logger  *log.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Source  DecisionSource
	Store   storage.DecisionStore
	Metrics *observability.Metrics
	Logger  *log.Logger
}

// NewRunner creates a new ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		source:  opts.Source,
		store:   opts.Store,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Run consumes the source until the context is canceled or the source's
// channel is closed.
func (r *Runner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-r.source.Events():
			if !ok {
				return nil
			}
			r.handle(ctx, msg)
		}
	}
}

// handle validates and stores one feed message.
func (r *Runner) handle(ctx context.Context, msg DecisionEventMessage) {
	if msg.Ticker == "" {
		r.skip("missing_ticker")
		return
	}
	if _, err := normalization.ParseDate(msg.Date); err != nil {
		r.logger.Printf("skipping decision %s/%s: %v", msg.Ticker, msg.Strategy, err)
		r.skip("invalid_date")
		return
	}

	event := &domain.DecisionEvent{
		RecordID: idhash.ComputeDecisionID(msg.Ticker, msg.Strategy, msg.Date, msg.Action, msg.Seq),
		Seq:      msg.Seq,
		Ticker:   msg.Ticker,
		Strategy: msg.Strategy,
		Date:     msg.Date,
		Action:   msg.Action,
	}

	if err := r.store.Insert(ctx, event); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			r.skip("duplicate")
			return
		}
		r.logger.Printf("store decision %s/%s: %v", msg.Ticker, msg.Strategy, err)
		r.skip("store_error")
		return
	}

	if r.metrics != nil {
		r.metrics.DecisionsIngested.Inc()
		r.metrics.LastSuccessfulIngestion.Set(float64(time.Now().Unix()))
	}
}

func (r *Runner) skip(reason string) {
	if r.metrics != nil {
		r.metrics.DecisionsSkipped.WithLabelValues(reason).Inc()
	}
}
