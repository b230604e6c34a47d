// Package memory provides in-memory storage implementations for tests,
// fixtures, and single-process deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"trade-attribution-lab/internal/domain"
	"trade-attribution-lab/internal/storage"
)

// DecisionStore is an in-memory implementation of storage.DecisionStore.
type DecisionStore struct {
	mu     sync.RWMutex
	events []*domain.DecisionEvent
	byID   map[string]struct{}
}

// NewDecisionStore creates a new in-memory decision store.
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{
		byID: make(map[string]struct{}),
	}
}

// Compile-time interface check.
var _ storage.DecisionStore = (*DecisionStore)(nil)

// Insert adds a new decision event. Returns ErrDuplicateKey if record_id exists.
func (s *DecisionStore) Insert(_ context.Context, e *domain.DecisionEvent) error {
	if e == nil || e.RecordID == "" || e.Ticker == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[e.RecordID]; exists {
		return storage.ErrDuplicateKey
	}
	eventCopy := *e
	s.events = append(s.events, &eventCopy)
	s.byID[e.RecordID] = struct{}{}
	return nil
}

// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
func (s *DecisionStore) InsertBulk(_ context.Context, events []*domain.DecisionEvent) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: validate and check duplicates (existing + intra-batch)
	batchIDs := make(map[string]struct{}, len(events))
	for _, e := range events {
		if e == nil || e.RecordID == "" || e.Ticker == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.byID[e.RecordID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchIDs[e.RecordID]; exists {
			return storage.ErrDuplicateKey
		}
		batchIDs[e.RecordID] = struct{}{}
	}

	// Second pass: insert all
	for _, e := range events {
		eventCopy := *e
		s.events = append(s.events, &eventCopy)
		s.byID[e.RecordID] = struct{}{}
	}
	return nil
}

// GetByTicker retrieves all events for a ticker, ordered by seq ASC.
func (s *DecisionStore) GetByTicker(_ context.Context, ticker string) ([]*domain.DecisionEvent, error) {
	return s.filter(func(e *domain.DecisionEvent) bool {
		return e.Ticker == ticker
	}), nil
}

// GetByTickerStrategy retrieves events for a ticker+strategy, ordered by seq ASC.
func (s *DecisionStore) GetByTickerStrategy(_ context.Context, ticker, strategy string) ([]*domain.DecisionEvent, error) {
	return s.filter(func(e *domain.DecisionEvent) bool {
		return e.Ticker == ticker && e.Strategy == strategy
	}), nil
}

func (s *DecisionStore) filter(keep func(*domain.DecisionEvent) bool) []*domain.DecisionEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DecisionEvent
	for _, e := range s.events {
		if keep(e) {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result
}
