// Package stub provides an in-memory decision source for tests and fixtures.
package stub

import (
	"sync"

	"trade-attribution-lab/internal/ingestion"
)

// DecisionSource is a channel-backed ingestion.DecisionSource.
type DecisionSource struct {
	events    chan ingestion.DecisionEventMessage
	closeOnce sync.Once
}

// NewDecisionSource creates a stub source with the given buffer size.
func NewDecisionSource(buffer int) *DecisionSource {
	return &DecisionSource{
		events: make(chan ingestion.DecisionEventMessage, buffer),
	}
}

// Compile-time interface check.
var _ ingestion.DecisionSource = (*DecisionSource)(nil)

// Emit pushes one message onto the feed.
func (s *DecisionSource) Emit(msg ingestion.DecisionEventMessage) {
	s.events <- msg
}

// Events returns the message channel.
func (s *DecisionSource) Events() <-chan ingestion.DecisionEventMessage {
	return s.events
}

// Close closes the feed channel.
func (s *DecisionSource) Close() error {
	s.closeOnce.Do(func() { close(s.events) })
	return nil
}
