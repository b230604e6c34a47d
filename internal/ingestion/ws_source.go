package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSConfig configures WebSocket feed behavior.
type WSConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing control frames.
	WriteTimeout time.Duration
	// OnReconnect, if set, is called after each successful reconnection.
	OnReconnect func()
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// WSDecisionSource implements DecisionSource over gorilla/websocket.
// The feed pushes JSON decision events; the source decodes them onto a
// channel and reconnects with exponential backoff on connection loss.
type WSDecisionSource struct {
	endpoint string
	config   WSConfig
	logger   *log.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	events chan DecisionEventMessage
	done   chan struct{}
	wg     sync.WaitGroup

	// Reconnects counts re-established connections, for observability hooks.
	Reconnects atomic.Int64
}

// NewWSDecisionSource connects to the feed endpoint and starts reading.
func NewWSDecisionSource(ctx context.Context, endpoint string, config *WSConfig, logger *log.Logger) (*WSDecisionSource, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &WSDecisionSource{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
		events:   make(chan DecisionEventMessage, 256),
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop()

	s.wg.Add(1)
	go s.pingLoop()

	return s, nil
}

// Events returns the message channel. It is closed when the source shuts down.
func (s *WSDecisionSource) Events() <-chan DecisionEventMessage {
	return s.events
}

// Close stops the source and releases its connection.
func (s *WSDecisionSource) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	close(s.events)
	return nil
}

// connect establishes the WebSocket connection.
func (s *WSDecisionSource) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	s.conn = conn
	return nil
}

// readLoop reads feed messages until shutdown, reconnecting on errors.
func (s *WSDecisionSource) readLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}
			s.logger.Printf("feed read error: %v, reconnecting", err)
			if !s.reconnect() {
				return
			}
			continue
		}

		var msg DecisionEventMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Printf("feed message decode error: %v", err)
			continue
		}

		select {
		case s.events <- msg:
		case <-s.done:
			return
		}
	}
}

// pingLoop sends ping frames to keep the connection alive.
func (s *WSDecisionSource) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			conn := s.conn
			if conn != nil {
				conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout))
			}
			s.connMu.Unlock()
		}
	}
}

// reconnect re-establishes the connection with exponential backoff.
// Returns false when the source was closed while waiting.
func (s *WSDecisionSource) reconnect() bool {
	delay := s.config.ReconnectDelay
	for {
		select {
		case <-s.done:
			return false
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := s.connect(ctx)
		cancel()
		if err == nil {
			s.Reconnects.Add(1)
			if s.config.OnReconnect != nil {
				s.config.OnReconnect()
			}
			s.logger.Printf("feed reconnected to %s", s.endpoint)
			return true
		}

		s.logger.Printf("feed reconnect failed: %v", err)
		delay *= 2
		if delay > s.config.MaxReconnectDelay {
			delay = s.config.MaxReconnectDelay
		}
	}
}
