package ingestion

// DecisionEventMessage is a decision event as emitted on a trading bot's feed.
type DecisionEventMessage struct {
	Seq      int64  `json:"seq"`
	Ticker   string `json:"ticker"`
	Strategy string `json:"strategy"`
	Date     string `json:"date"`
	Action   string `json:"action"`
}

// DecisionSource provides a stream of decision events from an external feed.
// Messages may arrive out of date order; the engine sorts at read time, the
// store only preserves seq for same-date replay order.
type DecisionSource interface {
	// Events returns the message channel. It is closed when the source shuts down.
	Events() <-chan DecisionEventMessage

	// Close stops the source and releases its connection.
	Close() error
}
