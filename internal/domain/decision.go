package domain

import "time"

// DecisionRecord is a raw buy/sell signal as delivered by a trading bot.
// Dates arrive as ISO-8601 strings and are parsed during normalization.
type DecisionRecord struct {
	Ticker   string // instrument identifier, e.g. "AAPL" or "BTC"
	Strategy string // strategy identifier that produced the signal
	Date     string // ISO-8601 calendar day or timestamp
	Action   string // "buy" | "sell" (case-insensitive); anything else is a no-op
}

// Decision is a normalized decision with a parsed date.
// Decisions for one ticker+strategy form a single ordered stream;
// duplicates at the same date keep their input order.
type Decision struct {
	Ticker   string
	Strategy string
	Date     time.Time // UTC, day resolution for calendar-day inputs
	Action   string    // lower-cased action
}

// Decision actions that change position state. Any other action string
// neither opens nor closes a position.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// DecisionEvent is a decision record as persisted. RecordID is a
// deterministic hash (see idhash) and Seq is the feed sequence number, which
// orders duplicate-date decisions the way the bot emitted them.
type DecisionEvent struct {
	RecordID string
	Seq      int64
	Ticker   string
	Strategy string
	Date     string // ISO-8601, kept raw; parsing happens in normalization
	Action   string
}

// Record converts a stored event back into the raw form the engine consumes.
func (e *DecisionEvent) Record() DecisionRecord {
	return DecisionRecord{
		Ticker:   e.Ticker,
		Strategy: e.Strategy,
		Date:     e.Date,
		Action:   e.Action,
	}
}
