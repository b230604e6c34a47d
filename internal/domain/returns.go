package domain

import "time"

// AssetClass determines which field identifies the ticker in raw return rows.
type AssetClass string

const (
	AssetClassStocks AssetClass = "stocks"
	AssetClassCrypto AssetClass = "crypto"
)

// RawReturnRow is a return observation as delivered by upstream market data.
// Stock rows carry Symbol, crypto rows carry BaseCurrency; the other field is
// empty. DailyReturn is nullable upstream (missing trading days, bad feeds).
type RawReturnRow struct {
	Symbol       string   // ticker for stocks rows
	BaseCurrency string   // ticker for crypto rows
	Date         string   // ISO-8601 calendar day
	DailyReturn  *float64 // percent, nil when upstream has no value
}

// DailyReturn is one day's percentage price change for a ticker.
type DailyReturn struct {
	Date               time.Time // UTC, day resolution
	DailyReturnPercent float64
}
