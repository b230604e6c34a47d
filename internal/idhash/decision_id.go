// Package idhash computes deterministic record identifiers.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeDecisionID computes a deterministic record_id using SHA256.
// Formula: SHA256(ticker|strategy|date|action|seq)
// Returns hex-encoded hash (64 characters). Including the feed sequence
// number lets a bot legitimately emit identical decisions on the same day
// while still rejecting double ingestion of the same event.
func ComputeDecisionID(ticker, strategy, date, action string, seq int64) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%d", ticker, strategy, date, action, seq)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
