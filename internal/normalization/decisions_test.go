package normalization

import (
	"errors"
	"testing"

	"trade-attribution-lab/internal/domain"
)

func TestNormalizeDecisions_SortsAscending(t *testing.T) {
	records := []domain.DecisionRecord{
		{Ticker: "AAPL", Strategy: "m", Date: "2024-03-01", Action: "sell"},
		{Ticker: "AAPL", Strategy: "m", Date: "2024-01-15", Action: "buy"},
		{Ticker: "AAPL", Strategy: "m", Date: "2024-02-10", Action: "buy"},
	}

	decisions, err := NormalizeDecisions(records, "")
	if err != nil {
		t.Fatalf("NormalizeDecisions failed: %v", err)
	}

	if len(decisions) != 3 {
		t.Fatalf("Expected 3 decisions, got %d", len(decisions))
	}
	for i := 1; i < len(decisions); i++ {
		if decisions[i].Date.Before(decisions[i-1].Date) {
			t.Errorf("Decisions not sorted: %v before %v", decisions[i].Date, decisions[i-1].Date)
		}
	}
}

func TestNormalizeDecisions_StableForDuplicateDates(t *testing.T) {
	// Same-date decisions must keep input order
	records := []domain.DecisionRecord{
		{Ticker: "BTC", Strategy: "s", Date: "2024-01-10", Action: "buy"},
		{Ticker: "BTC", Strategy: "s", Date: "2024-01-10", Action: "sell"},
		{Ticker: "BTC", Strategy: "s", Date: "2024-01-05", Action: "buy"},
	}

	decisions, err := NormalizeDecisions(records, "")
	if err != nil {
		t.Fatalf("NormalizeDecisions failed: %v", err)
	}

	if decisions[0].Action != "buy" || decisions[0].Date.Day() != 5 {
		t.Errorf("Expected Jan 5 buy first, got %v %s", decisions[0].Date, decisions[0].Action)
	}
	if decisions[1].Action != "buy" {
		t.Errorf("Expected first Jan 10 record to stay a buy, got %s", decisions[1].Action)
	}
	if decisions[2].Action != "sell" {
		t.Errorf("Expected second Jan 10 record to stay a sell, got %s", decisions[2].Action)
	}
}

func TestNormalizeDecisions_FiltersByStrategy(t *testing.T) {
	records := []domain.DecisionRecord{
		{Ticker: "AAPL", Strategy: "momentum", Date: "2024-01-01", Action: "buy"},
		{Ticker: "AAPL", Strategy: "meanrev", Date: "2024-01-02", Action: "buy"},
	}

	decisions, err := NormalizeDecisions(records, "momentum")
	if err != nil {
		t.Fatalf("NormalizeDecisions failed: %v", err)
	}

	if len(decisions) != 1 {
		t.Fatalf("Expected 1 decision, got %d", len(decisions))
	}
	if decisions[0].Strategy != "momentum" {
		t.Errorf("Expected momentum decision, got %s", decisions[0].Strategy)
	}
}

func TestNormalizeDecisions_LowercasesAction(t *testing.T) {
	records := []domain.DecisionRecord{
		{Ticker: "AAPL", Strategy: "m", Date: "2024-01-01", Action: "BUY"},
	}

	decisions, err := NormalizeDecisions(records, "")
	if err != nil {
		t.Fatalf("NormalizeDecisions failed: %v", err)
	}

	if decisions[0].Action != domain.ActionBuy {
		t.Errorf("Expected lowercased action %q, got %q", domain.ActionBuy, decisions[0].Action)
	}
}

func TestNormalizeDecisions_UnparsableDate(t *testing.T) {
	records := []domain.DecisionRecord{
		{Ticker: "AAPL", Strategy: "m", Date: "not-a-date", Action: "buy"},
	}

	_, err := NormalizeDecisions(records, "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestNormalizeDecisions_Empty(t *testing.T) {
	decisions, err := NormalizeDecisions(nil, "")
	if err != nil {
		t.Fatalf("NormalizeDecisions failed: %v", err)
	}
	if len(decisions) != 0 {
		t.Errorf("Expected no decisions, got %d", len(decisions))
	}
}
