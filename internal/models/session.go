package models

import (
	"fmt"
	"strings"
	"time"
)

// Query is one analysis request as submitted from the dashboard sidebar.
// Immutable once submitted; a new Query replaces the cached one and
// invalidates all derived data.
type Query struct {
	Symbol     string    `json:"symbol"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	FollowUp   string    `json:"follow_up,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Normalize uppercases the symbol and trims whitespace from inputs.
func (q Query) Normalize() Query {
	q.Symbol = strings.ToUpper(strings.TrimSpace(q.Symbol))
	q.FollowUp = strings.TrimSpace(q.FollowUp)
	return q
}

// Validate checks the query before any fetch occurs.
func (q Query) Validate() error {
	if q.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if q.StartDate.IsZero() || q.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if q.StartDate.After(q.EndDate) {
		return fmt.Errorf("start date %s is after end date %s",
			q.StartDate.Format("2006-01-02"), q.EndDate.Format("2006-01-02"))
	}
	return nil
}

// Key returns the cache identity of the query. Two queries with the same
// symbol, date range, and follow-up text are the same cache key.
func (q Query) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		q.Symbol,
		q.StartDate.Format("2006-01-02"),
		q.EndDate.Format("2006-01-02"),
		q.FollowUp)
}

// MarketBundle is the best-effort data set the aggregator assembles for one
// query. Prices, fundamentals, and statements are always present when the
// bundle exists (their fetch failures abort the query); ownership and news
// degrade independently.
type MarketBundle struct {
	Symbol          string                `json:"symbol"`
	Prices          PriceSeries           `json:"prices"`
	Fundamentals    FundamentalSnapshot   `json:"fundamentals"`
	Statements      FinancialStatementSet `json:"statements"`
	Recommendations RecommendationHistory `json:"recommendations,omitempty"`
	Ownership       OwnershipBreakdown    `json:"ownership"`
	News            []NewsItem            `json:"news,omitempty"`
	FetchedAt       time.Time             `json:"fetched_at"`
}

// AnalysisResult holds the LLM outputs for one query. Fields are opaque text
// blobs; the core never parses them. Never mutated after creation except for
// the dependent follow-up answer slot.
type AnalysisResult struct {
	BaseAnalysis   string    `json:"base_analysis"`
	FollowUpAnswer string    `json:"follow_up_answer,omitempty"`
	NewsSummary    string    `json:"news_summary,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`

	// StageErrors reports non-fatal per-stage failures (stage → cause).
	// A failed independent stage leaves its output empty and an entry here.
	StageErrors map[string]string `json:"stage_errors,omitempty"`
}

// ChatTurn is one user message and its answer within the current session.
type ChatTurn struct {
	Message  string    `json:"message"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// CacheEntry owns exactly one Query and all data derived from it. It is
// replaced wholesale on a new query and cleared wholesale on reset; there is
// no partial invalidation.
type CacheEntry struct {
	Query     Query           `json:"query"`
	Bundle    MarketBundle    `json:"bundle"`
	Analysis  AnalysisResult  `json:"analysis"`
	ChatLog   []ChatTurn      `json:"chat_log,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
