package models

import "fmt"

// Analysis stage identifiers used in AnalysisFailureError.
const (
	StageBaseAnalysis = "base_analysis"
	StageFollowUp     = "follow_up"
	StageChatTurn     = "chat_turn"
	StageNewsSummary  = "news_summary"
)

// DataUnavailableError reports that a primary data fetch (prices,
// fundamentals, statements) failed. It is fatal to the current query; any
// previous cache entry is preserved.
type DataUnavailableError struct {
	Symbol string
	Cause  error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("market data unavailable for %s: %v", e.Symbol, e.Cause)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Cause
}

// AnalysisFailureError reports that the LLM call for one stage failed.
// The stage's output is unavailable; independent stages still complete.
type AnalysisFailureError struct {
	Stage string
	Cause error
}

func (e *AnalysisFailureError) Error() string {
	return fmt.Sprintf("analysis stage %s failed: %v", e.Stage, e.Cause)
}

func (e *AnalysisFailureError) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports a missing required configuration value.
// Fatal at startup, before any query is accepted.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}
