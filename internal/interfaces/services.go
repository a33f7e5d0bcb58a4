package interfaces

import (
	"context"

	"github.com/dataforte10/saham/internal/models"
)

// AggregatorService fetches and normalizes all data for a query
type AggregatorService interface {
	// Collect returns a best-effort bundle for the query's symbol.
	// Primary fetch failures surface as *models.DataUnavailableError.
	Collect(ctx context.Context, query models.Query) (*models.MarketBundle, error)
}

// AnalysisService orchestrates the analysis pipeline
type AnalysisService interface {
	// SubmitQuery runs aggregate → compose → analyze → cache for one query.
	// The transition is atomic: on failure the previous cache entry, if any,
	// is left intact.
	SubmitQuery(ctx context.Context, query models.Query) (*models.CacheEntry, error)

	// FollowUp answers a new follow-up question against the cached entry's
	// base analysis and stores the answer in the entry's follow-up slot.
	// Errors when the session is Empty; never re-runs aggregation.
	FollowUp(ctx context.Context, question string) (string, error)

	// ChatTurn answers one user chat message against the cached symbol
	// context. Each call is a fresh turn; answers are appended to the current
	// entry's chat log but never re-run aggregation or base analysis.
	ChatTurn(ctx context.Context, message string) (string, error)

	// Current returns the cached entry, or nil when the session is Empty
	Current(ctx context.Context) (*models.CacheEntry, error)

	// Reset clears the session cache (Populated → Empty)
	Reset(ctx context.Context) error
}
