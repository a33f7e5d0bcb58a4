// Package interfaces defines service contracts for Saham
package interfaces

import (
	"context"
	"time"

	"github.com/dataforte10/saham/internal/models"
)

// MarketDataClient provides access to the market data provider.
// Price, fundamental, and statement fetch failures for a symbol are fatal to
// the query using them; ownership is independently fault-tolerant.
type MarketDataClient interface {
	// GetPriceSeries retrieves daily bars for the date range, ascending by date
	GetPriceSeries(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error)

	// GetFundamentals retrieves the fundamental snapshot
	GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalSnapshot, error)

	// GetStatements retrieves the financial statement tables
	GetStatements(ctx context.Context, symbol string) (*models.FinancialStatementSet, error)

	// GetRecommendations retrieves analyst rating history
	GetRecommendations(ctx context.Context, symbol string) (models.RecommendationHistory, error)

	// GetOwnership retrieves the holder-category percentage breakdown
	GetOwnership(ctx context.Context, symbol string) (*models.OwnershipBreakdown, error)
}

// NewsClient provides access to the news search provider
type NewsClient interface {
	// SearchNews returns provider-ranked news items for the keywords
	SearchNews(ctx context.Context, keywords string, region string, recencyDays int, maxResults int) ([]models.NewsItem, error)
}

// LLMClient provides access to the LLM completion service
type LLMClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
