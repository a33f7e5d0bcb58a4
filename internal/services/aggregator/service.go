// Package aggregator fetches and normalizes all market data for one query.
package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/dataforte10/saham/internal/common"
	"github.com/dataforte10/saham/internal/interfaces"
	"github.com/dataforte10/saham/internal/models"
)

// Service implements the AggregatorService interface. It holds no state
// between calls; caching is the session cache's responsibility.
type Service struct {
	market interfaces.MarketDataClient
	news   interfaces.NewsClient
	logger *common.Logger

	newsRegion   string
	newsRecency  int
	maxNewsItems int
}

// NewService creates a new aggregator service
func NewService(market interfaces.MarketDataClient, news interfaces.NewsClient, cfg common.AnalysisConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		market:       market,
		news:         news,
		logger:       logger,
		newsRegion:   cfg.NewsRegion,
		newsRecency:  cfg.NewsRecency,
		maxNewsItems: cfg.MaxNewsItems,
	}
}

// Collect returns a best-effort bundle for the query's symbol. Price,
// fundamental, and statement failures are fatal and surface as
// *models.DataUnavailableError; ownership and news degrade independently.
func (s *Service) Collect(ctx context.Context, query models.Query) (*models.MarketBundle, error) {
	symbol := query.Symbol

	prices, err := s.market.GetPriceSeries(ctx, symbol, query.StartDate, query.EndDate)
	if err != nil {
		return nil, &models.DataUnavailableError{Symbol: symbol, Cause: fmt.Errorf("price series: %w", err)}
	}

	fundamentals, err := s.market.GetFundamentals(ctx, symbol)
	if err != nil {
		return nil, &models.DataUnavailableError{Symbol: symbol, Cause: fmt.Errorf("fundamentals: %w", err)}
	}

	statements, err := s.market.GetStatements(ctx, symbol)
	if err != nil {
		return nil, &models.DataUnavailableError{Symbol: symbol, Cause: fmt.Errorf("statements: %w", err)}
	}

	// The provider carries no live quote in its fundamentals; the latest
	// close in range stands in when the snapshot has no current price.
	if !fundamentals.CurrentPrice.Available && len(prices) > 0 {
		fundamentals.CurrentPrice = models.NewMetric(prices[len(prices)-1].Close)
	}

	// Recommendations are best-effort: an empty history reads as "N/A"
	recommendations, err := s.market.GetRecommendations(ctx, symbol)
	if err != nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Recommendations unavailable")
		recommendations = models.RecommendationHistory{}
	}

	ownership := s.collectOwnership(ctx, symbol)
	news := s.collectNews(ctx, symbol)

	return &models.MarketBundle{
		Symbol:          symbol,
		Prices:          prices,
		Fundamentals:    *fundamentals,
		Statements:      *statements,
		Recommendations: recommendations,
		Ownership:       ownership,
		News:            news,
		FetchedAt:       time.Now(),
	}, nil
}

// collectOwnership fetches the holder breakdown, downgrading any failure to
// an explicit unavailable flag so the query proceeds.
func (s *Service) collectOwnership(ctx context.Context, symbol string) models.OwnershipBreakdown {
	ownership, err := s.market.GetOwnership(ctx, symbol)
	if err != nil || ownership == nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Ownership breakdown unavailable")
		return models.OwnershipBreakdown{Available: false}
	}
	return *ownership
}

// collectNews fetches provider-ranked news, degrading to an empty set on
// failure so the news summary stage can still run its fallback.
func (s *Service) collectNews(ctx context.Context, symbol string) []models.NewsItem {
	if s.news == nil {
		return nil
	}
	items, err := s.news.SearchNews(ctx, symbol, s.newsRegion, s.newsRecency, s.maxNewsItems)
	if err != nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("News search failed")
		return nil
	}
	return items
}

// Ensure Service implements AggregatorService
var _ interfaces.AggregatorService = (*Service)(nil)
