// Package analysis sequences the LLM calls for one query and owns the
// ordering between the base analysis, the follow-up, chat turns, and the
// news sentiment summary.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dataforte10/saham/internal/common"
	"github.com/dataforte10/saham/internal/interfaces"
	"github.com/dataforte10/saham/internal/models"
	"github.com/dataforte10/saham/internal/services/prompt"
	"github.com/dataforte10/saham/internal/services/session"
)

// Service implements the AnalysisService interface
type Service struct {
	aggregator interfaces.AggregatorService
	llm        interfaces.LLMClient
	composer   *prompt.Composer
	cache      *session.Cache
	logger     *common.Logger

	maxPricePoints int
}

// NewService creates a new analysis service
func NewService(aggregator interfaces.AggregatorService, llm interfaces.LLMClient, composer *prompt.Composer, cache *session.Cache, cfg common.AnalysisConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		aggregator:     aggregator,
		llm:            llm,
		composer:       composer,
		cache:          cache,
		logger:         logger,
		maxPricePoints: cfg.MaxPricePoints,
	}
}

// SubmitQuery runs the full pipeline for one query: validate → aggregate →
// compose → analyze → cache. The transition is atomic: if aggregation or the
// base analysis fails, the previous cache entry (if any) is left intact and
// the error is returned. Independent stages (news summary) and the dependent
// follow-up degrade per-stage without failing the query.
func (s *Service) SubmitQuery(ctx context.Context, query models.Query) (*models.CacheEntry, error) {
	query = query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	query.ReceivedAt = time.Now()

	started := time.Now()
	s.logger.Info().Str("symbol", query.Symbol).Msg("Processing analysis query")

	bundle, err := s.aggregator.Collect(ctx, query)
	if err != nil {
		return nil, err
	}

	result := models.AnalysisResult{
		GeneratedAt: time.Now(),
		StageErrors: map[string]string{},
	}

	// News summary is independent of the base analysis; run it regardless
	// of how the base stage fares.
	result.NewsSummary, err = s.RunNewsSummary(ctx, query.Symbol, bundle.News)
	if err != nil {
		s.logger.Warn().Str("symbol", query.Symbol).Err(err).Msg("News summary stage failed")
		result.StageErrors[models.StageNewsSummary] = err.Error()
	}

	result.BaseAnalysis, err = s.RunBaseAnalysis(ctx, bundle)
	if err != nil {
		return nil, err
	}

	// Follow-up depends on the base analysis; an empty question is answered
	// with a canned response without spending a completion.
	result.FollowUpAnswer, err = s.RunFollowUp(ctx, result.BaseAnalysis, query.FollowUp)
	if err != nil {
		s.logger.Warn().Str("symbol", query.Symbol).Err(err).Msg("Follow-up stage failed")
		result.StageErrors[models.StageFollowUp] = err.Error()
	}

	if len(result.StageErrors) == 0 {
		result.StageErrors = nil
	}

	entry := &models.CacheEntry{
		Query:     query,
		Bundle:    *bundle,
		Analysis:  result,
		CreatedAt: time.Now(),
	}

	if err := s.cache.Replace(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("symbol", query.Symbol).
		Int("price_points", len(bundle.Prices)).
		Int("news_items", len(bundle.News)).
		Dur("elapsed", time.Since(started)).
		Msg("Analysis query completed")

	return entry, nil
}

// RunBaseAnalysis performs the single base analysis completion. Failure is
// surfaced, not retried, and blocks all dependent stages.
func (s *Service) RunBaseAnalysis(ctx context.Context, bundle *models.MarketBundle) (string, error) {
	p := s.composer.ComposeBaseAnalysis(
		prompt.FormatPriceSeries(bundle.Prices, s.maxPricePoints),
		prompt.FormatFundamentals(bundle.Fundamentals),
		prompt.FormatRecommendations(bundle.Recommendations),
	)

	text, err := s.llm.GenerateContent(ctx, p)
	if err != nil {
		return "", &models.AnalysisFailureError{Stage: models.StageBaseAnalysis, Cause: err}
	}
	return text, nil
}

// EmptyFollowUpAnswer is returned without a completion when the user asked
// nothing; an empty follow-up adds no information to the prompt.
const EmptyFollowUpAnswer = "No question was asked."

// RunFollowUp answers the user's question against the base analysis.
func (s *Service) RunFollowUp(ctx context.Context, baseAnalysis, question string) (string, error) {
	if question == "" {
		return EmptyFollowUpAnswer, nil
	}

	p := s.composer.ComposeFollowUp(baseAnalysis, question)
	text, err := s.llm.GenerateContent(ctx, p)
	if err != nil {
		return "", &models.AnalysisFailureError{Stage: models.StageFollowUp, Cause: err}
	}
	return text, nil
}

// RunNewsSummary produces the sentiment-grouped news narrative. Zero items
// short-circuit to the mandated fallback sentence; nothing is fabricated.
func (s *Service) RunNewsSummary(ctx context.Context, symbol string, items []models.NewsItem) (string, error) {
	if len(items) == 0 {
		return prompt.NewsFallbackSentence, nil
	}

	p := s.composer.ComposeNewsSummary(symbol, items)
	text, err := s.llm.GenerateContent(ctx, p)
	if err != nil {
		return "", &models.AnalysisFailureError{Stage: models.StageNewsSummary, Cause: err}
	}
	return text, nil
}

// FollowUp answers a new follow-up question against the cached base analysis
// and records the answer in the current entry's follow-up slot. Unlike
// SubmitQuery it mutates the Populated entry in place.
func (s *Service) FollowUp(ctx context.Context, question string) (string, error) {
	entry, err := s.cache.Current(ctx)
	if err != nil {
		return "", err
	}
	if entry == nil {
		return "", fmt.Errorf("no active analysis session; submit a query first")
	}

	answer, err := s.RunFollowUp(ctx, entry.Analysis.BaseAnalysis, strings.TrimSpace(question))
	if err != nil {
		return "", err
	}

	if err := s.cache.SetFollowUpAnswer(ctx, answer); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record follow-up answer")
	}

	return answer, nil
}

// ChatTurn answers one user message against the cached symbol context.
// Each call is a fresh turn; the answer is appended to the entry's chat log
// but nothing is re-aggregated or re-analyzed.
func (s *Service) ChatTurn(ctx context.Context, message string) (string, error) {
	entry, err := s.cache.Current(ctx)
	if err != nil {
		return "", err
	}
	if entry == nil {
		return "", fmt.Errorf("no active analysis session; submit a query first")
	}

	p := s.composer.ComposeChatTurn(entry.Analysis.BaseAnalysis, entry.Query.Symbol, message)
	answer, err := s.llm.GenerateContent(ctx, p)
	if err != nil {
		return "", &models.AnalysisFailureError{Stage: models.StageChatTurn, Cause: err}
	}

	turn := models.ChatTurn{Message: message, Answer: answer, AskedAt: time.Now()}
	if err := s.cache.AppendChatTurn(ctx, turn); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record chat turn")
	}

	return answer, nil
}

// Current returns the cached entry, or nil when the session is Empty.
func (s *Service) Current(ctx context.Context) (*models.CacheEntry, error) {
	return s.cache.Current(ctx)
}

// Reset clears the session cache.
func (s *Service) Reset(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
