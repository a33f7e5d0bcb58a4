package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dataforte10/saham/internal/common"
	"github.com/dataforte10/saham/internal/models"
)

// mockMarketClient implements MarketDataClient for testing
type mockMarketClient struct {
	Prices          models.PriceSeries
	PricesErr       error
	Fundamentals    *models.FundamentalSnapshot
	FundamentalsErr error
	Statements      *models.FinancialStatementSet
	StatementsErr   error
	Recs            models.RecommendationHistory
	RecsErr         error
	Ownership       *models.OwnershipBreakdown
	OwnershipErr    error
}

func (m *mockMarketClient) GetPriceSeries(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	return m.Prices, m.PricesErr
}

func (m *mockMarketClient) GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalSnapshot, error) {
	return m.Fundamentals, m.FundamentalsErr
}

func (m *mockMarketClient) GetStatements(ctx context.Context, symbol string) (*models.FinancialStatementSet, error) {
	return m.Statements, m.StatementsErr
}

func (m *mockMarketClient) GetRecommendations(ctx context.Context, symbol string) (models.RecommendationHistory, error) {
	return m.Recs, m.RecsErr
}

func (m *mockMarketClient) GetOwnership(ctx context.Context, symbol string) (*models.OwnershipBreakdown, error) {
	return m.Ownership, m.OwnershipErr
}

// mockNewsClient implements NewsClient for testing
type mockNewsClient struct {
	Items []models.NewsItem
	Err   error
	Calls int
}

func (m *mockNewsClient) SearchNews(ctx context.Context, keywords, region string, recencyDays, maxResults int) ([]models.NewsItem, error) {
	m.Calls++
	return m.Items, m.Err
}

func testConfig() common.AnalysisConfig {
	return common.AnalysisConfig{
		Language:       "Indonesian",
		NewsRegion:     "id-ID",
		NewsRecency:    14,
		MaxNewsItems:   10,
		ChatWordLimit:  100,
		MaxPricePoints: 250,
	}
}

func testQuery() models.Query {
	start, _ := time.Parse("2006-01-02", "2025-01-01")
	end, _ := time.Parse("2006-01-02", "2025-06-30")
	return models.Query{Symbol: "BBCA.JK", StartDate: start, EndDate: end}
}

func healthyMarket() *mockMarketClient {
	return &mockMarketClient{
		Prices: models.PriceSeries{
			{Date: time.Now().AddDate(0, 0, -2), Open: 9500, Close: 9550},
			{Date: time.Now().AddDate(0, 0, -1), Open: 9550, Close: 9725},
		},
		Fundamentals: &models.FundamentalSnapshot{Symbol: "BBCA.JK", Currency: "IDR"},
		Statements:   &models.FinancialStatementSet{},
		Recs:         models.RecommendationHistory{{Period: "current", Buy: 10}},
		Ownership:    &models.OwnershipBreakdown{Available: true, Holders: map[string]float64{"insiders": 1.2}},
	}
}

func TestCollectPriceFailureIsFatal(t *testing.T) {
	market := healthyMarket()
	market.PricesErr = errors.New("symbol not found")

	svc := NewService(market, &mockNewsClient{}, testConfig(), common.NewSilentLogger())

	_, err := svc.Collect(context.Background(), testQuery())
	if err == nil {
		t.Fatal("expected error for price fetch failure")
	}

	var unavailable *models.DataUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected DataUnavailableError, got %T: %v", err, err)
	}
	if unavailable.Symbol != "BBCA.JK" {
		t.Errorf("error symbol: got %q", unavailable.Symbol)
	}
}

func TestCollectFundamentalsFailureIsFatal(t *testing.T) {
	market := healthyMarket()
	market.FundamentalsErr = errors.New("upstream 500")

	svc := NewService(market, &mockNewsClient{}, testConfig(), common.NewSilentLogger())

	_, err := svc.Collect(context.Background(), testQuery())
	var unavailable *models.DataUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected DataUnavailableError, got %T: %v", err, err)
	}
}

func TestCollectOwnershipFailureDegrades(t *testing.T) {
	market := healthyMarket()
	market.Ownership = nil
	market.OwnershipErr = errors.New("holders table unavailable")

	svc := NewService(market, &mockNewsClient{}, testConfig(), common.NewSilentLogger())

	bundle, err := svc.Collect(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("ownership failure must not fail the query: %v", err)
	}
	if bundle.Ownership.Available {
		t.Error("ownership should read unavailable after a fetch failure")
	}
}

func TestCollectFillsCurrentPriceFromLatestClose(t *testing.T) {
	market := healthyMarket()

	svc := NewService(market, &mockNewsClient{}, testConfig(), common.NewSilentLogger())

	bundle, err := svc.Collect(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bundle.Fundamentals.CurrentPrice.Available {
		t.Fatal("current price should be filled from the latest close")
	}
	if bundle.Fundamentals.CurrentPrice.Value != 9725 {
		t.Errorf("current price: got %v, want 9725", bundle.Fundamentals.CurrentPrice.Value)
	}
}

func TestCollectNewsFailureDegrades(t *testing.T) {
	market := healthyMarket()
	news := &mockNewsClient{Err: errors.New("rate limited")}

	svc := NewService(market, news, testConfig(), common.NewSilentLogger())

	bundle, err := svc.Collect(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("news failure must not fail the query: %v", err)
	}
	if len(bundle.News) != 0 {
		t.Errorf("expected no news items, got %d", len(bundle.News))
	}
	if news.Calls != 1 {
		t.Errorf("news search calls: got %d, want 1", news.Calls)
	}
}

func TestCollectRecommendationsFailureDegrades(t *testing.T) {
	market := healthyMarket()
	market.Recs = nil
	market.RecsErr = errors.New("not supported for exchange")

	svc := NewService(market, &mockNewsClient{}, testConfig(), common.NewSilentLogger())

	bundle, err := svc.Collect(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("recommendation failure must not fail the query: %v", err)
	}
	if len(bundle.Recommendations) != 0 {
		t.Errorf("expected empty recommendation history, got %d", len(bundle.Recommendations))
	}
}
