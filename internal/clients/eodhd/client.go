// Package eodhd provides a client for the EODHD API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/dataforte10/saham/internal/common"
	"github.com/dataforte10/saham/internal/interfaces"
	"github.com/dataforte10/saham/internal/models"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// flexFloat64 handles JSON values that may be either a number or a string.
// Sentinel strings the provider sends for absent values ("N/A", "NA", "")
// decode to NaN so they are never mistaken for a real zero.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = flexFloat64(math.NaN())
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// present reports whether the payload carried a usable numeric value.
func (f *flexFloat64) present() bool {
	return f != nil && !math.IsNaN(float64(*f))
}

// Client implements the MarketDataClient and NewsClient interfaces
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// eodBarResponse represents the API response for EOD data
type eodBarResponse struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// GetPriceSeries retrieves daily bars for the date range, ascending by date.
func (c *Client) GetPriceSeries(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	params := url.Values{}
	params.Set("period", "d")
	params.Set("order", "a")
	if !from.IsZero() {
		params.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		params.Set("to", to.Format("2006-01-02"))
	}

	path := fmt.Sprintf("/eod/%s", symbol)

	var bars []eodBarResponse
	if err := c.get(ctx, path, params, &bars); err != nil {
		return nil, err
	}

	series := make(models.PriceSeries, 0, len(bars))
	for _, bar := range bars {
		date, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			// A zero-time bar would sort to the series head; drop it instead
			c.logger.Warn().Str("symbol", symbol).Str("date", bar.Date).Msg("Skipping bar with malformed date")
			continue
		}
		series = append(series, models.PriceBar{
			Date:  date,
			Open:  bar.Open,
			High:  bar.High,
			Low:   bar.Low,
			Close: bar.Close,
		})
	}

	// Order is requested ascending; guard against providers ignoring it
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	return series, nil
}

// fundamentalsResponse represents the relevant slices of the fundamentals
// payload. Pointer fields distinguish "omitted by provider" from zero.
type fundamentalsResponse struct {
	General struct {
		Code         string `json:"Code"`
		Name         string `json:"Name"`
		CurrencyCode string `json:"CurrencyCode"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization *flexFloat64 `json:"MarketCapitalization"`
		PERatio              *flexFloat64 `json:"PERatio"`
		DividendYield        *flexFloat64 `json:"DividendYield"`
		ReturnOnEquityTTM    *flexFloat64 `json:"ReturnOnEquityTTM"`
	} `json:"Highlights"`
	Valuation struct {
		TrailingPE *flexFloat64 `json:"TrailingPE"`
		ForwardPE  *flexFloat64 `json:"ForwardPE"`
	} `json:"Valuation"`
	SharesStats struct {
		PercentInsiders     *flexFloat64 `json:"PercentInsiders"`
		PercentInstitutions *flexFloat64 `json:"PercentInstitutions"`
	} `json:"SharesStats"`
	AnalystRatings struct {
		StrongBuy  *int `json:"StrongBuy"`
		Buy        *int `json:"Buy"`
		Hold       *int `json:"Hold"`
		Sell       *int `json:"Sell"`
		StrongSell *int `json:"StrongSell"`
	} `json:"AnalystRatings"`
	Financials struct {
		IncomeStatement statementResponse `json:"Income_Statement"`
		BalanceSheet    statementResponse `json:"Balance_Sheet"`
		CashFlow        statementResponse `json:"Cash_Flow"`
	} `json:"Financials"`
}

// statementResponse holds period→line-item→value maps as the API returns them.
type statementResponse struct {
	Yearly    map[string]map[string]*flexFloat64 `json:"yearly"`
	Quarterly map[string]map[string]*flexFloat64 `json:"quarterly"`
}

func (c *Client) getFundamentalsPayload(ctx context.Context, symbol string) (*fundamentalsResponse, error) {
	path := fmt.Sprintf("/fundamentals/%s", symbol)

	var resp fundamentalsResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// toMetric converts an optionally present payload value to a Metric.
// Omitted fields and sentinel strings both read as unavailable.
func toMetric(v *flexFloat64) models.Metric {
	if !v.present() {
		return models.MetricNA()
	}
	return models.NewMetric(float64(*v))
}

// GetFundamentals retrieves the fundamental snapshot for a symbol.
// Metrics the provider omits come back as unavailable, not zero.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalSnapshot, error) {
	resp, err := c.getFundamentalsPayload(ctx, symbol)
	if err != nil {
		return nil, err
	}

	trailing := resp.Valuation.TrailingPE
	if !trailing.present() {
		trailing = resp.Highlights.PERatio
	}

	return &models.FundamentalSnapshot{
		Symbol:         symbol,
		Name:           resp.General.Name,
		Currency:       resp.General.CurrencyCode,
		CurrentPrice:   models.MetricNA(), // filled from latest close by the aggregator
		MarketCap:      toMetric(resp.Highlights.MarketCapitalization),
		TrailingPE:     toMetric(trailing),
		ForwardPE:      toMetric(resp.Valuation.ForwardPE),
		DividendYield:  toMetric(resp.Highlights.DividendYield),
		ReturnOnEquity: toMetric(resp.Highlights.ReturnOnEquityTTM),
	}, nil
}

// toStatementTable transposes period→item→value into item→period→value.
func toStatementTable(periods map[string]map[string]*flexFloat64) models.StatementTable {
	if len(periods) == 0 {
		return nil
	}
	table := make(models.StatementTable)
	for period, items := range periods {
		for item, value := range items {
			if !value.present() {
				continue
			}
			if table[item] == nil {
				table[item] = make(map[string]float64)
			}
			table[item][period] = float64(*value)
		}
	}
	return table
}

// GetStatements retrieves the financial statement tables for a symbol.
// Line-item keys are provider-native (e.g. "totalRevenue").
func (c *Client) GetStatements(ctx context.Context, symbol string) (*models.FinancialStatementSet, error) {
	resp, err := c.getFundamentalsPayload(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return &models.FinancialStatementSet{
		IncomeAnnual:     toStatementTable(resp.Financials.IncomeStatement.Yearly),
		IncomeQuarterly:  toStatementTable(resp.Financials.IncomeStatement.Quarterly),
		BalanceAnnual:    toStatementTable(resp.Financials.BalanceSheet.Yearly),
		BalanceQuarterly: toStatementTable(resp.Financials.BalanceSheet.Quarterly),
		CashFlowAnnual:   toStatementTable(resp.Financials.CashFlow.Yearly),
		CashFlowQuarter:  toStatementTable(resp.Financials.CashFlow.Quarterly),
	}, nil
}

// GetRecommendations retrieves the current analyst rating counts.
// EODHD exposes a single current-period rating set, so the history has at
// most one entry.
func (c *Client) GetRecommendations(ctx context.Context, symbol string) (models.RecommendationHistory, error) {
	resp, err := c.getFundamentalsPayload(ctx, symbol)
	if err != nil {
		return nil, err
	}

	r := resp.AnalystRatings
	if r.StrongBuy == nil && r.Buy == nil && r.Hold == nil && r.Sell == nil && r.StrongSell == nil {
		return models.RecommendationHistory{}, nil
	}

	intOrZero := func(v *int) int {
		if v == nil {
			return 0
		}
		return *v
	}

	return models.RecommendationHistory{{
		Period:     "current",
		StrongBuy:  intOrZero(r.StrongBuy),
		Buy:        intOrZero(r.Buy),
		Hold:       intOrZero(r.Hold),
		Sell:       intOrZero(r.Sell),
		StrongSell: intOrZero(r.StrongSell),
	}}, nil
}

// GetOwnership retrieves the holder-category percentage breakdown.
// Returns an error when the provider carries no shares statistics at all;
// the aggregator downgrades that to an unavailable breakdown.
func (c *Client) GetOwnership(ctx context.Context, symbol string) (*models.OwnershipBreakdown, error) {
	resp, err := c.getFundamentalsPayload(ctx, symbol)
	if err != nil {
		return nil, err
	}

	stats := resp.SharesStats
	if !stats.PercentInsiders.present() && !stats.PercentInstitutions.present() {
		return nil, fmt.Errorf("no shares statistics for %s", symbol)
	}

	holders := make(map[string]float64)
	if stats.PercentInsiders.present() {
		holders["Insiders"] = float64(*stats.PercentInsiders)
	}
	if stats.PercentInstitutions.present() {
		holders["Institutions"] = float64(*stats.PercentInstitutions)
	}

	return &models.OwnershipBreakdown{
		Available: true,
		Holders:   holders,
	}, nil
}

type newsResponse struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link"`
	Source  string `json:"source"`
}

// SearchNews retrieves provider-ranked news for the keywords. The region
// parameter is accepted for interface parity; EODHD ranks globally.
func (c *Client) SearchNews(ctx context.Context, keywords string, region string, recencyDays int, maxResults int) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("s", keywords)
	if maxResults > 0 {
		params.Set("limit", strconv.Itoa(maxResults))
	}
	if recencyDays > 0 {
		from := time.Now().AddDate(0, 0, -recencyDays)
		params.Set("from", from.Format("2006-01-02"))
	}

	var newsResp []newsResponse
	if err := c.get(ctx, "/news", params, &newsResp); err != nil {
		return nil, err
	}

	news := make([]models.NewsItem, len(newsResp))
	for i, item := range newsResp {
		publishedAt, _ := time.Parse("2006-01-02T15:04:05+00:00", item.Date)
		news[i] = models.NewsItem{
			Title:       item.Title,
			Snippet:     item.Content,
			URL:         item.Link,
			Source:      item.Source,
			PublishedAt: publishedAt,
		}
	}

	return news, nil
}

// Ensure Client implements the provider interfaces
var (
	_ interfaces.MarketDataClient = (*Client)(nil)
	_ interfaces.NewsClient       = (*Client)(nil)
)
