// Package models defines data structures for Saham
package models

import (
	"fmt"
	"time"
)

// PriceBar represents a single day's price data
type PriceBar struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// PriceSeries is a date-ascending sequence of price bars for one symbol.
// May be empty when the symbol/range yields no data.
type PriceSeries []PriceBar

// Metric is an externally sourced numeric value that may be absent.
// Absence is distinct from zero: a provider that omits a field yields
// Available=false, which renders as "N/A" everywhere downstream.
type Metric struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

// NewMetric returns an available metric with the given value.
func NewMetric(v float64) Metric {
	return Metric{Value: v, Available: true}
}

// MetricNA returns an unavailable metric.
func MetricNA() Metric {
	return Metric{}
}

// String renders the metric value, or "N/A" when unavailable.
func (m Metric) String() string {
	if !m.Available {
		return "N/A"
	}
	return fmt.Sprintf("%g", m.Value)
}

// FundamentalSnapshot holds the named fundamental metrics used for analysis.
// Every metric degrades to "N/A" rather than failing the pipeline when the
// provider omits it. Currency is the provider-native currency context and is
// surfaced as-is; no unit conversion is performed.
type FundamentalSnapshot struct {
	Symbol         string `json:"symbol"`
	Name           string `json:"name,omitempty"`
	Currency       string `json:"currency,omitempty"`
	CurrentPrice   Metric `json:"current_price"`
	MarketCap      Metric `json:"market_cap"`
	TrailingPE     Metric `json:"trailing_pe"`
	ForwardPE      Metric `json:"forward_pe"`
	DividendYield  Metric `json:"dividend_yield"`
	ReturnOnEquity Metric `json:"return_on_equity"`
}

// StatementTable is one financial statement indexed by line-item name, then
// by period label (e.g. "2024-06-30"). Consumers must tolerate missing rows.
type StatementTable map[string]map[string]float64

// Row returns the period→value series for a line item and whether it exists.
func (t StatementTable) Row(lineItem string) (map[string]float64, bool) {
	row, ok := t[lineItem]
	return row, ok
}

// FinancialStatementSet holds the income statement, balance sheet, and cash
// flow statement, each in annual and quarterly form.
type FinancialStatementSet struct {
	IncomeAnnual     StatementTable `json:"income_annual,omitempty"`
	IncomeQuarterly  StatementTable `json:"income_quarterly,omitempty"`
	BalanceAnnual    StatementTable `json:"balance_annual,omitempty"`
	BalanceQuarterly StatementTable `json:"balance_quarterly,omitempty"`
	CashFlowAnnual   StatementTable `json:"cashflow_annual,omitempty"`
	CashFlowQuarter  StatementTable `json:"cashflow_quarterly,omitempty"`
}

// RecommendationPeriod holds analyst rating counts for one period.
type RecommendationPeriod struct {
	Period     string `json:"period"`
	StrongBuy  int    `json:"strong_buy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strong_sell"`
}

// RecommendationHistory is an ordered sequence of analyst rating periods.
type RecommendationHistory []RecommendationPeriod

// OwnershipBreakdown maps holder categories to percentage held.
// Available is false when the upstream fetch failed entirely; consumers must
// branch on it rather than interpret zero percentages.
type OwnershipBreakdown struct {
	Available bool               `json:"available"`
	Holders   map[string]float64 `json:"holders,omitempty"`
}

// NewsItem represents a news article returned by the news provider.
type NewsItem struct {
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
