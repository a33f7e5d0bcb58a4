package prompt

import (
	"fmt"
	"strings"

	"github.com/dataforte10/saham/internal/models"
)

// metricLine renders one labelled metric, degrading to "N/A" when absent.
func metricLine(label string, m models.Metric, suffix string) string {
	if !m.Available {
		return fmt.Sprintf("%s: N/A", label)
	}
	return fmt.Sprintf("%s: %.2f%s", label, m.Value, suffix)
}

// FormatPriceSeries flattens a price series into the open/close table the
// base analysis template expects. maxPoints bounds the prompt size; the most
// recent points win because they matter most for trend reading.
func FormatPriceSeries(series models.PriceSeries, maxPoints int) string {
	if len(series) == 0 {
		return NotAvailableToken
	}

	if maxPoints > 0 && len(series) > maxPoints {
		series = series[len(series)-maxPoints:]
	}

	var sb strings.Builder
	sb.WriteString("Date        Open        Close\n")
	for _, bar := range series {
		sb.WriteString(fmt.Sprintf("%s  %10.2f  %10.2f\n", bar.Date.Format("2006-01-02"), bar.Open, bar.Close))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatFundamentals renders the fundamental snapshot with explicit N/A
// markers for anything the provider omitted.
func FormatFundamentals(f models.FundamentalSnapshot) string {
	currency := f.Currency
	if currency == "" {
		currency = NotAvailableToken
	}

	lines := []string{
		fmt.Sprintf("Currency: %s", currency),
		metricLine("Current Price", f.CurrentPrice, ""),
		metricLine("Market Cap", f.MarketCap, ""),
		metricLine("Trailing P/E", f.TrailingPE, ""),
		metricLine("Forward P/E", f.ForwardPE, ""),
		metricLine("Dividend Yield", f.DividendYield, "%"),
		metricLine("Return on Equity", f.ReturnOnEquity, "%"),
	}
	return strings.Join(lines, "\n")
}

// FormatRecommendations flattens analyst rating history.
func FormatRecommendations(history models.RecommendationHistory) string {
	if len(history) == 0 {
		return NotAvailableToken
	}

	var sb strings.Builder
	for _, period := range history {
		sb.WriteString(fmt.Sprintf("%s: strong buy %d, buy %d, hold %d, sell %d, strong sell %d\n",
			period.Period, period.StrongBuy, period.Buy, period.Hold, period.Sell, period.StrongSell))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatNewsItems lists news items with their source links for the news
// summary template.
func FormatNewsItems(items []models.NewsItem) string {
	if len(items) == 0 {
		return NotAvailableToken
	}

	var sb strings.Builder
	for i, item := range items {
		date := NotAvailableToken
		if !item.PublishedAt.IsZero() {
			date = item.PublishedAt.Format("2006-01-02")
		}
		sb.WriteString(fmt.Sprintf("%d. \"%s\" (%s, %s) %s\n", i+1, item.Title, item.Source, date, item.URL))
		if item.Snippet != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", item.Snippet))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
