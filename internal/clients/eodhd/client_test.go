package eodhd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(100))
}

func TestGetPriceSeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/eod/BBCA.JK" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_token") != "test-key" {
			t.Error("api_token missing from request")
		}
		if r.URL.Query().Get("order") != "a" {
			t.Error("ascending order not requested")
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"date": "2025-06-02", "open": 9500.0, "high": 9600.0, "low": 9450.0, "close": 9550.0},
			{"date": "2025-06-03", "open": 9550.0, "high": 9750.0, "low": 9500.0, "close": 9725.0},
		})
	})

	from, _ := time.Parse("2006-01-02", "2025-06-01")
	to, _ := time.Parse("2006-01-02", "2025-06-30")

	series, err := client.GetPriceSeries(context.Background(), "BBCA.JK", from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(series))
	}
	if series[1].Close != 9725 {
		t.Errorf("close: got %v", series[1].Close)
	}
	if !series[0].Date.Before(series[1].Date) {
		t.Error("series must be ascending by date")
	}
}

func TestGetPriceSeriesSortsDescendingInput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"date": "2025-06-03", "close": 9725.0},
			{"date": "2025-06-02", "close": 9550.0},
		})
	})

	series, err := client.GetPriceSeries(context.Background(), "BBCA.JK", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !series[0].Date.Before(series[1].Date) {
		t.Error("series must be re-sorted ascending")
	}
}

func TestGetPriceSeriesSkipsMalformedDates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"date": "not-a-date", "close": 9100.0},
			{"date": "2025-06-02", "close": 9550.0},
			{"date": "2025-06-03", "close": 9725.0},
		})
	})

	series, err := client.GetPriceSeries(context.Background(), "BBCA.JK", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("malformed bar must be dropped, got %d bars", len(series))
	}
	if series[0].Date.IsZero() {
		t.Error("a zero-time bar must never lead the series")
	}
	if series[0].Close != 9550 || series[1].Close != 9725 {
		t.Errorf("surviving bars: got %+v", series)
	}
}

func TestGetPriceSeriesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown symbol", http.StatusNotFound)
	})

	_, err := client.GetPriceSeries(context.Background(), "ZZZZ", time.Time{}, time.Time{})
	if err == nil {
		t.Fatal("expected error for 404")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d", apiErr.StatusCode)
	}
}

const fundamentalsFixture = `{
	"General": {"Code": "BBCA", "Name": "Bank Central Asia", "CurrencyCode": "IDR"},
	"Highlights": {
		"MarketCapitalization": 1190000000000000,
		"PERatio": "22.4",
		"DividendYield": "N/A",
		"ReturnOnEquityTTM": 21.3
	},
	"Valuation": {"ForwardPE": 20.1},
	"SharesStats": {"PercentInsiders": 1.2, "PercentInstitutions": 40.5},
	"AnalystRatings": {"StrongBuy": 5, "Buy": 10, "Hold": 3},
	"Financials": {
		"Income_Statement": {
			"yearly": {
				"2024-12-31": {"totalRevenue": 110000, "netIncome": "54000"},
				"2023-12-31": {"totalRevenue": 99000, "netIncome": 48000}
			}
		}
	}
}`

func fundamentalsHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fundamentals/BBCA.JK" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(fundamentalsFixture))
	}
}

func TestGetFundamentalsMissingFieldIsUnavailable(t *testing.T) {
	client := newTestClient(t, fundamentalsHandler(t))

	f, err := client.GetFundamentals(context.Background(), "BBCA.JK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// DividendYield arrives as the literal string "N/A"
	if f.DividendYield.Available {
		t.Error("sentinel dividend yield must be unavailable, not zero")
	}
	if f.DividendYield.Value != 0 {
		t.Errorf("unavailable metric must carry a zero value, got %v", f.DividendYield.Value)
	}
	if !f.MarketCap.Available {
		t.Error("market cap should be available")
	}
	if f.Currency != "IDR" {
		t.Errorf("currency: got %q", f.Currency)
	}

	// TrailingPE absent from Valuation falls back to Highlights.PERatio,
	// which arrives string-encoded
	if !f.TrailingPE.Available || f.TrailingPE.Value != 22.4 {
		t.Errorf("trailing P/E: got %+v", f.TrailingPE)
	}
}

func TestGetStatementsTransposesPeriods(t *testing.T) {
	client := newTestClient(t, fundamentalsHandler(t))

	set, err := client.GetStatements(context.Background(), "BBCA.JK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row, ok := set.IncomeAnnual.Row("totalRevenue")
	if !ok {
		t.Fatal("totalRevenue row missing")
	}
	if row["2024-12-31"] != 110000 || row["2023-12-31"] != 99000 {
		t.Errorf("totalRevenue row: got %+v", row)
	}

	// String-encoded values decode too
	net, _ := set.IncomeAnnual.Row("netIncome")
	if net["2024-12-31"] != 54000 {
		t.Errorf("netIncome: got %+v", net)
	}
}

func TestGetRecommendations(t *testing.T) {
	client := newTestClient(t, fundamentalsHandler(t))

	history, err := client.GetRecommendations(context.Background(), "BBCA.JK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one current period, got %d", len(history))
	}
	if history[0].StrongBuy != 5 || history[0].Buy != 10 || history[0].Hold != 3 {
		t.Errorf("ratings: got %+v", history[0])
	}
	// Omitted counts read as zero within an otherwise present rating set
	if history[0].Sell != 0 || history[0].StrongSell != 0 {
		t.Errorf("omitted counts should be zero: %+v", history[0])
	}
}

func TestGetOwnership(t *testing.T) {
	client := newTestClient(t, fundamentalsHandler(t))

	ownership, err := client.GetOwnership(context.Background(), "BBCA.JK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ownership.Available {
		t.Fatal("ownership should be available")
	}
	if ownership.Holders["Insiders"] != 1.2 || ownership.Holders["Institutions"] != 40.5 {
		t.Errorf("holders: got %+v", ownership.Holders)
	}
}

func TestGetOwnershipNoStats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"General": {"Code": "ZZZZ"}}`))
	})

	_, err := client.GetOwnership(context.Background(), "ZZZZ")
	if err == nil {
		t.Fatal("expected error when no shares statistics exist")
	}
}

func TestSearchNews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("s") != "BBCA.JK" {
			t.Errorf("keywords: got %q", r.URL.Query().Get("s"))
		}
		if r.URL.Query().Get("limit") != "10" {
			t.Errorf("limit: got %q", r.URL.Query().Get("limit"))
		}
		json.NewEncoder(w).Encode([]map[string]string{
			{"date": "2025-06-01T08:00:00+00:00", "title": "Profit up", "content": "Net income rose.", "link": "https://example.com/a", "source": "example.com"},
		})
	})

	items, err := client.SearchNews(context.Background(), "BBCA.JK", "id-ID", 14, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Title != "Profit up" || items[0].URL != "https://example.com/a" {
		t.Errorf("item: got %+v", items[0])
	}
	if items[0].PublishedAt.IsZero() {
		t.Error("published date should parse")
	}
}

func TestFlexFloat64(t *testing.T) {
	cases := []struct {
		in      string
		present bool
		want    float64
	}{
		{`12.5`, true, 12.5},
		{`"12.5"`, true, 12.5},
		{`0`, true, 0},
		{`"N/A"`, false, 0},
		{`"NA"`, false, 0},
		{`""`, false, 0},
		{`"-"`, false, 0},
	}
	for _, tc := range cases {
		var f flexFloat64
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Errorf("unmarshal %s: %v", tc.in, err)
			continue
		}
		if f.present() != tc.present {
			t.Errorf("unmarshal %s: present = %v, want %v", tc.in, f.present(), tc.present)
			continue
		}
		if tc.present && float64(f) != tc.want {
			t.Errorf("unmarshal %s: got %v, want %v", tc.in, float64(f), tc.want)
		}
	}
}

func TestFlexFloat64SentinelMapsToUnavailableMetric(t *testing.T) {
	var f flexFloat64
	if err := json.Unmarshal([]byte(`"N/A"`), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	m := toMetric(&f)
	if m.Available {
		t.Error("sentinel string must not produce an available metric")
	}
	if m.Value != 0 {
		t.Errorf("unavailable metric value: got %v", m.Value)
	}
}
