package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"marketquotes/internal/fetcher"
	"marketquotes/internal/normalize"
	"marketquotes/internal/ratelimit"
)

func newTestClient(t *testing.T, baseURL string, options ...Option) *Client {
	t.Helper()

	fixed := &normalize.Normalizer{Now: func() time.Time { return time.UnixMilli(1700000000000) }}
	options = append([]Option{WithBaseURL(baseURL), WithNormalizer(fixed)}, options...)

	client, err := NewClient("test_key", options...)
	if err != nil {
		t.Fatalf("NewClient() returned unexpected error: %v", err)
	}
	return client
}

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("test_api_key")
	if err != nil {
		t.Fatalf("NewClient() returned unexpected error: %v", err)
	}

	if client.apiKey != "test_api_key" {
		t.Errorf("apiKey = %q, want %q", client.apiKey, "test_api_key")
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}
	if client.client == nil {
		t.Error("client is nil")
	}
	if client.normalizer == nil {
		t.Error("normalizer is nil")
	}
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Error("NewClient() expected error for blank API key, got nil")
	}
}

func TestClient_GetQuote_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("function = %q, want GLOBAL_QUOTE", got)
		}
		if got := q.Get("symbol"); got != "aapl" {
			t.Errorf("symbol = %q, want aapl", got)
		}
		if got := q.Get("apikey"); got != "test_key" {
			t.Errorf("apikey = %q, want test_key", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"Global Quote": {
				"05. price": "123.45",
				"08. previous close": "120.00"
			}
		}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := newTestClient(t, server.URL)

	quote, err := client.GetQuote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("GetQuote() returned unexpected error: %v", err)
	}

	if quote.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", quote.Symbol)
	}
	if got := quote.Change.String(); got != "3.45" {
		t.Errorf("Change = %s, want 3.45", got)
	}
	if got := quote.ChangePercent.String(); got != "2.875" {
		t.Errorf("ChangePercent = %s, want 2.875", got)
	}
	if quote.CaptureTimeMs != 1700000000000 {
		t.Errorf("CaptureTimeMs = %d, want 1700000000000", quote.CaptureTimeMs)
	}
}

func TestClient_GetQuote_EmptySymbolMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.GetQuote(context.Background(), "")
	if !fetcher.IsType(err, fetcher.ErrorTypeInvalidInput) {
		t.Errorf("GetQuote() error = %v, want invalid_input", err)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}

func TestClient_GetQuote_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantType   fetcher.ErrorType
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, ``, fetcher.ErrorTypeTransport, 500},
		{"bad gateway", http.StatusBadGateway, `{"Global Quote": {"05. price": "1"}}`, fetcher.ErrorTypeTransport, 502},
		{"throttle notice", http.StatusOK, `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, fetcher.ErrorTypeThrottled, 0},
		{"information", http.StatusOK, `{"Information": "The **demo** API key is for demo purposes only."}`, fetcher.ErrorTypeInformational, 0},
		{"error message", http.StatusOK, `{"Error Message": "Invalid API call."}`, fetcher.ErrorTypeProvider, 0},
		{"unknown ticker", http.StatusOK, `{"Global Quote": {}}`, fetcher.ErrorTypeNotFound, 0},
		{"empty response", http.StatusOK, `{}`, fetcher.ErrorTypeNotFound, 0},
		{"html body", http.StatusOK, `<html>maintenance</html>`, fetcher.ErrorTypeProvider, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := jsonServer(t, tt.status, tt.body)
			client := newTestClient(t, server.URL)

			_, err := client.GetQuote(context.Background(), "AAPL")
			if err == nil {
				t.Fatal("GetQuote() expected error, got nil")
			}

			var fe *fetcher.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("GetQuote() error = %v, want *fetcher.FetchError", err)
			}
			if fe.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", fe.Type, tt.wantType)
			}
			if fe.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestClient_GetQuote_ThrottleMessagePreserved(t *testing.T) {
	notice := "Thank you for using Alpha Vantage! Please consider spreading out your free API requests."
	server := jsonServer(t, http.StatusOK, `{"Note": "`+notice+`", "Global Quote": {"05. price": "9.99"}}`)
	client := newTestClient(t, server.URL)

	_, err := client.GetQuote(context.Background(), "AAPL")

	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("GetQuote() error = %v, want *fetcher.FetchError", err)
	}
	if fe.Message != notice {
		t.Errorf("Message = %q, want %q", fe.Message, notice)
	}
}

func TestClient_GetQuote_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestClient(t, url)

	_, err := client.GetQuote(context.Background(), "AAPL")
	if !fetcher.IsType(err, fetcher.ErrorTypeTransport) {
		t.Errorf("GetQuote() error = %v, want transport", err)
	}
}

func TestClient_GetQuote_ContextCancellation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Server will be slow to respond
		<-r.Context().Done()
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.GetQuote(ctx, "AAPL")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("GetQuote() error = %v, want context.Canceled", err)
	}

	var fe *fetcher.FetchError
	if errors.As(err, &fe) {
		t.Errorf("cancellation surfaced as %q FetchError, want bare context error", fe.Type)
	}
}

func TestClient_GetQuote_RateLimiterDeadline(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `{"Global Quote": {"05. price": "1"}}`)

	limiter := ratelimit.New()
	limiter.SetRate(ratelimit.APIAlphaVantage, 1)
	client := newTestClient(t, server.URL, WithLimiter(limiter))

	if _, err := client.GetQuote(context.Background(), "AAPL"); err != nil {
		t.Fatalf("first GetQuote() returned unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetQuote(ctx, "AAPL")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("second GetQuote() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestClient_GetExchangeRate_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("function"); got != "CURRENCY_EXCHANGE_RATE" {
			t.Errorf("function = %q, want CURRENCY_EXCHANGE_RATE", got)
		}
		if got := q.Get("from_currency"); got != "XAU" {
			t.Errorf("from_currency = %q, want XAU", got)
		}
		if got := q.Get("to_currency"); got != "USD" {
			t.Errorf("to_currency = %q, want USD", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"Realtime Currency Exchange Rate": {
				"1. From_Currency Code": "XAU",
				"3. To_Currency Code": "USD",
				"5. Exchange Rate": "2650.12",
				"6. Last Refreshed": "2024-11-15 14:02:01",
				"8. Bid Price": "2650.01",
				"9. Ask Price": "2650.50"
			}
		}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := newTestClient(t, server.URL)

	rate, err := client.GetGoldPrice(context.Background())
	if err != nil {
		t.Fatalf("GetGoldPrice() returned unexpected error: %v", err)
	}

	if rate.Pair != "XAU/USD" {
		t.Errorf("Pair = %q, want XAU/USD", rate.Pair)
	}
	if got := rate.Price.String(); got != "2650.12" {
		t.Errorf("Price = %s, want 2650.12", got)
	}
	if got := rate.Ask.String(); got != "2650.5" {
		t.Errorf("Ask = %s, want 2650.5", got)
	}
	if rate.LastRefreshed != "2024-11-15 14:02:01" {
		t.Errorf("LastRefreshed = %q, want 2024-11-15 14:02:01", rate.LastRefreshed)
	}
}

func TestClient_GetExchangeRate_InvalidInput(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")

	tests := []struct{ from, to string }{
		{"", "USD"},
		{"XAU", ""},
		{"  ", "  "},
	}

	for _, tt := range tests {
		_, err := client.GetExchangeRate(context.Background(), tt.from, tt.to)
		if !fetcher.IsType(err, fetcher.ErrorTypeInvalidInput) {
			t.Errorf("GetExchangeRate(%q, %q) error = %v, want invalid_input", tt.from, tt.to, err)
		}
	}
}
