// Package normalize turns raw Alpha Vantage payloads into QuoteRecord and
// ExchangeRateRecord values.
//
// Provider failure signals share the top-level namespace with data, so every
// call runs DetectAnomaly before touching a field. Once extraction starts no
// further error is raised: a missing or malformed field degrades to zero or "".
package normalize

import (
	"fmt"
	"strings"
	"time"

	"marketquotes/internal/fetcher"
)

// Nested data objects per endpoint.
const (
	GlobalQuoteKey  = "Global Quote"
	ExchangeRateKey = "Realtime Currency Exchange Rate"
)

// GLOBAL_QUOTE fields.
const (
	fieldSymbol        = "01. symbol"
	fieldOpen          = "02. open"
	fieldHigh          = "03. high"
	fieldLow           = "04. low"
	fieldPrice         = "05. price"
	fieldPreviousClose = "08. previous close"
	fieldChange        = "09. change"
	fieldChangePercent = "10. change percent"
)

// CURRENCY_EXCHANGE_RATE fields.
const (
	fieldExchangeRate  = "5. Exchange Rate"
	fieldLastRefreshed = "6. Last Refreshed"
	fieldBidPrice      = "8. Bid Price"
	fieldAskPrice      = "9. Ask Price"
)

// Normalizer builds records from raw payloads. Now stamps the capture time.
type Normalizer struct {
	Now func() time.Time
}

// New returns a Normalizer using the wall clock.
func New() *Normalizer {
	return &Normalizer{Now: time.Now}
}

var defaultNormalizer = New()

// NormalizeQuote normalizes a GLOBAL_QUOTE response for symbol.
func NormalizeQuote(symbol string, raw []byte) (QuoteRecord, error) {
	return defaultNormalizer.Quote(symbol, raw)
}

// NormalizeExchangeRate normalizes a CURRENCY_EXCHANGE_RATE response for from/to.
func NormalizeExchangeRate(from, to string, raw []byte) (ExchangeRateRecord, error) {
	return defaultNormalizer.ExchangeRate(from, to, raw)
}

// Quote normalizes a GLOBAL_QUOTE response.
func (n *Normalizer) Quote(symbol string, raw []byte) (QuoteRecord, error) {
	if strings.TrimSpace(symbol) == "" {
		return QuoteRecord{}, fetcher.NewInvalidInputError("symbol cannot be empty")
	}

	doc, err := ParseDocument(raw)
	if err != nil {
		return QuoteRecord{}, fetcher.NewMalformedResponseError(err)
	}

	if a := DetectAnomaly(doc, GlobalQuoteKey); a != nil {
		return QuoteRecord{}, a.Err(fmt.Sprintf("No quote data returned for symbol '%s'.", symbol))
	}
	obj, _ := doc.object(GlobalQuoteKey)

	price := Decimal(obj, fieldPrice)
	prev := Decimal(obj, fieldPreviousClose)
	change, changePercent := DeriveChange(price, prev, Decimal(obj, fieldChange), Percent(obj, fieldChangePercent))

	return QuoteRecord{
		Symbol:        Symbol(obj, fieldSymbol, symbol),
		Price:         price,
		Open:          Decimal(obj, fieldOpen),
		High:          Decimal(obj, fieldHigh),
		Low:           Decimal(obj, fieldLow),
		PreviousClose: prev,
		Change:        change,
		ChangePercent: changePercent,
		CaptureTimeMs: n.captureTimeMs(),
	}, nil
}

// ExchangeRate normalizes a CURRENCY_EXCHANGE_RATE response. Bid and ask are
// zero when the feed omits them.
func (n *Normalizer) ExchangeRate(from, to string, raw []byte) (ExchangeRateRecord, error) {
	if strings.TrimSpace(from) == "" {
		return ExchangeRateRecord{}, fetcher.NewInvalidInputError("source currency cannot be empty")
	}
	if strings.TrimSpace(to) == "" {
		return ExchangeRateRecord{}, fetcher.NewInvalidInputError("target currency cannot be empty")
	}

	doc, err := ParseDocument(raw)
	if err != nil {
		return ExchangeRateRecord{}, fetcher.NewMalformedResponseError(err)
	}

	if a := DetectAnomaly(doc, ExchangeRateKey); a != nil {
		return ExchangeRateRecord{}, a.Err("Alpha Vantage response did not include exchange rate data.")
	}
	obj, _ := doc.object(ExchangeRateKey)

	return ExchangeRateRecord{
		Pair:          Pair(from, to),
		Price:         Decimal(obj, fieldExchangeRate),
		Bid:           Decimal(obj, fieldBidPrice),
		Ask:           Decimal(obj, fieldAskPrice),
		LastRefreshed: String(obj, fieldLastRefreshed),
		CaptureTimeMs: n.captureTimeMs(),
	}, nil
}

// Pair formats a currency pair the way ExchangeRateRecord carries it.
func Pair(from, to string) string {
	return from + "/" + to
}

func (n *Normalizer) captureTimeMs() int64 {
	now := n.Now
	if now == nil {
		now = time.Now
	}
	return now().UnixMilli()
}
