package normalize

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// QuoteRecord is the normalized stock quote. Monetary fields may be zero when
// the provider did not supply them. ChangePercent is in percent, not a fraction.
type QuoteRecord struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	PreviousClose decimal.Decimal `json:"prevClose"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	CaptureTimeMs int64           `json:"tsUnixMs"`
}

func (q QuoteRecord) String() string {
	return fmt.Sprintf("%s $%s (%s, %s%%)",
		q.Symbol, q.Price.StringFixed(2), signed(q.Change, 2), signed(q.ChangePercent, 3))
}

// ExchangeRateRecord is the normalized currency exchange rate.
// LastRefreshed is the provider's timestamp string, passed through unmodified.
type ExchangeRateRecord struct {
	Pair          string          `json:"pair"`
	Price         decimal.Decimal `json:"price"`
	Bid           decimal.Decimal `json:"bid"`
	Ask           decimal.Decimal `json:"ask"`
	LastRefreshed string          `json:"lastRefreshed"`
	CaptureTimeMs int64           `json:"tsUnixMs"`
}

func (r ExchangeRateRecord) String() string {
	return fmt.Sprintf("%s %s (bid %s, ask %s)", r.Pair, r.Price.String(), r.Bid.String(), r.Ask.String())
}

func signed(d decimal.Decimal, places int32) string {
	if d.IsNegative() {
		return d.StringFixed(places)
	}
	return "+" + d.StringFixed(places)
}
