package server

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"marketquotes/internal/normalize"
)

// Wire shapes for the browser client. Decimals go out as JSON numbers.

type quoteResponse struct {
	Symbol        string      `json:"symbol"`
	Price         json.Number `json:"price"`
	Open          json.Number `json:"open"`
	High          json.Number `json:"high"`
	Low           json.Number `json:"low"`
	PrevClose     json.Number `json:"prevClose"`
	Change        json.Number `json:"change"`
	ChangePercent json.Number `json:"changePercent"`
	TsUnixMs      int64       `json:"tsUnixMs"`
}

type exchangeRateResponse struct {
	Pair          string      `json:"pair"`
	Price         json.Number `json:"price"`
	Bid           json.Number `json:"bid"`
	Ask           json.Number `json:"ask"`
	LastRefreshed string      `json:"lastRefreshed"`
	TsUnixMs      int64       `json:"tsUnixMs"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func newQuoteResponse(q normalize.QuoteRecord) quoteResponse {
	return quoteResponse{
		Symbol:        q.Symbol,
		Price:         number(q.Price),
		Open:          number(q.Open),
		High:          number(q.High),
		Low:           number(q.Low),
		PrevClose:     number(q.PreviousClose),
		Change:        number(q.Change),
		ChangePercent: number(q.ChangePercent),
		TsUnixMs:      q.CaptureTimeMs,
	}
}

func newExchangeRateResponse(r normalize.ExchangeRateRecord) exchangeRateResponse {
	return exchangeRateResponse{
		Pair:          r.Pair,
		Price:         number(r.Price),
		Bid:           number(r.Bid),
		Ask:           number(r.Ask),
		LastRefreshed: r.LastRefreshed,
		TsUnixMs:      r.CaptureTimeMs,
	}
}
