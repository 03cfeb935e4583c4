package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketquotes/internal/fetcher"
	"marketquotes/internal/normalize"
)

// statusClientClosedRequest is nginx's code for a caller that went away mid-request
const statusClientClosedRequest = 499

// problem is the error body returned for every failed lookup
type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getQuote returns the normalized quote for a stock symbol
func (s *Server) getQuote(c *gin.Context) {
	symbol := c.Param("symbol")
	if strings.TrimSpace(symbol) == "" {
		writeProblem(c, http.StatusBadRequest, "Missing symbol", "A stock symbol is required.")
		return
	}

	quote, err := s.provider.GetQuote(c.Request.Context(), symbol)
	if err != nil {
		s.writeError(c, err, "symbol", symbol)
		return
	}

	c.JSON(http.StatusOK, newQuoteResponse(quote))
}

// getGoldPrice returns the XAU/USD exchange rate
func (s *Server) getGoldPrice(c *gin.Context) {
	s.exchangeRate(c, "XAU", "USD")
}

// getExchangeRate returns the exchange rate for an arbitrary pair
func (s *Server) getExchangeRate(c *gin.Context) {
	s.exchangeRate(c, c.Param("from"), c.Param("to"))
}

func (s *Server) exchangeRate(c *gin.Context, from, to string) {
	rate, err := s.provider.GetExchangeRate(c.Request.Context(), from, to)
	if err != nil {
		s.writeError(c, err, "pair", normalize.Pair(from, to))
		return
	}

	c.JSON(http.StatusOK, newExchangeRateResponse(rate))
}

// writeError maps a classified failure onto an HTTP status
func (s *Server) writeError(c *gin.Context, err error, attrKey, attrValue string) {
	log := s.logger.With(attrKey, attrValue, "request_id", c.GetString(requestIDKey))

	// A FetchError may wrap the transport's own deadline; only a bare context
	// error is the caller going away.
	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Debug("request cancelled by caller", "error", err)
			c.AbortWithStatus(statusClientClosedRequest)
			return
		}

		log.Error("unexpected error while retrieving market data", "error", err)
		writeProblem(c, http.StatusInternalServerError, "Unexpected error",
			"An unexpected error occurred while retrieving market data.")
		return
	}

	switch fe.Type {
	case fetcher.ErrorTypeInvalidInput:
		log.Info("rejected invalid input", "error", err)
		writeProblem(c, http.StatusBadRequest, "Invalid input", fe.Message)
	case fetcher.ErrorTypeNotFound:
		log.Warn("no data returned", "error", err)
		writeProblem(c, http.StatusNotFound, "Quote not found", fe.Message)
	case fetcher.ErrorTypeThrottled, fetcher.ErrorTypeInformational, fetcher.ErrorTypeProvider:
		log.Warn("alpha vantage signaled a non-data condition", "type", fe.Type, "error", err)
		writeProblem(c, http.StatusServiceUnavailable, "Alpha Vantage unavailable", fe.Message)
	case fetcher.ErrorTypeTransport:
		log.Error("network error while calling alpha vantage", "status_code", fe.StatusCode, "error", err)
		writeProblem(c, http.StatusServiceUnavailable, "Network error", fe.Message)
	default:
		log.Error("unclassified fetch error", "error", err)
		writeProblem(c, http.StatusInternalServerError, "Unexpected error",
			"An unexpected error occurred while retrieving market data.")
	}
}

func writeProblem(c *gin.Context, status int, title, detail string) {
	c.AbortWithStatusJSON(status, problem{Title: title, Detail: detail, Status: status})
}
