package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"marketquotes/internal/alphavantage"
	"marketquotes/internal/config"
	"marketquotes/internal/coordinator"
	"marketquotes/internal/fetcher"
	"marketquotes/internal/ratelimit"
	"marketquotes/internal/server"
)

const snapshotTimeout = 30 * time.Second

func main() {
	// .env is optional; real environment variables still win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	client, err := newClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create Alpha Vantage client: %v", err)
	}

	// Cancel in-flight work on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "snapshot" {
		os.Exit(runSnapshot(ctx, cfg, client))
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(client, logger, cfg.CORSAllowedOrigins)
	if err := srv.Run(ctx, cfg.ListenAddr); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newClient(cfg *config.Config) (*alphavantage.Client, error) {
	limiter := ratelimit.New()
	limiter.SetRate(ratelimit.APIAlphaVantage, cfg.AlphavantageRequestsPerMinute)

	return alphavantage.NewClient(cfg.AlphavantageAPIKey,
		alphavantage.WithHTTPClient(fetcher.NewHTTPClient(cfg.AlphavantageBaseURL, cfg.HTTPTimeout, cfg.HTTPRetryCount)),
		alphavantage.WithLimiter(limiter),
	)
}

// runSnapshot fetches every configured symbol and pair once and returns the exit code
func runSnapshot(ctx context.Context, cfg *config.Config, client *alphavantage.Client) int {
	pairs, err := cfg.Pairs()
	if err != nil {
		slog.Error("invalid currency pairs", "error", err)
		return 1
	}

	var fetchers []fetcher.Fetcher
	for _, symbol := range cfg.StockSymbols {
		fetchers = append(fetchers, alphavantage.NewStockFetcher(client, symbol))
	}
	for _, pair := range pairs {
		fetchers = append(fetchers, alphavantage.NewFXFetcher(client, pair.From, pair.To))
	}

	fetchCtx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	coord := coordinator.New(fetchers, os.Stdout)
	failed, err := coord.Run(fetchCtx)
	if err != nil {
		slog.Error("snapshot failed", "error", err)
		return 1
	}
	if failed > 0 {
		return 2
	}
	return 0
}
