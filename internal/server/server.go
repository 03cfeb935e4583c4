package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"marketquotes/internal/normalize"
)

const shutdownTimeout = 10 * time.Second

// QuoteProvider is the core the routes call into.
//
//go:generate mockgen -package=server -destination=mock_provider_test.go -source=server.go QuoteProvider
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (normalize.QuoteRecord, error)
	GetExchangeRate(ctx context.Context, from, to string) (normalize.ExchangeRateRecord, error)
}

// Server exposes normalized quotes over HTTP
type Server struct {
	provider QuoteProvider
	logger   *slog.Logger
	engine   *gin.Engine
}

// New builds the router. An empty allowedOrigins disables CORS handling.
func New(provider QuoteProvider, logger *slog.Logger, allowedOrigins []string) *Server {
	s := &Server{
		provider: provider,
		logger:   logger,
		engine:   gin.New(),
	}

	s.engine.Use(gin.Recovery(), requestID(), requestLogger(logger))
	if len(allowedOrigins) > 0 {
		s.engine.Use(cors.New(cors.Config{
			AllowOrigins:  allowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
			ExposeHeaders: []string{"Content-Length", requestIDHeader},
			MaxAge:        24 * time.Hour,
		}))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api")
	api.GET("/stocks/quote/:symbol", s.getQuote)
	api.GET("/market/gold/price", s.getGoldPrice)
	api.GET("/market/fx/:from/:to", s.getExchangeRate)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
