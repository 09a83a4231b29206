// Package httpapi exposes the proxy's HTTP surface: wallet activity,
// token metadata, notification relay, health and metrics.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"solana-proxy/internal/observability"
)

// Server routes requests to the retrieval engine, the metadata resolver and
// the notification relay.
type Server struct {
	port          int
	rpcEndpoint   string
	hasCredential bool
	activity      ActivityService
	resolver      MetadataService
	notifier      NotifyService
	logger        *zap.Logger

	httpServer *http.Server
}

// Options for creating a Server.
type Options struct {
	Port          int
	RPCEndpoint   string
	HasCredential bool
	Activity      ActivityService
	Resolver      MetadataService
	Notifier      NotifyService
	Logger        *zap.Logger
}

// New creates a Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		port:          opts.Port,
		rpcEndpoint:   opts.RPCEndpoint,
		hasCredential: opts.HasCredential,
		activity:      opts.Activity,
		resolver:      opts.Resolver,
		notifier:      opts.Notifier,
		logger:        logger,
	}
}

// Handler returns the full route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/helius-fast", s.handleActivityFast)
	mux.HandleFunc("/api/helius", s.handleActivitySlow)
	mux.HandleFunc("/api/token-metadata", s.handleTokenMetadata)
	mux.HandleFunc("/api/mint-born", s.handleMintBorn)
	mux.HandleFunc("/api/notify-swap", s.handleNotifySwap)
	mux.HandleFunc("/api/notify-buy", s.handleNotifyBuy)
	mux.Handle("/metrics", observability.Handler())

	return s.withMiddleware(mux)
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info("http server listening", zap.Int("port", s.port))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}
