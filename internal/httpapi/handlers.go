package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"solana-proxy/internal/activity"
	"solana-proxy/internal/domain"
	"solana-proxy/internal/upstream"
)

// ActivityService is the retrieval engine behind the wallet endpoints.
type ActivityService interface {
	FetchWalletActivity(ctx context.Context, wallet string, limit int) ([]domain.TransactionRecord, domain.Source, error)
	FetchWalletActivitySlow(ctx context.Context, wallet string, limit int) ([]domain.TransactionRecord, error)
}

// MetadataService resolves token metadata and mint origin.
type MetadataService interface {
	ResolveToken(ctx context.Context, mint string) domain.TokenMetadata
	ResolveMintBorn(ctx context.Context, mint string) (int64, bool)
}

// NotifyService relays structured trade events to the messaging channel.
type NotifyService interface {
	Configured() bool
	NotifySwap(ctx context.Context, ev domain.SwapEvent) bool
	NotifyBuy(ctx context.Context, ev domain.BuyEvent) bool
}

// healthResponse is the JSON body of /api/health.
type healthResponse struct {
	OK                    bool   `json:"ok"`
	Port                  int    `json:"port"`
	HasCredential         bool   `json:"hasCredential"`
	HasNotifierConfigured bool   `json:"hasNotifierConfigured"`
	RPCEndpoint           string `json:"rpcEndpoint"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		OK:                    true,
		Port:                  s.port,
		HasCredential:         s.hasCredential,
		HasNotifierConfigured: s.notifier.Configured(),
		RPCEndpoint:           s.rpcEndpoint,
	})
}

func (s *Server) handleActivityFast(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	limit := queryInt(r, "limit")

	records, source, err := s.activity.FetchWalletActivity(r.Context(), wallet, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("X-Source", source.String())
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleActivitySlow(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	limit := queryInt(r, "limit")

	records, err := s.activity.FetchWalletActivitySlow(r.Context(), wallet, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleTokenMetadata(w http.ResponseWriter, r *http.Request) {
	mint := r.URL.Query().Get("mint")
	meta := s.resolver.ResolveToken(r.Context(), mint)
	writeJSON(w, http.StatusOK, meta)
}

// mintBornResponse carries the earliest known on-chain timestamp for a mint,
// or null when no provider knows it.
type mintBornResponse struct {
	BornTs *int64 `json:"bornTs"`
}

func (s *Server) handleMintBorn(w http.ResponseWriter, r *http.Request) {
	mint := r.URL.Query().Get("mint")
	resp := mintBornResponse{}
	if ts, ok := s.resolver.ResolveMintBorn(r.Context(), mint); ok {
		resp.BornTs = &ts
	}
	writeJSON(w, http.StatusOK, resp)
}

// notifyResponse reports whether the relay delivered the message.
type notifyResponse struct {
	OK bool `json:"ok"`
}

func (s *Server) handleNotifySwap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var ev domain.SwapEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	writeJSON(w, http.StatusOK, notifyResponse{OK: s.notifier.NotifySwap(r.Context(), ev)})
}

func (s *Server) handleNotifyBuy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var ev domain.BuyEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	writeJSON(w, http.StatusOK, notifyResponse{OK: s.notifier.NotifyBuy(r.Context(), ev)})
}

// writeError maps the error taxonomy onto HTTP statuses: configuration
// problems are the caller's fault, upstream failures carry the provider's
// status through, anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ue *upstream.Error
	switch {
	case activity.IsConfigurationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &ue):
		s.logger.Warn("upstream failure", zap.String("provider", ue.Provider), zap.Int("status", ue.Status), zap.Error(err))
		writeJSON(w, ue.Status, map[string]string{"error": err.Error()})
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// queryInt parses an integer query parameter; absent or non-numeric values
// come back as zero and let the engine pick its default.
func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
