// Package rest serves the economy over JSON HTTP. Every route delegates to
// the gRPC service implementation so both transports share validation and
// error codes.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/KirkDiggler/funko-battle/internal/errors"
	v1alpha1 "github.com/KirkDiggler/funko-battle/internal/handlers/economy/v1alpha1"
	"github.com/KirkDiggler/funko-battle/internal/metrics"
)

const maxBodyBytes = 1 << 20

// Config holds dependencies for the router
type Config struct {
	Economy v1alpha1.EconomyServiceServer

	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *RateLimiter
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Economy == nil {
		vb.RequiredField("Economy")
	}
	return vb.Build()
}

type server struct {
	economy v1alpha1.EconomyServiceServer
}

// NewRouter builds the HTTP routes
func NewRouter(cfg *Config) (*mux.Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &server{economy: cfg.Economy}

	router := mux.NewRouter()
	router.Use(metrics.InstrumentHandler)

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Middleware)
	}

	api.HandleFunc("/user", s.handleCreateUser).Methods(http.MethodPost)
	api.HandleFunc("/user/{id}", s.handleGetUser).Methods(http.MethodGet)
	api.HandleFunc("/user/{id}/collectibles", s.handleListCollectibles).Methods(http.MethodGet)
	api.HandleFunc("/mystery-box", s.handleOpenBox).Methods(http.MethodPost)
	api.HandleFunc("/battle/start", s.handleStartBattle).Methods(http.MethodPost)
	api.HandleFunc("/battle/{id}", s.handleGetBattle).Methods(http.MethodGet)
	api.HandleFunc("/exchange", s.handleExchange).Methods(http.MethodPost)
	api.HandleFunc("/exchange/rates", s.handleRates).Methods(http.MethodGet)

	return router, nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createUserBody accepts a generic external identity or, as the first
// client did, a numeric telegram_id
type createUserBody struct {
	ExternalIdentity string      `json:"external_identity"`
	TelegramID       json.Number `json:"telegram_id"`
}

func (s *server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body createUserBody
	if !decode(w, r, &body) {
		return
	}

	identity := strings.TrimSpace(body.ExternalIdentity)
	if identity == "" && body.TelegramID != "" {
		identity = "telegram:" + body.TelegramID.String()
	}

	resp, err := s.economy.GetOrCreateAccount(r.Context(), &v1alpha1.GetOrCreateAccountRequest{
		ExternalIdentity: identity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp.Account)
}

func (s *server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	resp, err := s.economy.GetAccount(r.Context(), &v1alpha1.GetAccountRequest{UserID: mux.Vars(r)["id"]})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Account)
}

func (s *server) handleListCollectibles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.economy.ListCollectibles(r.Context(), &v1alpha1.ListCollectiblesRequest{
		UserID: mux.Vars(r)["id"],
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleOpenBox(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.OpenBoxRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := s.economy.OpenBox(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleStartBattle(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.StartBattleRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := s.economy.StartBattle(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	resp, err := s.economy.GetBattle(r.Context(), &v1alpha1.GetBattleRequest{BattleID: mux.Vars(r)["id"]})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Battle)
}

func (s *server) handleExchange(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.ExchangeRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := s.economy.Exchange(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleRates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.economy.GetExchangeRates(r.Context(), &v1alpha1.GetExchangeRatesRequest{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, errors.InvalidArgumentf("invalid JSON body: %v", err))
		return false
	}
	return true
}

// errorBody is the JSON shape of every failed request
type errorBody struct {
	Error string                 `json:"error"`
	Code  errors.Code            `json:"code"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = errors.FromGRPCError(err)
	code := errors.GetCode(err)
	status := code.HTTPStatus()

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", code,
			"error", err)
	}

	if code == errors.CodeResourceExhausted {
		w.Header().Set("Retry-After", "1")
	}

	writeJSON(w, status, errorBody{
		Error: errors.GetMessage(err),
		Code:  code,
		Meta:  errors.GetMeta(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
