package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/teckmodel/aptai/internal/analyzer"
	"github.com/teckmodel/aptai/internal/chain"
	"github.com/teckmodel/aptai/internal/chat"
	"github.com/teckmodel/aptai/internal/holders"
	"github.com/teckmodel/aptai/internal/logger"
	"github.com/teckmodel/aptai/internal/nftmarket"
	"github.com/teckmodel/aptai/internal/pricing"
	"github.com/teckmodel/aptai/internal/yield"
)

var webLogger = logger.GetForComponent("web_server")

// Server exposes the aggregation and analytics pipelines over HTTP. It is
// the routing-and-formatting shell; all domain behavior lives in the
// injected components.
type Server struct {
	router *mux.Router
	port   string

	resolver *pricing.Resolver
	facade   *analyzer.Facade
	nft      *nftmarket.Aggregator
	holders  *holders.Fetcher
	yield    *yield.Engine
	chain    *chain.Client
	chat     *chat.Client
}

// NewServer wires the HTTP API over the given components.
func NewServer(
	port string,
	resolver *pricing.Resolver,
	facade *analyzer.Facade,
	nft *nftmarket.Aggregator,
	holderFetcher *holders.Fetcher,
	yieldEngine *yield.Engine,
	chainClient *chain.Client,
	chatClient *chat.Client,
) *Server {
	if port == "" {
		port = "8080"
	}

	s := &Server{
		router:   mux.NewRouter(),
		port:     port,
		resolver: resolver,
		facade:   facade,
		nft:      nft,
		holders:  holderFetcher,
		yield:    yieldEngine,
		chain:    chainClient,
		chat:     chatClient,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/price", s.handlePrice).Methods("GET")
	api.HandleFunc("/analyze/{token}", s.handleAnalyze).Methods("GET")
	api.HandleFunc("/nft/{collection}", s.handleNFT).Methods("GET")
	api.HandleFunc("/holders/{address}", s.handleHolders).Methods("GET")
	api.HandleFunc("/yield/strategies", s.handleYieldStrategies).Methods("GET")
	api.HandleFunc("/balance/{address}", s.handleBalance).Methods("GET")
	api.HandleFunc("/transactions/{address}", s.handleTransactions).Methods("GET")
	api.HandleFunc("/chat", s.handleChat).Methods("POST")
	api.HandleFunc("/insights/{token}", s.handleInsights).Methods("GET")

	s.router.Use(s.corsMiddleware)
	s.router.Use(s.loggingMiddleware)
}

// Start starts the web server and blocks.
func (s *Server) Start() error {
	webLogger.Info().Str("port", s.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"component": "aptai-analytics-engine",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	quote, err := s.resolver.Resolve(r.Context(), query)
	if err != nil {
		s.writeDomainError(w, err, "Token not found on any supported price source")
		return
	}

	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	report, err := s.facade.AnalyzeToken(r.Context(), token)
	if err != nil {
		s.writeDomainError(w, err, "Unable to analyze token metrics")
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleNFT(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]

	snapshot, err := s.nft.Fetch(r.Context(), collection)
	if err != nil {
		s.writeDomainError(w, err, "No NFT data found across marketplaces")
		return
	}

	s.writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleHolders(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	records, err := s.holders.TokenHolders(r.Context(), address)
	if err != nil {
		s.writeDomainError(w, err, "No holder data found")
		return
	}

	balances := holders.Balances(records)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"holders":            records,
		"count":              len(records),
		"gini_coefficient":   holders.Gini(balances),
		"top5_concentration": holders.ConcentrationTop5(balances),
	})
}

func (s *Server) handleYieldStrategies(w http.ResponseWriter, r *http.Request) {
	strategies, err := s.yield.Strategies(r.Context())
	if err != nil {
		s.writeDomainError(w, err, "Unable to rank yield strategies")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"strategies": strategies,
		"count":      len(strategies),
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	balance, err := s.chain.AptBalance(r.Context(), address)
	if err != nil {
		s.writeDomainError(w, err, "Unable to fetch balance")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"address": address,
		"balance": balance,
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	report, err := s.chain.AccountTransactions(r.Context(), address, limit)
	if err != nil {
		s.writeDomainError(w, err, "Unable to fetch transactions")
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		s.writeError(w, http.StatusBadRequest, "A non-empty prompt is required")
		return
	}

	reply, err := s.chat.Complete(r.Context(), req.Prompt)
	if err != nil {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"warning": chat.UserFacingMessage(err),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	report, err := s.facade.AnalyzeToken(r.Context(), token)
	if err != nil {
		s.writeDomainError(w, err, "Unable to generate insights")
		return
	}

	reply, err := s.chat.Complete(r.Context(), chat.InsightsPrompt(report))
	if err != nil {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"report":  report,
			"warning": chat.UserFacingMessage(err),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"report":   report,
		"insights": reply,
	})
}

// corsMiddleware adds CORS headers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests with a per-request ID.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		webLogger.Info().
			Str("requestId", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code.
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
