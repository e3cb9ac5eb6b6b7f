package rpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"sidecar/jsonrpc"
	"sidecar/node"
	"sidecar/observability"
	"sidecar/rpc/middleware"
)

const (
	serverNameRPC         = "json-rpc"
	serverNameSpeculative = "speculative-exec"
)

// ServerConfig carries the admission-control and transport settings of one
// serving variant.
type ServerConfig struct {
	Address string
	// QPSLimit is a global requests-per-second ceiling; 0 disables it.
	QPSLimit float64
	// MaxBodyBytes is the raw body ceiling applied before parsing.
	MaxBodyBytes int64
	// CorsOrigin is "" (disabled), "*" (any origin) or one specific origin.
	CorsOrigin string
	// AuthToken, when set, is required as a bearer token on the
	// transaction-submission methods.
	AuthToken string
	// MethodLimits holds per-method admission policies keyed by method name;
	// methods not present are unrestricted.
	MethodLimits map[string]jsonrpc.ConfigLimit
	LogRequests  bool
}

// Server hosts one JSON-RPC serving variant over HTTP. Both variants share
// the dispatch core and differ only in their registered method set and
// admission defaults.
type Server struct {
	name     string
	cfg      ServerConfig
	logger   *slog.Logger
	handlers *jsonrpc.Handlers
	limits   *jsonrpc.MethodLimits
	obs      *middleware.Observability

	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer builds the standard serving variant: the full node-query and
// transaction-submission method set behind a global QPS ceiling.
func NewServer(client node.Client, logger *slog.Logger, cfg ServerConfig) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("server", serverNameRPC)

	obs := middleware.NewObservability(middleware.ObservabilityConfig{
		ServiceName:   "sidecar",
		MetricsPrefix: "sidecar",
		LogRequests:   cfg.LogRequests,
	}, logger)
	metrics := observability.NewRPCMetrics(obs.Registerer(), "sidecar")

	builder := jsonrpc.NewHandlersBuilder(logger, metrics)
	limits := jsonrpc.NewMethodLimits()

	chain := &chainAPI{node: client}
	info := &infoAPI{node: client}
	account := &accountAPI{node: client, token: cfg.AuthToken}
	state := &stateAPI{node: client}

	registerMethod(builder, limits, cfg.MethodLimits, MethodPutDeploy, account.putDeploy)
	registerMethod(builder, limits, cfg.MethodLimits, MethodPutTransaction, account.putTransaction)
	registerMethod(builder, limits, cfg.MethodLimits, MethodGetBlock, chain.getBlock)
	registerMethod(builder, limits, cfg.MethodLimits, MethodGetBlockTransfers, chain.getBlockTransfers)
	registerMethod(builder, limits, cfg.MethodLimits, MethodGetStateRootHash, chain.getStateRootHash)
	registerMethod(builder, limits, cfg.MethodLimits, MethodGetEraSummary, chain.getEraSummary)
	registerMethod(builder, limits, cfg.MethodLimits, MethodGetDeploy, info.getDeploy)
	registerMethod(builder, limits, cfg.MethodLimits, MethodGetTransaction, info.getTransaction)
	registerMethod(builder, limits, cfg.MethodLimits, MethodGetStatus, info.getStatus)
	registerMethod(builder, limits, cfg.MethodLimits, MethodGetPeers, info.getPeers)
	registerMethod(builder, limits, cfg.MethodLimits, MethodGetChainspec, info.getChainspec)
	registerMethod(builder, limits, cfg.MethodLimits, MethodGetBalance, state.getBalance)
	registerMethod(builder, limits, cfg.MethodLimits, MethodQueryBalance, state.queryBalance)
	registerDiscover(builder, limits, cfg.MethodLimits)

	return &Server{
		name:     serverNameRPC,
		cfg:      cfg,
		logger:   logger,
		handlers: builder.Build(),
		limits:   limits,
		obs:      obs,
	}
}

// NewSpeculativeServer builds the speculative-execution variant: a small,
// expensive method set where each method carries its own admission limit
// instead of one global ceiling.
func NewSpeculativeServer(client node.Client, logger *slog.Logger, cfg ServerConfig) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("server", serverNameSpeculative)

	obs := middleware.NewObservability(middleware.ObservabilityConfig{
		ServiceName:   "sidecar",
		MetricsPrefix: "sidecar_speculative",
		LogRequests:   cfg.LogRequests,
	}, logger)
	metrics := observability.NewRPCMetrics(obs.Registerer(), "sidecar_speculative")

	builder := jsonrpc.NewHandlersBuilder(logger, metrics)
	limits := jsonrpc.NewMethodLimits()

	speculative := &speculativeAPI{node: client}
	registerMethod(builder, limits, cfg.MethodLimits, MethodSpeculativeExec, speculative.execDeploy)
	registerMethod(builder, limits, cfg.MethodLimits, MethodSpeculativeExecTxn, speculative.execTransaction)
	registerDiscover(builder, limits, cfg.MethodLimits)

	return &Server{
		name:     serverNameSpeculative,
		cfg:      cfg,
		logger:   logger,
		handlers: builder.Build(),
		limits:   limits,
		obs:      obs,
	}
}

// Handlers exposes the frozen handler set, mainly for tests.
func (s *Server) Handlers() *jsonrpc.Handlers {
	return s.handlers
}

// Router assembles the HTTP surface: the JSON-RPC endpoint plus health and
// metrics exposition.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORS(s.cfg.CorsOrigin))
	r.Use(s.obs.Middleware(s.name))
	r.Use(withBearerToken)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.obs.MetricsHandler())
	r.Method(http.MethodPost, "/rpc", jsonrpc.NewHTTPHandler(s.handlers, jsonrpc.HandlerConfig{
		MaxBodyBytes: s.cfg.MaxBodyBytes,
		QPSLimit:     s.cfg.QPSLimit,
		MethodLimits: s.limits,
		Logger:       s.logger,
	}))
	return r
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve runs the HTTP server on the given listener, blocking until the
// server is shut down or fails.
func (s *Server) Serve(listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("json-rpc server listening", "address", listener.Addr().String())
	err := srv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, waiting for in-flight requests up
// to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
