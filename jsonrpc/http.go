package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

// Transport-level rejection messages. These bypass the JSON-RPC error
// envelope entirely: the JSON-RPC specification forbids responding to a
// notification, yet this server requires every inbound message to be a true
// request, so both cases surface as plain HTTP failures.
const (
	missingIDMessage   = "The request is missing the 'id' field"
	bodyTooLargeFormat = "The request payload exceeds the maximum allowed of %d bytes"
)

// HandlerConfig configures the HTTP entry point for one serving variant.
type HandlerConfig struct {
	// MaxBodyBytes is the raw request body ceiling; 0 disables the check.
	MaxBodyBytes int64
	// QPSLimit is a global requests-per-second ceiling across all methods;
	// 0 disables it.
	QPSLimit float64
	// MethodLimits holds per-method token buckets; nil disables them.
	MethodLimits *MethodLimits
	Logger       *slog.Logger
}

// NewHTTPHandler returns the http.Handler serving JSON-RPC POST requests
// against the given frozen handler set. Admission checks (body size, id
// presence, rate quotas) run before dispatch so over-quota traffic never
// reaches a handler.
func NewHTTPHandler(handlers *Handlers, cfg HandlerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var global *rate.Limiter
	if cfg.QPSLimit > 0 {
		burst := int(cfg.QPSLimit)
		if burst < 1 {
			burst = 1
		}
		global = rate.NewLimiter(rate.Limit(cfg.QPSLimit), burst)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "json-rpc requests must use POST", http.StatusMethodNotAllowed)
			return
		}

		reader := r.Body
		if cfg.MaxBodyBytes > 0 {
			reader = http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes)
		}
		body, err := io.ReadAll(reader)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				logger.Debug("rejected oversized request body", "limit", cfg.MaxBodyBytes)
				http.Error(w, fmt.Sprintf(bodyTooLargeFormat, cfg.MaxBodyBytes), http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			logger.Debug("failed to parse json-rpc request", "error", err)
			http.Error(w, "failed to parse json-rpc request", http.StatusBadRequest)
			return
		}
		if req.JSONRPC != "" && req.JSONRPC != Version {
			http.Error(w, fmt.Sprintf("unsupported jsonrpc version %q", req.JSONRPC), http.StatusBadRequest)
			return
		}
		if req.IsNotification() {
			logger.Debug("rejected notification", "method", req.Method)
			http.Error(w, missingIDMessage, http.StatusBadRequest)
			return
		}

		if global != nil && !global.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		if !cfg.MethodLimits.Allow(req.Method) {
			logger.Debug("rejected over-quota request", "method", req.Method)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		resp := handlers.HandleRequest(r.Context(), req, len(body))
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to write json-rpc response", "method", req.Method, "error", err)
		}
	})
}
