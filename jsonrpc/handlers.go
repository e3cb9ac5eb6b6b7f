package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"
)

// UnknownHandlerLabel is the synthetic metric label recorded for requests
// naming a method with no registered handler, so unknown-method traffic does
// not pollute per-method statistics.
const UnknownHandlerLabel = "unknown-handler"

// Handler is the type-erased form of a registered request handler: its
// success value has already been serialized to raw JSON.
type Handler func(ctx context.Context, params json.RawMessage) (json.RawMessage, *Error)

// Metrics is the sink receiving one set of observations per dispatched
// request. Implementations must be safe for concurrent use.
type Metrics interface {
	IncMethodCall(method string)
	ObserveResponseTime(method, outcome string, elapsed time.Duration)
	RegisterRequestSize(method string, bytes int)
}

// HandlersBuilder accumulates request handlers before the set is frozen.
// There must be a unique handler per JSON-RPC "method"; registering twice
// under the same name logs an error and the second registration wins, since
// registration is driven by a fixed list in startup code rather than input.
type HandlersBuilder struct {
	logger   *slog.Logger
	metrics  Metrics
	handlers map[string]Handler
}

// NewHandlersBuilder returns an empty builder. A nil metrics sink disables
// metric recording.
func NewHandlersBuilder(logger *slog.Logger, metrics Metrics) *HandlersBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &HandlersBuilder{
		logger:   logger,
		metrics:  metrics,
		handlers: make(map[string]Handler),
	}
}

// RegisterHandler adds a handler for all requests naming the given method.
// The handler's native success type T is serialized at registration-wrap time
// so heterogeneous result types can live in one homogeneous map; an encoding
// failure is logged and surfaced to the caller as an internal error, never a
// success.
func RegisterHandler[T any](b *HandlersBuilder, method string, handler func(ctx context.Context, params json.RawMessage) (T, *Error)) {
	logger := b.logger
	wrapped := func(ctx context.Context, params json.RawMessage) (json.RawMessage, *Error) {
		result, rpcErr := handler(ctx, params)
		if rpcErr != nil {
			return nil, rpcErr
		}
		encoded, err := json.Marshal(result)
		if err != nil {
			logger.Error("failed to encode json-rpc response value", "method", method, "error", err)
			return nil, NewError(CodeInternalError, fmt.Sprintf("failed to encode json-rpc response value: %v", err))
		}
		return encoded, nil
	}
	b.Register(method, wrapped)
}

// Register adds an already type-erased handler under the given method name.
func (b *HandlersBuilder) Register(method string, handler Handler) {
	if _, exists := b.handlers[method]; exists {
		b.logger.Error("already registered a handler for this json-rpc request method", "method", method)
	}
	b.handlers[method] = handler
}

// Methods returns the sorted names registered so far.
func (b *HandlersBuilder) Methods() []string {
	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build freezes the builder into an immutable handler set. The result is
// safe for concurrent lookups without synchronization; the builder must not
// be used afterwards.
func (b *HandlersBuilder) Build() *Handlers {
	handlers := make(map[string]Handler, len(b.handlers))
	for method, handler := range b.handlers {
		handlers[method] = handler
	}
	return &Handlers{
		logger:   b.logger,
		metrics:  b.metrics,
		handlers: handlers,
	}
}

// Handlers is the frozen collection of request handlers, indexed by the
// JSON-RPC "method" applicable to each.
type Handlers struct {
	logger   *slog.Logger
	metrics  Metrics
	handlers map[string]Handler
}

// Lookup returns the handler registered for the given method, if any.
func (h *Handlers) Lookup(method string) (Handler, bool) {
	handler, ok := h.handlers[method]
	return handler, ok
}

// Methods returns the sorted registered method names.
func (h *Handlers) Methods() []string {
	names := make([]string, 0, len(h.handlers))
	for name := range h.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandleRequest resolves the request to a handler, invokes it and converts
// the outcome into a response. All failure is expressed as a failure
// response; this method never panics on request input. The latency clock
// starts before the lookup so lookup cost is attributed to the call.
func (h *Handlers) HandleRequest(ctx context.Context, req Request, requestSize int) Response {
	start := time.Now()
	handler, ok := h.handlers[req.Method]
	if !ok {
		h.observeResponseTime(UnknownHandlerLabel, UnknownHandlerLabel, time.Since(start))
		h.logger.Debug("failed to get handler", "requested_method", req.Method)
		rpcErr := NewError(CodeMethodNotFound, fmt.Sprintf("'%s' is not a supported json-rpc method on this server", req.Method))
		return NewFailure(req.ID, rpcErr)
	}

	h.incMethodCall(req.Method)
	h.registerRequestSize(req.Method, requestSize)

	result, rpcErr := handler(ctx, req.Params)
	elapsed := time.Since(start)
	if rpcErr != nil {
		h.observeResponseTime(req.Method, strconv.Itoa(rpcErr.Code), elapsed)
		return NewFailure(req.ID, rpcErr)
	}
	h.observeResponseTime(req.Method, "success", elapsed)
	return NewSuccess(req.ID, result)
}

func (h *Handlers) incMethodCall(method string) {
	if h.metrics == nil {
		return
	}
	h.metrics.IncMethodCall(method)
}

func (h *Handlers) observeResponseTime(method, outcome string, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveResponseTime(method, outcome, elapsed)
}

func (h *Handlers) registerRequestSize(method string, bytes int) {
	if h.metrics == nil {
		return
	}
	h.metrics.RegisterRequestSize(method, bytes)
}
