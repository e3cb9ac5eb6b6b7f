package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type observation struct {
	method  string
	outcome string
}

type recordingMetrics struct {
	mu           sync.Mutex
	calls        map[string]int
	sizes        map[string]int
	observations []observation
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{calls: make(map[string]int), sizes: make(map[string]int)}
}

func (m *recordingMetrics) IncMethodCall(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
}

func (m *recordingMetrics) ObserveResponseTime(method, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observations = append(m.observations, observation{method: method, outcome: outcome})
}

func (m *recordingMetrics) RegisterRequestSize(method string, bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes[method] = bytes
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestHandleRequestDispatchesToRegisteredHandler(t *testing.T) {
	metrics := newRecordingMetrics()
	builder := NewHandlersBuilder(testLogger(&bytes.Buffer{}), metrics)
	RegisterHandler(builder, "get_status", func(_ context.Context, _ json.RawMessage) (map[string]string, *Error) {
		return map[string]string{"chain": "casper-test"}, nil
	})
	handlers := builder.Build()

	id := Int64ID(1)
	resp := handlers.HandleRequest(context.Background(), Request{
		JSONRPC: Version,
		Method:  "get_status",
		ID:      &id,
	}, 64)

	require.Nil(t, resp.Error)
	require.Equal(t, "1", resp.ID.String())
	require.JSONEq(t, `{"chain":"casper-test"}`, string(resp.Result))

	require.Equal(t, 1, metrics.calls["get_status"])
	require.Equal(t, 64, metrics.sizes["get_status"])
	require.Equal(t, []observation{{method: "get_status", outcome: "success"}}, metrics.observations)
}

func TestHandleRequestUnknownMethod(t *testing.T) {
	metrics := newRecordingMetrics()
	invoked := false
	builder := NewHandlersBuilder(testLogger(&bytes.Buffer{}), metrics)
	RegisterHandler(builder, "get_status", func(_ context.Context, _ json.RawMessage) (string, *Error) {
		invoked = true
		return "ok", nil
	})
	handlers := builder.Build()

	id := Int64ID(1)
	resp := handlers.HandleRequest(context.Background(), Request{Method: "bogus", ID: &id}, 10)

	require.NotNil(t, resp.Error)
	require.Equal(t, CodeMethodNotFound, resp.Error.Code)
	require.Equal(t, "'bogus' is not a supported json-rpc method on this server", resp.Error.Message)
	require.Equal(t, "1", resp.ID.String())
	require.False(t, invoked, "no registered handler may run for an unknown method")

	require.Empty(t, metrics.calls)
	require.Equal(t, []observation{{method: UnknownHandlerLabel, outcome: UnknownHandlerLabel}}, metrics.observations)
}

func TestHandleRequestHandlerFailureOutcomeLabel(t *testing.T) {
	metrics := newRecordingMetrics()
	builder := NewHandlersBuilder(testLogger(&bytes.Buffer{}), metrics)
	RegisterHandler(builder, "chain_get_block", func(_ context.Context, _ json.RawMessage) (string, *Error) {
		return "", NewError(-32003, "block not found")
	})
	handlers := builder.Build()

	id := StringID("a")
	resp := handlers.HandleRequest(context.Background(), Request{Method: "chain_get_block", ID: &id}, 5)

	require.NotNil(t, resp.Error)
	require.Equal(t, -32003, resp.Error.Code)
	require.Equal(t, []observation{{method: "chain_get_block", outcome: "-32003"}}, metrics.observations)
}

func TestRegisterHandlerSerializationFailure(t *testing.T) {
	var buf bytes.Buffer
	builder := NewHandlersBuilder(testLogger(&buf), newRecordingMetrics())
	RegisterHandler(builder, "broken", func(_ context.Context, _ json.RawMessage) (float64, *Error) {
		return math.NaN(), nil
	})
	handlers := builder.Build()

	id := Int64ID(9)
	resp := handlers.HandleRequest(context.Background(), Request{Method: "broken", ID: &id}, 0)

	require.NotNil(t, resp.Error)
	require.Equal(t, CodeInternalError, resp.Error.Code)
	require.Contains(t, resp.Error.Message, "failed to encode json-rpc response value")
	require.Nil(t, resp.Result)
	require.Contains(t, buf.String(), "failed to encode json-rpc response value")
}

func TestDuplicateRegistrationSecondWins(t *testing.T) {
	var buf bytes.Buffer
	builder := NewHandlersBuilder(testLogger(&buf), nil)
	RegisterHandler(builder, "get_status", func(_ context.Context, _ json.RawMessage) (string, *Error) {
		return "first", nil
	})
	RegisterHandler(builder, "get_status", func(_ context.Context, _ json.RawMessage) (string, *Error) {
		return "second", nil
	})
	handlers := builder.Build()

	require.Len(t, handlers.Methods(), 1)
	require.Contains(t, buf.String(), "already registered a handler")
	require.True(t, strings.Contains(buf.String(), "level=ERROR"))

	id := Int64ID(1)
	resp := handlers.HandleRequest(context.Background(), Request{Method: "get_status", ID: &id}, 0)
	require.Nil(t, resp.Error)
	require.Equal(t, `"second"`, string(resp.Result))
}

func TestBuildFreezesHandlerSet(t *testing.T) {
	builder := NewHandlersBuilder(testLogger(&bytes.Buffer{}), nil)
	RegisterHandler(builder, "a", func(_ context.Context, _ json.RawMessage) (int, *Error) { return 1, nil })
	handlers := builder.Build()

	// Registrations after Build must not leak into the frozen set.
	RegisterHandler(builder, "b", func(_ context.Context, _ json.RawMessage) (int, *Error) { return 2, nil })

	_, ok := handlers.Lookup("b")
	require.False(t, ok)
	_, ok = handlers.Lookup("a")
	require.True(t, ok)
}
