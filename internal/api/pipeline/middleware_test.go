package pipeline

import (
	"errors"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/task-service/internal/clock"
	"github.com/spec-kit/task-service/internal/observability"
)

type recordingMiddleware struct {
	name      string
	trace     *[]string
	beforeErr error
}

func (m *recordingMiddleware) Name() string { return m.name }

func (m *recordingMiddleware) Before(rc RequestContext, _ *Request) (RequestContext, error) {
	*m.trace = append(*m.trace, "before:"+m.name)
	if m.beforeErr != nil {
		rc.RequestID = "discarded"
		return rc, m.beforeErr
	}
	return rc, nil
}

func (m *recordingMiddleware) After(_ RequestContext, _ *Request, resp Response) Response {
	*m.trace = append(*m.trace, "after:"+m.name)
	return resp
}

type afterOnly struct {
	trace *[]string
}

func (m *afterOnly) Name() string { return "after-only" }

func (m *afterOnly) After(_ RequestContext, _ *Request, resp Response) Response {
	*m.trace = append(*m.trace, "after:after-only")
	return resp
}

func TestChain_RunsHooksInRegistrationOrder(t *testing.T) {
	var trace []string
	chain := NewChain(
		&recordingMiddleware{name: "a", trace: &trace},
		&afterOnly{trace: &trace},
		&recordingMiddleware{name: "b", trace: &trace},
	)

	rc, err := chain.Before(RequestContext{}, &Request{})
	require.NoError(t, err)
	chain.After(rc, &Request{}, Response{})

	assert.Equal(t, []string{"before:a", "before:b", "after:a", "after:after-only", "after:b"}, trace)
	assert.Equal(t, []string{"a", "after-only", "b"}, chain.Names())
}

func TestChain_BeforeFailureKeepsRunningHooks(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	chain := NewChain(
		&recordingMiddleware{name: "a", trace: &trace, beforeErr: boom},
		&recordingMiddleware{name: "b", trace: &trace},
	)

	rc, err := chain.Before(RequestContext{RequestID: "kept"}, &Request{})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "kept", rc.RequestID)
	assert.Equal(t, []string{"before:a", "before:b"}, trace)
}

func TestRequestIDMiddleware(t *testing.T) {
	m := NewRequestIDMiddleware()

	rc, err := m.Before(RequestContext{}, &Request{})
	require.NoError(t, err)
	_, err = uuid.Parse(rc.RequestID)
	require.NoError(t, err)

	resp := m.After(rc, &Request{}, Response{Status: nethttp.StatusOK})
	assert.Equal(t, rc.RequestID, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDMiddleware_FallbackWhenRandomFails(t *testing.T) {
	m := &RequestIDMiddleware{generate: func() (string, error) { return "", errors.New("entropy") }}

	first, err := m.Before(RequestContext{}, &Request{})
	require.NoError(t, err)
	second, err := m.Before(RequestContext{}, &Request{})
	require.NoError(t, err)

	assert.NotEmpty(t, first.RequestID)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	clk := clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	metrics := observability.NewMetrics()
	m := NewLoggingMiddleware(zap.New(core), clk, metrics)

	req := &Request{Method: nethttp.MethodGet, Path: "/api/tasks", Route: "/api/tasks"}
	rc, err := m.Before(RequestContext{RequestID: "req-1"}, req)
	require.NoError(t, err)
	assert.Equal(t, clk.Now(), rc.StartedAt)

	clk.Advance(42 * time.Millisecond)
	m.After(rc, req, Response{Status: nethttp.StatusTeapot})

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	received := entries[0].ContextMap()
	assert.Equal(t, "request received", entries[0].Message)
	assert.Equal(t, "req-1", received["request_id"])
	assert.Equal(t, "GET", received["method"])
	assert.Equal(t, "/api/tasks", received["path"])

	sent := entries[1].ContextMap()
	assert.Equal(t, "response sent", entries[1].Message)
	assert.Equal(t, "req-1", sent["request_id"])
	assert.Equal(t, int64(nethttp.StatusTeapot), sent["status"])
	assert.Equal(t, int64(42), sent["duration_ms"])

	assert.Equal(t, int64(1), metrics.Snapshot().Requests["/api/tasks|GET|418"])
}

func TestCorsMiddleware_SetsHeadersOnAnyResponse(t *testing.T) {
	m := NewCorsMiddleware()

	for _, status := range []int{200, 204, 401, 404, 500} {
		resp := m.After(RequestContext{}, &Request{}, Response{Status: status})
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", resp.Header.Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Expose-Headers"))
	}
}
