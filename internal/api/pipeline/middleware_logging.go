package pipeline

import (
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/clock"
	"github.com/spec-kit/task-service/internal/observability"
)

// LoggingMiddleware emits one line when a request arrives and one when its
// response leaves, both tagged with the request id.
type LoggingMiddleware struct {
	logger  *zap.Logger
	clock   clock.Clock
	metrics *observability.Metrics
}

// NewLoggingMiddleware builds the access logger. metrics may be nil.
func NewLoggingMiddleware(logger *zap.Logger, clk clock.Clock, metrics *observability.Metrics) *LoggingMiddleware {
	if clk == nil {
		clk = clock.System{}
	}
	return &LoggingMiddleware{logger: logger, clock: clk, metrics: metrics}
}

func (m *LoggingMiddleware) Name() string { return "logging" }

func (m *LoggingMiddleware) Before(rc RequestContext, req *Request) (RequestContext, error) {
	rc.StartedAt = m.clock.Now()
	m.logger.Info("request received",
		zap.String("request_id", rc.RequestID),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
	)
	return rc, nil
}

func (m *LoggingMiddleware) After(rc RequestContext, req *Request, resp Response) Response {
	elapsed := m.clock.Now().Sub(rc.StartedAt)
	m.logger.Info("response sent",
		zap.String("request_id", rc.RequestID),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.Status),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	)
	m.metrics.RecordRequest(req.RouteLabel(), req.Method, resp.Status, elapsed)
	return resp
}
