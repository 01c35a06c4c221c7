package pipeline

import (
	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/observability"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// Responder turns errors into failure responses.
type Responder struct {
	logger  *zap.Logger
	policy  apperrors.Policy
	metrics *observability.Metrics
}

// NewResponder builds a responder. metrics may be nil.
func NewResponder(logger *zap.Logger, policy apperrors.Policy, metrics *observability.Metrics) *Responder {
	return &Responder{logger: logger, policy: policy, metrics: metrics}
}

// Respond maps err through the error taxonomy. 5xx outcomes are logged with
// their full detail, which is never placed in the body.
func (r *Responder) Respond(rc RequestContext, req *Request, err error) Response {
	appErr := apperrors.ToAppError(err)
	if appErr == nil {
		appErr = apperrors.ToAppError(apperrors.NewInternal(nil))
	}

	status, message := apperrors.Resolve(appErr, r.policy)
	if status >= nethttp.StatusInternalServerError {
		r.logger.Error("request failed",
			zap.String("request_id", rc.RequestID),
			zap.String("kind", appErr.Kind.String()),
			zap.Error(appErr),
		)
	}
	r.metrics.RecordError(req.RouteLabel(), req.Method, appErr.Kind.String())

	return Response{
		Status: status,
		Header: nethttp.Header{},
		Body:   ErrorBody{Error: message, Status: status},
	}
}
