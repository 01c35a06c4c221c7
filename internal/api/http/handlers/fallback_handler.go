package handlers

import (
	"context"
	"net/http"

	"github.com/spec-kit/task-service/internal/api/pipeline"
	"github.com/spec-kit/task-service/internal/auth"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// NotFound answers requests that match no route.
func NotFound(_ context.Context, _ pipeline.RequestContext, _ *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	return pipeline.Result{}, apperrors.NewNotFound("route not found")
}

// Preflight answers CORS preflight requests. The CORS hook adds the headers.
func Preflight(_ context.Context, _ pipeline.RequestContext, _ *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	return pipeline.Result{Status: http.StatusNoContent}, nil
}
