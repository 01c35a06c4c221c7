package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/task-service/internal/api/pipeline"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/clock"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency that can report its connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the liveness payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Version   string `json:"version"`
}

// ReadinessStatus reports each dependency.
type ReadinessStatus struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	clock       clock.Clock
	deps        map[string]Pinger
}

// NewHealthHandler returns a new handler instance. deps are checked by Ready.
func NewHealthHandler(serviceName, version string, clk clock.Clock, deps map[string]Pinger) *HealthHandler {
	if clk == nil {
		clk = clock.System{}
	}
	return &HealthHandler{serviceName: serviceName, version: version, clock: clk, deps: deps}
}

// Live reports service liveness.
func (h *HealthHandler) Live(_ context.Context, _ pipeline.RequestContext, _ *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	return pipeline.Result{Data: HealthStatus{
		Status:    "ok",
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
		Service:   h.serviceName,
		Version:   h.version,
	}}, nil
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(ctx context.Context, _ pipeline.RequestContext, _ *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	status := ReadinessStatus{Status: "ready", Dependencies: make(map[string]string, len(h.deps))}
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			return pipeline.Result{}, apperrors.NewInternal(fmt.Errorf("%s unavailable: %w", name, err))
		}
		status.Dependencies[name] = "ok"
	}
	return pipeline.Result{Data: status}, nil
}
