package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/clock"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// HandlerFunc serves one route. principal is nil on public routes.
type HandlerFunc func(ctx context.Context, rc RequestContext, req *Request, principal *auth.Principal) (Result, error)

// Route binds a handler to a method and path.
type Route struct {
	Method    string
	Path      string
	Protected bool
	Handler   HandlerFunc
}

// Authenticator resolves the caller from the Authorization header value.
type Authenticator interface {
	Authenticate(header string) (*auth.Principal, error)
}

// Dispatcher runs the middleware chain, the auth guard and the handler for
// each request. It keeps no per-request state.
type Dispatcher struct {
	chain     *Chain
	guard     Authenticator
	responder *Responder
	clock     clock.Clock
	logger    *zap.Logger
}

// NewDispatcher wires the request pipeline.
func NewDispatcher(chain *Chain, guard Authenticator, responder *Responder, clk clock.Clock, logger *zap.Logger) *Dispatcher {
	if clk == nil {
		clk = clock.System{}
	}
	return &Dispatcher{chain: chain, guard: guard, responder: responder, clock: clk, logger: logger}
}

// Dispatch serves req on route. After hooks run on every outcome, including
// before-hook failures, authentication failures and handler panics.
func (d *Dispatcher) Dispatch(ctx context.Context, route Route, req *Request) Response {
	rc := RequestContext{StartedAt: d.clock.Now()}
	req.Route = route.Path

	rc, err := d.chain.Before(rc, req)

	var resp Response
	if err != nil {
		resp = d.responder.Respond(rc, req, apperrors.NewInternal(fmt.Errorf("before hooks: %w", err)))
	} else {
		resp = d.serve(ctx, rc, route, req)
	}

	return d.chain.After(rc, req, resp)
}

func (d *Dispatcher) serve(ctx context.Context, rc RequestContext, route Route, req *Request) Response {
	var principal *auth.Principal
	if route.Protected {
		p, err := d.guard.Authenticate(req.Header.Get("Authorization"))
		if err != nil {
			return d.responder.Respond(rc, req, err)
		}
		principal = p
	}

	result, err := d.invoke(ctx, rc, route, req, principal)
	if err != nil {
		return d.responder.Respond(rc, req, err)
	}
	return result.response()
}

func (d *Dispatcher) invoke(ctx context.Context, rc RequestContext, route Route, req *Request, principal *auth.Principal) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic recovered",
				zap.String("request_id", rc.RequestID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			result = Result{}
			err = apperrors.NewInternal(fmt.Errorf("panic: %v", r))
		}
	}()
	return route.Handler(ctx, rc, req, principal)
}
