package pipeline

import "errors"

// Middleware is a named unit of cross-cutting logic. It takes part in the
// request by also implementing BeforeHook, AfterHook or both.
type Middleware interface {
	Name() string
}

// BeforeHook runs ahead of the handler and may derive a new context.
// Errors are reserved for structural failures.
type BeforeHook interface {
	Before(rc RequestContext, req *Request) (RequestContext, error)
}

// AfterHook runs once a response exists, on every path.
type AfterHook interface {
	After(rc RequestContext, req *Request, resp Response) Response
}

// Chain is an ordered list of middlewares. Both hook phases iterate in
// registration order.
type Chain struct {
	units []Middleware
}

// NewChain registers units in execution order.
func NewChain(units ...Middleware) *Chain {
	return &Chain{units: append([]Middleware(nil), units...)}
}

// Names lists registered middlewares in order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.units))
	for _, unit := range c.units {
		names = append(names, unit.Name())
	}
	return names
}

// Before runs every before hook. A failing hook keeps the previous context
// and the remaining hooks still run; the failures are joined.
func (c *Chain) Before(rc RequestContext, req *Request) (RequestContext, error) {
	var errs []error
	for _, unit := range c.units {
		hook, ok := unit.(BeforeHook)
		if !ok {
			continue
		}
		next, err := hook.Before(rc, req)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rc = next
	}
	return rc, errors.Join(errs...)
}

// After runs every after hook against the response.
func (c *Chain) After(rc RequestContext, req *Request, resp Response) Response {
	for _, unit := range c.units {
		if hook, ok := unit.(AfterHook); ok {
			resp = hook.After(rc, req, resp)
		}
	}
	return resp
}
