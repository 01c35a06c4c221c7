package pipeline

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// RequestContext is the per-request state threaded through every hook and
// handler. It is passed by value and never stored outside the request.
type RequestContext struct {
	RequestID string
	StartedAt time.Time
}

// unmatchedRoute labels requests served without a route template.
const unmatchedRoute = "unmatched"

// Request is a transport-neutral view of an inbound request. Route is the
// template the request matched, set by the dispatcher.
type Request struct {
	Method string
	Path   string
	Route  string
	Header nethttp.Header
	Params map[string]string
	Query  map[string]string
	Body   []byte
}

// RouteLabel returns the matched route template. Metrics are keyed on it so
// their key set stays bounded by the route table.
func (r *Request) RouteLabel() string {
	if r.Route == "" {
		return unmatchedRoute
	}
	return r.Route
}

// Param returns a route parameter.
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// QueryValue returns a query string value.
func (r *Request) QueryValue(name string) string {
	return r.Query[name]
}

// DecodeJSON unmarshals the request body into v.
func (r *Request) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return apperrors.NewSerialization(err)
	}
	return nil
}
