package pipeline

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request identifier on every response.
const RequestIDHeader = "x-request-id"

var fallbackSeq atomic.Uint64

// RequestIDMiddleware assigns a random identifier to each request and echoes
// it on the response.
type RequestIDMiddleware struct {
	generate func() (string, error)
}

// NewRequestIDMiddleware uses random (version 4) UUIDs.
func NewRequestIDMiddleware() *RequestIDMiddleware {
	return &RequestIDMiddleware{generate: func() (string, error) {
		id, err := uuid.NewRandom()
		if err != nil {
			return "", err
		}
		return id.String(), nil
	}}
}

func (m *RequestIDMiddleware) Name() string { return "request-id" }

// Before stores a fresh identifier in the context. If the random source
// fails a time-and-sequence identifier is used so the id is never empty.
func (m *RequestIDMiddleware) Before(rc RequestContext, _ *Request) (RequestContext, error) {
	id, err := m.generate()
	if err != nil || id == "" {
		id = fmt.Sprintf("%x-%x", time.Now().UnixNano(), fallbackSeq.Add(1))
	}
	rc.RequestID = id
	return rc, nil
}

func (m *RequestIDMiddleware) After(rc RequestContext, _ *Request, resp Response) Response {
	resp.SetHeader(RequestIDHeader, rc.RequestID)
	return resp
}
