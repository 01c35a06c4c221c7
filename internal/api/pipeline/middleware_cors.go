package pipeline

// CorsMiddleware stamps permissive cross-origin headers on every response.
type CorsMiddleware struct{}

// NewCorsMiddleware returns the CORS unit.
func NewCorsMiddleware() *CorsMiddleware {
	return &CorsMiddleware{}
}

func (m *CorsMiddleware) Name() string { return "cors" }

func (m *CorsMiddleware) After(_ RequestContext, _ *Request, resp Response) Response {
	resp.SetHeader("Access-Control-Allow-Origin", "*")
	resp.SetHeader("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	resp.SetHeader("Access-Control-Allow-Headers", "Content-Type, Authorization")
	resp.SetHeader("Access-Control-Expose-Headers", "*")
	return resp
}
