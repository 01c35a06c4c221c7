package pipeline

import nethttp "net/http"

// Response is the outcome handed to after hooks and then serialized.
// A nil Body means no payload.
type Response struct {
	Status int
	Header nethttp.Header
	Body   any
}

// SetHeader sets a response header, allocating the header map if needed.
func (r *Response) SetHeader(key, value string) {
	if r.Header == nil {
		r.Header = nethttp.Header{}
	}
	r.Header.Set(key, value)
}

// Envelope wraps successful payloads.
type Envelope[T any] struct {
	Success bool    `json:"success"`
	Data    T       `json:"data"`
	Message *string `json:"message"`
}

// Success builds an envelope without a message.
func Success[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}

// SuccessWithMessage builds an envelope carrying a message.
func SuccessWithMessage[T any](data T, message string) Envelope[T] {
	return Envelope[T]{Success: true, Data: data, Message: &message}
}

// ErrorBody is the failure payload.
type ErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is what a handler returns on success. Zero Status means 200.
type Result struct {
	Status  int
	Data    any
	Message string
}

func (res Result) response() Response {
	status := res.Status
	if status == 0 {
		status = nethttp.StatusOK
	}
	if status == nethttp.StatusNoContent {
		return Response{Status: status, Header: nethttp.Header{}}
	}

	body := Success(res.Data)
	if res.Message != "" {
		body = SuccessWithMessage(res.Data, res.Message)
	}
	return Response{Status: status, Header: nethttp.Header{}, Body: body}
}
