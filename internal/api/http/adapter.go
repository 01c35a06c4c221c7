package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/task-service/internal/api/pipeline"
)

// Handle adapts a pipeline route to a fiber handler.
func Handle(d *pipeline.Dispatcher, route pipeline.Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := d.Dispatch(c.UserContext(), route, toRequest(c))
		return writeResponse(c, resp)
	}
}

// toRequest copies everything out of the fiber context, whose buffers are
// reused once the handler returns.
func toRequest(c *fiber.Ctx) *pipeline.Request {
	header := nethttp.Header{}
	c.Request().Header.VisitAll(func(key, value []byte) {
		header.Add(string(key), string(value))
	})

	params := make(map[string]string)
	for k, v := range c.AllParams() {
		params[utils.CopyString(k)] = utils.CopyString(v)
	}
	query := make(map[string]string)
	for k, v := range c.Queries() {
		query[utils.CopyString(k)] = utils.CopyString(v)
	}

	return &pipeline.Request{
		Method: utils.CopyString(c.Method()),
		Path:   utils.CopyString(c.Path()),
		Header: header,
		Params: params,
		Query:  query,
		Body:   utils.CopyBytes(c.Body()),
	}
}

func writeResponse(c *fiber.Ctx, resp pipeline.Response) error {
	for key, values := range resp.Header {
		for _, v := range values {
			c.Response().Header.Add(key, v)
		}
	}
	c.Status(resp.Status)
	if resp.Body == nil {
		return nil
	}
	return c.JSON(resp.Body)
}
