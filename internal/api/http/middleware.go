package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/pipeline"
	"github.com/spec-kit/task-service/internal/auth"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// RegisterMiddlewares attaches transport level middlewares.
func RegisterMiddlewares(app *fiber.App, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// ErrorHandler answers errors raised by fiber itself, such as oversized
// bodies or read timeouts, through the dispatcher so they carry the same
// headers, logs and metrics as routed responses.
func ErrorHandler(d *pipeline.Dispatcher) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		failure := transportError(err)
		return Handle(d, pipeline.Route{
			Handler: func(context.Context, pipeline.RequestContext, *pipeline.Request, *auth.Principal) (pipeline.Result, error) {
				return pipeline.Result{}, failure
			},
		})(c)
	}
}

func transportError(err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code >= fiber.StatusBadRequest && fe.Code < fiber.StatusInternalServerError {
		return apperrors.NewTransport(fe.Code, fe.Message)
	}
	return apperrors.NewInternal(err)
}
