package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/api/pipeline"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/service"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// AuthService is the account workflow used by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*service.Session, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	CurrentUser(ctx context.Context, principal *auth.Principal) (*domain.User, error)
}

// AuthHandler exposes registration, login and the current account.
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(ctx context.Context, _ pipeline.RequestContext, req *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	var body dto.UserRegisterRequest
	if err := req.DecodeJSON(&body); err != nil {
		return pipeline.Result{}, err
	}
	if err := body.Validate(); err != nil {
		return pipeline.Result{}, apperrors.NewValidation(err.Error())
	}

	session, err := h.service.Register(ctx, body.Name, body.Email, body.Password)
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Result{Status: http.StatusCreated, Data: authResponse(session)}, nil
}

// Login POST /auth/login.
func (h *AuthHandler) Login(ctx context.Context, _ pipeline.RequestContext, req *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	var body dto.UserLoginRequest
	if err := req.DecodeJSON(&body); err != nil {
		return pipeline.Result{}, err
	}
	if err := body.Validate(); err != nil {
		return pipeline.Result{}, apperrors.NewValidation(err.Error())
	}

	session, err := h.service.Login(ctx, body.Email, body.Password)
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Result{Data: authResponse(session)}, nil
}

// Me GET /auth/me.
func (h *AuthHandler) Me(ctx context.Context, _ pipeline.RequestContext, _ *pipeline.Request, principal *auth.Principal) (pipeline.Result, error) {
	user, err := h.service.CurrentUser(ctx, principal)
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Result{Data: dto.NewUserResponse(user)}, nil
}

func authResponse(s *service.Session) dto.AuthResponse {
	return dto.AuthResponse{
		User:      dto.NewUserResponse(s.User),
		Token:     s.Token,
		ExpiresAt: time.Unix(s.Claims.ExpiresAt, 0).UTC(),
	}
}
