package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/clock"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

const (
	invalidCredentials = "invalid credentials"
	dummyPassword      = "task-service-unknown-account"
)

// Session is the outcome of a successful registration or login.
type Session struct {
	User   *domain.User
	Token  string
	Claims auth.Claims
}

// AuthService coordinates registration, login and token issuance.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenCodec
	bcryptCost int
	clock      clock.Clock
	compare    func(hashed, plain string) error

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenCodec, bcryptCost int, clk clock.Clock) *AuthService {
	if clk == nil {
		clk = clock.System{}
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		clock:      clk,
		compare:    auth.ComparePassword,
	}
}

// Register creates a new account and issues a token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	now := s.clock.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewBadRequest("email already registered")
		}
		return nil, err
	}

	return s.issue(user)
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Same bcrypt work as a known account so timing does not reveal it.
			_ = s.compare(s.unknownAccountHash(), password)
			return nil, apperrors.NewAuthentication(invalidCredentials)
		}
		return nil, err
	}
	if err := s.compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewAuthentication(invalidCredentials)
	}
	return s.issue(user)
}

// CurrentUser loads the account behind an authenticated principal.
func (s *AuthService) CurrentUser(ctx context.Context, principal *auth.Principal) (*domain.User, error) {
	if principal == nil {
		return nil, apperrors.NewAuthentication("missing token")
	}
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAuthentication("account no longer exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, Claims: claims}, nil
}

func (s *AuthService) unknownAccountHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword(dummyPassword, s.bcryptCost)
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
