package v1

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/session-auth-service/internal/core/domain"
	"github.com/duynhne/session-auth-service/internal/core/password"
	"github.com/duynhne/session-auth-service/middleware"
)

// AuthService implements user registration, login and session resolution.
// It depends on the user directory and hasher interfaces (injected via
// constructor) and MUST NOT access the database or SQL directly.
type AuthService struct {
	users    domain.UserRepository
	hasher   password.Hasher
	sessions *SessionAuthenticator
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, hasher password.Hasher, sessions *SessionAuthenticator) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
	}
}

// RegisterUser adds a user with a hashed password.
// It fails with ErrUserExists when the email is already registered.
func (s *AuthService) RegisterUser(ctx context.Context, email, plain string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if email == "" || plain == "" {
		return nil, fmt.Errorf("register user: %w", ErrInvalidInput)
	}

	existing, err := s.users.FindUserBy(ctx, domain.UserCriteria{Email: email})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, fmt.Errorf("register user: %w", ErrUserExists)
	}

	digest, err := s.hasher.Hash(plain)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	row, err := s.users.AddUser(ctx, email, digest)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	user := toUser(row)
	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")
	return user, nil
}

// ValidLogin reports whether plain is the password of the user registered under email.
// Unknown users and directory failures report false.
func (s *AuthService) ValidLogin(ctx context.Context, email, plain string) bool {
	_, err := s.authenticate(ctx, email, plain)
	return err == nil
}

// Login verifies credentials and opens a new session for the user.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	row, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, err
	}

	user := toUser(row)
	token, err := s.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")
	return &domain.AuthResponse{Token: token, User: *user}, nil
}

// CurrentUser returns the user owning sessionID.
// Empty, unknown and expired sessions all fail with ErrSessionNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.current_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	userID, ok := s.sessions.UserIDForSessionID(ctx, sessionID)
	if !ok {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, fmt.Errorf("lookup session: %w", ErrSessionNotFound)
	}

	id, err := strconv.Atoi(userID)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("session user %q: %w", userID, ErrUserNotFound)
	}

	row, err := s.users.FindUserBy(ctx, domain.UserCriteria{ID: id})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}
	if row == nil {
		return nil, fmt.Errorf("session user %d: %w", id, ErrUserNotFound)
	}

	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Bool("session.valid", true),
	)
	return toUser(row), nil
}

func (s *AuthService) authenticate(ctx context.Context, email, plain string) (*domain.UserRow, error) {
	if email == "" {
		return nil, fmt.Errorf("authenticate: %w", ErrInvalidInput)
	}

	row, err := s.users.FindUserBy(ctx, domain.UserCriteria{Email: email})
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("authenticate user: %w", ErrUserNotFound)
	}
	if !s.hasher.Verify(row.HashedPassword, plain) {
		return nil, fmt.Errorf("authenticate user: %w", ErrInvalidCredentials)
	}
	return row, nil
}

func toUser(row *domain.UserRow) *domain.User {
	return &domain.User{
		ID:    strconv.Itoa(row.ID),
		Email: row.Email,
	}
}
