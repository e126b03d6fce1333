// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/model"
	"github.com/inkpress/inkpress/internal/session"
	"github.com/inkpress/inkpress/internal/store"
)

// Auth service errors.
var (
	ErrMissingSignupFields = errors.New("name, email, and password are required")
	ErrNameTooLong         = errors.New("name must be at most 100 characters long")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmailTaken          = errors.New("email already registered")
	ErrMissingCredentials  = errors.New("email and password are required")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses never reveal which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

const (
	maxNameLength     = 100
	minPasswordLength = 8
	// maxPasswordLength is bcrypt's input limit; longer passwords would be
	// rejected by the hasher anyway, so fail them as validation input.
	maxPasswordLength = 72
)

// AuthService owns signup, login, logout, and identity checks, including
// password hashing and session issuance.
type AuthService struct {
	users    store.UserStore
	sessions *session.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users store.UserStore, sessions *session.Manager) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// SignupInput defines input for creating an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines input for authenticating.
type LoginInput struct {
	Email    string
	Password string
}

// NormalizeEmail trims and lowercases an email address. Emails are stored
// and compared only in this form, making uniqueness case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new account and issues a fresh session bound to it.
// currentToken is the caller's pre-signup session token, if any; it is
// discarded as part of session regeneration.
func (s *AuthService) Signup(ctx context.Context, input SignupInput, currentToken string) (*model.SafeUser, *model.Session, error) {
	// Validate the normalized forms: a whitespace-only name or email must
	// not pass as present.
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, nil, ErrMissingSignupFields
	}
	if len(name) > maxNameLength {
		return nil, nil, ErrNameTooLong
	}
	if len(input.Password) < minPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}
	if len(input.Password) > maxPasswordLength {
		return nil, nil, ErrPasswordTooLong
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{model.DefaultRole},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// The unique index closes the lookup-then-insert race.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	sess, err := s.sessions.Issue(ctx, currentToken, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user.Safe(), sess, nil
}

// Login authenticates a user and issues a fresh session. Unknown email and
// wrong password both fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput, currentToken string) (*model.SafeUser, *model.Session, error) {
	if input.Email == "" || input.Password == "" {
		return nil, nil, ErrMissingCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Issue(ctx, currentToken, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user.Safe(), sess, nil
}

// Logout destroys the caller's session server-side. Calling logout with no
// active session still succeeds.
func (s *AuthService) Logout(ctx context.Context, currentToken string) error {
	return s.sessions.Destroy(ctx, currentToken)
}

// Identity returns the safe projection of the current user, resolved by
// the session middleware. Fails when the session carries no live user,
// including a user reference to a since-deleted account.
func (s *AuthService) Identity(ctx context.Context) (*model.SafeUser, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return user.Safe(), nil
}

// UserBySession resolves a session token to its user. Used by the
// current-user middleware; anonymous or dangling sessions yield no user
// without error.
func (s *AuthService) UserBySession(ctx context.Context, token string) (*model.User, error) {
	sess, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, nil
		}
		return nil, err
	}
	if sess.IsAnonymous() {
		return nil, nil
	}

	user, err := s.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
