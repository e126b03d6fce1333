// Package session manages server-side sessions referenced by an opaque
// cookie token. Session records live in the same database as the rest of
// the application and expire via a store-side TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/inkpress/inkpress/internal/model"
	"github.com/inkpress/inkpress/internal/store"
)

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// ErrNoSession indicates the token did not resolve to a live session.
var ErrNoSession = errors.New("no active session")

// Config holds session manager settings.
type Config struct {
	// CookieName is the session cookie name (default "sid").
	CookieName string
	// TTL is the session lifetime, sliding on each issue.
	TTL time.Duration
	// Secure marks the cookie Secure; enable in production behind TLS.
	Secure bool
	// SameSite defaults to Lax when unset.
	SameSite http.SameSite
}

// Manager owns the session lifecycle: issue, resolve, destroy.
type Manager struct {
	sessions store.SessionStore
	cfg      Config
}

// NewManager creates a session manager backed by the given store.
func NewManager(sessions store.SessionStore, cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "sid"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	return &Manager{sessions: sessions, cfg: cfg}
}

// Issue creates a fresh session bound to userID, discarding oldToken if
// present. A new token is always minted on privilege change so a
// pre-authentication session ID can never become an authenticated one
// (session fixation). The destroy happens before the create, sequentially
// within the request.
func (m *Manager) Issue(ctx context.Context, oldToken, userID string) (*model.Session, error) {
	if oldToken != "" {
		if err := m.sessions.DeleteSession(ctx, oldToken); err != nil {
			return nil, fmt.Errorf("discard prior session: %w", err)
		}
	}

	now := time.Now().UTC()
	sess := &model.Session{
		ID:        newToken(),
		UserID:    userID,
		ExpiresAt: now.Add(m.cfg.TTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.sessions.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Resolve returns the live session for a token. Expired-but-unreaped
// records are treated as absent and cleaned up best-effort.
func (m *Manager) Resolve(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	sess, err := m.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	if sess.IsExpired() {
		_ = m.sessions.DeleteSession(ctx, token)
		return nil, ErrNoSession
	}

	return sess, nil
}

// Destroy removes a session server-side. Destroying an absent or already
// expired session succeeds, keeping logout idempotent.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.sessions.DeleteSession(ctx, token)
}

// newToken mints an opaque session token.
func newToken() string {
	return uuid.NewString()
}
