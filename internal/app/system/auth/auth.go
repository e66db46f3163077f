// Package auth resolves the caller identity for guarded operations.
//
// The API is stateless: clients send the bearer token issued at sign-in
// in the Authorization header. LoadBearerUser verifies the token and
// loads a fresh copy of the account on every request, so role changes
// take effect immediately. A missing or invalid token is not rejected
// here; guarded resolvers fail with "Invalid token" when no identity is
// present in the request context.
package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// SessionUser is the authenticated caller injected into r.Context().
type SessionUser struct {
	ID        string // user ObjectID hex
	Email     string
	FirstName string
	LastName  string
	Role      string // "user" | "admin"
	DebugMode bool
}

// IsAdmin reports whether the caller holds the admin role.
func (u *SessionUser) IsAdmin() bool { return u.Role == "admin" }

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the caller identity and a found flag.
func CurrentUser(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithUser returns a context carrying the given identity.
// Exposed for tests and for the middleware below.
func WithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// UserFetcher loads fresh account data for a verified token subject.
// Implementations return nil when the account no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// Manager verifies bearer tokens and injects the caller identity.
type Manager struct {
	tokens  *TokenManager
	fetcher UserFetcher
	log     *zap.Logger
}

// NewManager builds a Manager around the given token verifier.
func NewManager(tokens *TokenManager, logger *zap.Logger) *Manager {
	return &Manager{tokens: tokens, log: logger}
}

// SetUserFetcher installs the account loader used on each request.
func (m *Manager) SetUserFetcher(f UserFetcher) { m.fetcher = f }

// Tokens exposes the token manager for sign-in resolvers.
func (m *Manager) Tokens() *TokenManager { return m.tokens }

// LoadBearerUser is chi middleware. If the request carries a valid
// bearer token for an existing account, the identity is placed in the
// request context. Otherwise the request proceeds anonymously.
func (m *Manager) LoadBearerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" || m.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.tokens.Verify(raw)
		if err != nil {
			m.log.Debug("bearer token rejected", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if u := m.fetcher.FetchUser(r.Context(), userID); u != nil {
			r = r.WithContext(WithUser(r.Context(), u))
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
