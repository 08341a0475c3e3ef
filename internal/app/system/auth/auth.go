// internal/app/system/auth/auth.go

// Package auth provides request identity for the API: session cookies for
// browser clients (gorilla/sessions) and signed bearer tokens for API
// clients (JWT, issued at login). Both resolve to the same SessionUser and
// handlers never care which transport carried the identity.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// tokenTTL matches the session lifetime: seven days.
const tokenTTL = 7 * 24 * time.Hour

// SessionUser is the identity injected into r.Context() for every
// authenticated request. It is re-fetched from the users collection on each
// request so role changes and deactivations take effect immediately.
type SessionUser struct {
	ID        string
	Name      string
	Email     string
	Role      string
	CompanyID string
	IsActive  bool
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user into the request context, bypassing the
// session middleware. For handler tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// UserFetcher loads a fresh SessionUser by user ID. The users store
// provides the production implementation.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) (*SessionUser, error)
}

// SessionManager owns the cookie store and token signing key.
type SessionManager struct {
	store       *sessions.CookieStore
	sessionName string
	jwtSecret   []byte
	fetcher     UserFetcher
	log         *zap.Logger
}

// NewSessionManager builds a SessionManager. The session key must be at
// least 32 characters; the JWT secret falls back to a random key (tokens
// then do not survive restarts, which is acceptable for dev).
func NewSessionManager(sessionKey, sessionName, domain string, secure bool, jwtSecret string, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide 32+ random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		MaxAge:   int(tokenTTL / time.Second),
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	secret := []byte(jwtSecret)
	if len(secret) == 0 {
		logger.Warn("jwt secret not configured; using a random key (tokens invalid after restart)")
		secret = securecookie.GenerateRandomKey(32)
	}

	return &SessionManager{
		store:       store,
		sessionName: sessionName,
		jwtSecret:   secret,
		log:         logger,
	}, nil
}

// SetUserFetcher wires the users store in. LoadSessionUser is a no-op until
// a fetcher is set.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// SignIn records the user ID in the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, _ := sm.store.Get(r, sm.sessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.sessionName)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// IssueToken signs a bearer token for the user, expiring after seven days.
func (sm *SessionManager) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.jwtSecret)
}

// userIDFromRequest extracts the authenticated user ID from the bearer
// token (preferred) or the session cookie. Returns "" when unauthenticated.
func (sm *SessionManager) userIDFromRequest(r *http.Request) string {
	if ah := r.Header.Get("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		raw := strings.TrimPrefix(ah, "Bearer ")
		tok, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return sm.jwtSecret, nil
		})
		if err == nil && tok.Valid {
			if claims, ok := tok.Claims.(*jwt.RegisteredClaims); ok {
				return claims.Subject
			}
		}
		return ""
	}

	sess, _ := sm.store.Get(r, sm.sessionName)
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return ""
	}
	id, _ := sess.Values[userIDKey].(string)
	return id
}

// LoadSessionUser resolves the request identity and injects a fresh
// SessionUser into context. Inactive accounts are treated as signed out.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sm.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		userID := sm.userIDFromRequest(r)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		u, err := sm.fetcher.FetchUser(r.Context(), userID)
		if err != nil || u == nil {
			next.ServeHTTP(w, r)
			return
		}
		if !u.IsActive {
			sm.log.Info("inactive account rejected", zap.String("user_id", userID))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn rejects unauthenticated requests with a JSON 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects requests whose user lacks one of the allowed roles
// with a JSON 403 (401 when unauthenticated).
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				writeJSONError(w, http.StatusForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONError is local so auth does not depend on httpjson (httpjson is
// free to depend on auth-adjacent packages).
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\"message\":%q}\n", msg)
}
