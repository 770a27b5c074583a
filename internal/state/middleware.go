package state

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CookieName carries the signed session token.
const CookieName = "uigw_session"

type ctxKey struct{}

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Middleware establishes the browser session. The session id is a UUID
// wrapped in an HS256-signed cookie so it cannot be forged; an absent,
// expired or invalid cookie silently gets a fresh session with default
// selection state.
func Middleware(mgr *Manager, secret string, ttl time.Duration, logger *zap.Logger) func(next http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(CookieName); err == nil {
				sid = parseSessionToken(c.Value, key)
			}

			if sid == "" {
				sid = uuid.NewString()
				token, err := signSessionToken(sid, key, ttl)
				if err != nil {
					logger.Error("state: failed to sign session token", zap.Error(err))
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			mgr.Establish(r.Context(), sid)

			ctx := context.WithValue(r.Context(), ctxKey{}, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID extracts the established session id from the request context.
// The second return is false outside the middleware's scope; callers
// must treat that as a configuration error, never default silently.
func SessionID(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(ctxKey{}).(string)
	return sid, ok
}

func parseSessionToken(token string, key []byte) string {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return key, nil
	})
	if err != nil || !parsed.Valid || claims.SID == "" {
		return ""
	}
	return claims.SID
}

func signSessionToken(sid string, key []byte, ttl time.Duration) (string, error) {
	claims := sessionClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
