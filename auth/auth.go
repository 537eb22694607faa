// Package auth manages the browser session: a signed JWT stored in the
// _token cookie, plus the middleware that resolves it into a user id.
package auth

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const (
	// CookieName matches the cookie the front-end scripts expect.
	CookieName = "_token"

	// SessionDuration is the fixed token lifetime.
	SessionDuration = 24 * time.Hour

	userIDCtxKey = ctxKey("userID")
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the authenticated user id inside the JWT.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint `json:"id"`
}

// UserVerifier is an optional callback to confirm a session's user still
// exists. Set during bootstrap via SetUserVerifier; nil skips the check.
type UserVerifier func(ctx context.Context, uid uint) bool

var verifier UserVerifier

// SetUserVerifier configures the verifier consulted by RequireAuth.
func SetUserVerifier(v UserVerifier) { verifier = v }

// Secret returns JWT_SECRET or a development fallback.
func Secret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "devjwtsecret"
}

// GenerateToken signs a JWT carrying the user id.
func GenerateToken(userID uint, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateToken parses and verifies a token string.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CreateSession sets the signed session cookie for userID.
func CreateSession(w http.ResponseWriter, userID uint) error {
	token, err := GenerateToken(userID, Secret(), SessionDuration)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(SessionDuration),
	})
	return nil
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// ParseSession validates the cookie and returns the user id.
func ParseSession(r *http.Request) (uint, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return 0, false
	}
	claims, err := ValidateToken(c.Value, Secret())
	if err != nil {
		return 0, false
	}
	return claims.UserID, true
}

// WithUserID stores the user id in ctx.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts the user id; second result is false when the
// request carried no valid session.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	return id, ok
}

// Identify attaches the user id to the request context when a valid session
// is present. It never rejects; public pages use it to greet known visitors.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := ParseSession(r); ok {
			r = r.WithContext(WithUserID(r.Context(), uid))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to the login form when no identity resolved, or when
// the session points at a user that no longer exists.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok || uid == 0 {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		if verifier != nil && !verifier(r.Context(), uid) {
			// Stale session: clear and start over.
			ClearSession(w)
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
