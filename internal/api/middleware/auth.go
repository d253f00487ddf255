package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type userKeyType string

const UserIDKey userKeyType = "user_id"

// Auth validates a Bearer JWT using the provided HMAC secret and adds the
// user id to context. Requests without a valid token are rejected.
func Auth(hmacSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := resolveUserID(r, hmacSecret)
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthOptional resolves the caller's identity when a valid token is present
// and continues with an empty identity otherwise. It never rejects: on the
// surfaces it guards, "no session" is a normal outcome the downstream code
// handles itself.
func AuthOptional(hmacSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uid, ok := resolveUserID(r, hmacSecret); ok {
				r = r.WithContext(context.WithValue(r.Context(), UserIDKey, uid))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolveUserID(r *http.Request, hmacSecret []byte) (string, bool) {
	ah := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return "", false
	}
	tokenStr := strings.TrimSpace(ah[len("Bearer "):])
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return hmacSecret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	uid, _ := claims["sub"].(string)
	if uid == "" {
		return "", false
	}
	return uid, true
}

// GetUserID returns the authenticated user id from context, or "".
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
