package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/rogerio-castellano/inventory-system/internal/auth"
	rl "github.com/rogerio-castellano/inventory-system/internal/http/rate_limiter"
)

type contextKey string

const usernameKey = contextKey("username")

var (
	tokenIssuer *auth.TokenIssuer
	limiter     *rl.Limiter
)

func SetTokenIssuer(i *auth.TokenIssuer) {
	tokenIssuer = i
}

func SetRateLimiter(l *rl.Limiter) {
	limiter = l
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenIssuer == nil {
			http.Error(w, "authentication unavailable", http.StatusServiceUnavailable)
			return
		}

		claims, err := tokenIssuer.TokenClaims(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		username, _ := claims["username"].(string)
		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimitMiddleware throttles each client IP. Without a limiter every
// request passes.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter != nil && !limiter.GetVisitor(clientIP(r)).Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUsername(r *http.Request) string {
	if val, ok := r.Context().Value(usernameKey).(string); ok {
		return val
	}
	return ""
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
