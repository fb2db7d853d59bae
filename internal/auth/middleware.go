package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Middleware authenticates API requests with either a static API key header
// or an HS256 bearer token. When neither secret is configured the API runs
// open, which suits local use.
type Middleware struct {
	jwtSecret    []byte
	apiKey       string
	apiKeyHeader string
}

func NewMiddleware(jwtSecret, apiKey, apiKeyHeader string) *Middleware {
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	return &Middleware{
		jwtSecret:    []byte(jwtSecret),
		apiKey:       apiKey,
		apiKeyHeader: apiKeyHeader,
	}
}

func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.apiKey == "" && len(m.jwtSecret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if m.apiKey != "" && r.Header.Get(m.apiKeyHeader) == m.apiKey {
			next.ServeHTTP(w, r)
			return
		}

		if len(m.jwtSecret) > 0 {
			tokenStr := extractBearerToken(r)
			if tokenStr != "" && m.validToken(tokenStr) {
				next.ServeHTTP(w, r)
				return
			}
		}

		writeError(w, http.StatusUnauthorized, "missing or invalid credentials")
	})
}

func (m *Middleware) validToken(tokenStr string) bool {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	return err == nil && token.Valid
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
