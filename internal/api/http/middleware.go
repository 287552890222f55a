package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/maintenance"
	"microfinance-backend/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// claimsFromContext returns the authenticated user's claims, or nil on an
// unauthenticated request.
func claimsFromContext(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(claimsContextKey).(*security.UserClaims)
	return claims
}

// AuthMiddleware validates the Bearer token and stores the claims on the
// request context. Only access tokens pass; refresh tokens are rejected here.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondError(w, http.StatusUnauthorized, "authorization token is not provided")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			if claims.Type != security.TokenTypeAccess {
				respondServiceError(w, security.ErrWrongTokenType)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose role is not in the allowed
// set. Must run after AuthMiddleware.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil {
				respondError(w, http.StatusUnauthorized, "authorization token is not provided")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, "insufficient role for this endpoint")
		})
	}
}

// maintenanceExemptPrefixes lists paths that stay reachable while the gate is
// up: health probes and the maintenance status/clear endpoints operators need
// to end the window.
var maintenanceExemptPrefixes = []string{
	"/health",
	"/api/v1/maintenance",
}

// MaintenanceMiddleware rejects requests with 503 while a maintenance
// operation is in progress.
func MaintenanceMiddleware(state *maintenance.State, retryAfter int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := state.Current()
			if !snap.Active || isMaintenanceExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error":   "service temporarily unavailable",
				"message": snap.Message,
			})
		})
	}
}

func isMaintenanceExempt(path string) bool {
	for _, prefix := range maintenanceExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
