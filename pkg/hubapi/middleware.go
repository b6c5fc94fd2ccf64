package hubapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/arcadefleet/hub/pkg/hubapi/devicetoken"
)

type contextKey string

const claimsContextKey contextKey = "device_claims"

// ClaimsFromContext retrieves the device token claims from the request
// context. Returns nil if DeviceAuth has not run on this request.
func ClaimsFromContext(ctx context.Context) *devicetoken.Claims {
	claims, ok := ctx.Value(claimsContextKey).(*devicetoken.Claims)
	if !ok {
		return nil
	}
	return claims
}

func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// DeviceAuth validates the device bearer token minted by devicetoken.Service
// and stores its claims in the request context (SPEC_FULL.md §4.7, "the
// calling device's identity extracted from the device bearer token").
func DeviceAuth(tokens *devicetoken.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				http.Error(w, "authorization header required", http.StatusUnauthorized)
				return
			}
			claims, err := tokens.Validate(token)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
