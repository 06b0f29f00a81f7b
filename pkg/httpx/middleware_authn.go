package httpx

import (
	"net/http"
	"strings"

	"github.com/bedirhantong/renart-vendor-panel/pkg/jwtx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

// AuthnMiddleware requires a valid Bearer access token and stores its claims
// in the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "Access token required")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "Invalid or expired token")
				return
			}
			if claims.Role != "vendor" {
				writeBearerError(w, "Vendor access required")
				return
			}

			ctx = slogx.With(ctx, "vendor_id", claims.Subject)
			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}

// RFC 6750 challenge plus the usual envelope body.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, desc)
}
