package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/observability"
	"finitefield.org/catalog-admin/internal/admin/rbac"
)

// RequireCapability aborts the request with 403 Forbidden when the
// authenticated user lacks the capability.
func RequireCapability(capability rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				forbidden(w, r)
				return
			}
			if !rbac.HasCapability(user.Roles, capability) {
				observability.FromContext(r.Context()).Info("capability denied",
					zap.String("capability", string(capability)),
					zap.Strings("roles", user.Roles),
				)
				forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HasCapability reports whether the request's user holds capability.
func HasCapability(r *http.Request, capability rbac.Capability) bool {
	user, ok := UserFromContext(r.Context())
	return ok && rbac.HasCapability(user.Roles, capability)
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	if IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Refresh", "true")
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}
