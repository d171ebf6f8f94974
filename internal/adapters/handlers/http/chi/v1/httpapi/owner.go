package httpapi

import (
	"beat-ingest/internal/core/objectkey"
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// OwnerHeader carries the authenticated owner id set by the upstream gateway
const OwnerHeader = "X-Owner-ID"

type ownerKey struct{}

// RequireOwner rejects requests without a usable owner id and stores it in the request context
func RequireOwner(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
			if owner == "" {
				writeError(w, logger, KindUnauthenticated, "missing "+OwnerHeader+" header")
				return
			}
			if !objectkey.ValidSegment(owner) {
				writeError(w, logger, KindInvalidRequest, "invalid "+OwnerHeader+" header")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

// WithOwner returns a copy of ctx carrying owner
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// Owner returns the owner id stored by RequireOwner
func Owner(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}
