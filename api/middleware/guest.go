package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// GuestTokenHeader carries the anonymous cart identity in both directions.
const GuestTokenHeader = "X-Guest-Token"

// GuestToken resolves the guest identity for requests without an authenticated
// user. A missing header mints a fresh token and echoes it in the response.
// The header is also read for authenticated callers so they can merge.
func GuestToken(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw := strings.TrimSpace(r.Header.Get(GuestTokenHeader))
			if raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid guest token"))
					return
				}
				raw = parsed.String()
			}

			if raw == "" && UserIDFromContext(ctx) == "" {
				raw = uuid.NewString()
				w.Header().Set(GuestTokenHeader, raw)
			}
			if raw != "" {
				ctx = WithGuestToken(ctx, raw)
				if logg != nil && UserIDFromContext(ctx) == "" {
					ctx = logg.WithGuestToken(ctx, raw)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
