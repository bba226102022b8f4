package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/httputil"
	"eventreg/pkg/requestcontext"
)

// Claims are the parts of a verified session the middleware exposes downstream.
type Claims struct {
	Subject   string
	SessionID string
	JTI       string
}

// Authorizer verifies a presented bearer token, revocation included.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*Claims, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// RequireSession rejects requests without a valid admin session before any
// downstream handler runs.
func RequireSession(authorizer Authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := BearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := authorizer.Authorize(ctx, token)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
					logger.WarnContext(ctx, "unauthorized access - invalid token",
						"error", err,
						"request_id", requestID,
					)
				}
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithAdmin(ctx, claims.Subject)
			ctx = requestcontext.WithSessionID(ctx, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
