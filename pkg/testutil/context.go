package testutil

import (
	"context"
	"net/http"

	"eventreg/pkg/requestcontext"
)

// AdminContext returns ctx carrying an authenticated admin session, as the
// session middleware would leave it.
func AdminContext(ctx context.Context, username, sessionID string) context.Context {
	ctx = requestcontext.WithAdmin(ctx, username)
	if sessionID != "" {
		ctx = requestcontext.WithSessionID(ctx, sessionID)
	}
	return ctx
}

// WithAdmin attaches an authenticated admin session to req for handlers tested
// without the session middleware.
func WithAdmin(req *http.Request, username, sessionID string) *http.Request {
	return req.WithContext(AdminContext(req.Context(), username, sessionID))
}
