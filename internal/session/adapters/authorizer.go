package adapters

import (
	"context"

	"eventreg/internal/session/service"
	authmw "eventreg/pkg/platform/middleware/auth"
)

// Authorizer exposes the session service to the HTTP auth middleware.
type Authorizer struct {
	service *service.Service
}

func NewAuthorizer(service *service.Service) *Authorizer {
	return &Authorizer{service: service}
}

func (a *Authorizer) Authorize(ctx context.Context, token string) (*authmw.Claims, error) {
	claims, err := a.service.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return &authmw.Claims{
		Subject:   claims.Subject,
		SessionID: claims.SessionID,
		JTI:       claims.JTI,
	}, nil
}
