package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	jwttoken "eventreg/internal/jwt_token"
	"eventreg/internal/session/device"
	"eventreg/internal/session/models"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks RevocationList

// DefaultSessionTTL is how long an admin session token stays valid.
const DefaultSessionTTL = 8 * time.Hour

var errRevoked = dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")

// TokenService signs and verifies session tokens.
type TokenService interface {
	GenerateToken(subject string, sessionID uuid.UUID, issuedAt time.Time, ttl time.Duration) (string, *jwttoken.Claims, error)
	ValidateToken(token string) (*jwttoken.Claims, error)
}

// RevocationList records logged-out token ids.
type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Credentials is the single configured operator identity. When PasswordHash is
// set it is a bcrypt hash and Password is ignored.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Service gates admin operations behind a login issued session token.
type Service struct {
	creds   Credentials
	tokens  TokenService
	revoked RevocationList
	ttl     time.Duration
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func New(creds Credentials, tokens TokenService, revoked RevocationList, opts ...Option) (*Service, error) {
	if creds.Username == "" {
		return nil, errors.New("admin username is required")
	}
	if creds.Password == "" && creds.PasswordHash == "" {
		return nil, errors.New("admin password or password hash is required")
	}
	if creds.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(creds.PasswordHash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
	}
	if tokens == nil {
		return nil, errors.New("token service is required")
	}
	if revoked == nil {
		return nil, errors.New("revocation list is required")
	}

	s := &Service{
		creds:   creds,
		tokens:  tokens,
		revoked: revoked,
		ttl:     DefaultSessionTTL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login checks username and password against the configured identity and
// issues a session token on match.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, error) {
	requestID := requestcontext.RequestID(ctx)
	deviceLabel := device.ParseUserAgent(requestcontext.UserAgent(ctx))

	if !s.credentialsMatch(username, password) {
		s.logger.WarnContext(ctx, "admin login failed",
			"client_ip", requestcontext.ClientIP(ctx),
			"device", deviceLabel,
			"request_id", requestID,
		)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	sessionID := uuid.New()
	token, claims, err := s.tokens.GenerateToken(s.creds.Username, sessionID, requestcontext.Now(ctx), s.ttl)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to sign session token",
			"error", err,
			"request_id", requestID,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session")
	}

	s.logger.InfoContext(ctx, "admin logged in",
		"session_id", sessionID,
		"client_ip", requestcontext.ClientIP(ctx),
		"device", deviceLabel,
		"request_id", requestID,
	)
	return &models.Session{
		Token:     token,
		SessionID: sessionID.String(),
		Subject:   s.creds.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// credentialsMatch compares fixed-length digests so timing reveals neither the
// username nor the password length. Both halves are always evaluated.
func (s *Service) credentialsMatch(username, password string) bool {
	gotUser := sha256.Sum256([]byte(username))
	wantUser := sha256.Sum256([]byte(s.creds.Username))
	userOK := subtle.ConstantTimeCompare(gotUser[:], wantUser[:]) == 1

	var passOK bool
	if s.creds.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)) == nil
	} else {
		gotPass := sha256.Sum256([]byte(password))
		wantPass := sha256.Sum256([]byte(s.creds.Password))
		passOK = subtle.ConstantTimeCompare(gotPass[:], wantPass[:]) == 1
	}
	return userOK && passOK
}

// Authorize verifies token and rejects it once revoked.
func (s *Service) Authorize(ctx context.Context, token string) (*models.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to check token revocation",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate token")
	}
	if revoked {
		return nil, errRevoked
	}

	return &models.Claims{
		Subject:   claims.Subject,
		SessionID: claims.SessionID,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IsAuthorized reports whether token currently grants admin access.
func (s *Service) IsAuthorized(ctx context.Context, token string) bool {
	_, err := s.Authorize(ctx, token)
	return err == nil
}

// Logout revokes token for the rest of its lifetime. Logging out an already
// revoked token succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.Authorize(ctx, token)
	if err != nil {
		if errors.Is(err, errRevoked) {
			return nil
		}
		return err
	}

	remaining := claims.ExpiresAt.Sub(requestcontext.Now(ctx))
	if remaining <= 0 {
		return nil
	}
	if err := s.revoked.RevokeToken(ctx, claims.JTI, remaining); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke session token",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to end session")
	}

	s.logger.InfoContext(ctx, "admin logged out",
		"session_id", claims.SessionID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}
