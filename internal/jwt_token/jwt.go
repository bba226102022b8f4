package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "eventreg/pkg/domain-errors"
)

// Claims are carried by admin session tokens. The subject is the admin
// username and ID (jti) is the handle used for revocation.
type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 session tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

type Option func(*JWTService)

// WithClock overrides the time source used to check expiry.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewJWTService(signingKey string, issuer string, audience string, opts ...Option) *JWTService {
	s := &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateToken issues a token for subject valid from issuedAt for ttl. Each
// token gets a fresh jti.
func (s *JWTService) GenerateToken(
	subject string,
	sessionID uuid.UUID,
	issuedAt time.Time,
	ttl time.Duration) (string, *Claims, error) {
	claims := &Claims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
