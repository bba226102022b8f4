package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	jwttoken "eventreg/internal/jwt_token"
	"eventreg/internal/session/adapters"
	"eventreg/internal/session/models"
	"eventreg/internal/session/service"
	"eventreg/internal/session/store/revocation"
	dErrors "eventreg/pkg/domain-errors"
	authmw "eventreg/pkg/platform/middleware/auth"
	"eventreg/pkg/testutil"
)

type SessionHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestSessionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SessionHandlerSuite))
}

func (s *SessionHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(
		service.Credentials{Username: "admin", Password: "admin123"},
		jwttoken.NewJWTService("test-key", "eventreg", "eventreg-admin"),
		revocation.NewInMemoryTRL(),
		service.WithLogger(logger),
	)
	s.Require().NoError(err)

	requireSession := authmw.RequireSession(adapters.NewAuthorizer(svc), logger)
	s.router = chi.NewRouter()
	New(svc, requireSession, logger).Register(s.router)
	// A protected probe route to observe the effect of logout.
	s.router.With(requireSession).Get("/probe", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func (s *SessionHandlerSuite) login() string {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/admin/login",
		models.LoginRequest{Username: "admin", Password: "admin123"}))
	s.Require().Equal(http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[models.LoginResponse](s.T(), rr)
	s.Require().NotEmpty(resp.Token)
	s.Equal("Login successful", resp.Message)
	s.False(resp.ExpiresAt.IsZero())
	return resp.Token
}

func (s *SessionHandlerSuite) probe(token string) int {
	req := testutil.NewRequestWithBody(s.T(), http.MethodGet, "/probe", "")
	if token != "" {
		testutil.WithBearer(req, token)
	}
	return testutil.DoRequest(s.router, req).Code
}

func (s *SessionHandlerSuite) TestLoginThenAccess() {
	token := s.login()
	s.Equal(http.StatusOK, s.probe(token))
	s.Equal(http.StatusUnauthorized, s.probe(""))
}

func (s *SessionHandlerSuite) TestLoginWrongPassword() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/admin/login",
		models.LoginRequest{Username: "admin", Password: "nope"}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
}

func (s *SessionHandlerSuite) TestLoginMalformedBody() {
	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/admin/login", "{"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
}

func (s *SessionHandlerSuite) TestLogout() {
	token := s.login()

	req := testutil.WithBearer(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/admin/logout", ""), token)
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusNoContent, rr.Code)

	s.Equal(http.StatusUnauthorized, s.probe(token))

	// The revoked token cannot reach logout again.
	rr = testutil.DoRequest(s.router, testutil.WithBearer(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/admin/logout", ""), token))
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *SessionHandlerSuite) TestLogoutWithoutToken() {
	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/admin/logout", ""))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
}
