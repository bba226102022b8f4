package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminmodels "eventreg/internal/admin/models"
	"eventreg/internal/platform/config"
	regmodels "eventreg/internal/registration/models"
	sessionmodels "eventreg/internal/session/models"
	"eventreg/pkg/testutil"
)

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("EVENTREG_ENV", "development")
	t.Setenv("EVENTREG_DATABASE_DRIVER", "memory")
	t.Setenv("EVENTREG_REDIS_URL", "")
	t.Setenv("EVENTREG_ADMIN_USERNAME", "admin")
	t.Setenv("EVENTREG_ADMIN_PASSWORD", "s3cret")

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	_, err = cfg.Validate()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := newApp(context.Background(), cfg, log, reg, reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a.router
}

func registration(name, email, branch string) regmodels.RegisterRequest {
	return regmodels.RegisterRequest{
		Name:     name,
		Email:    email,
		Phone:    "9876543210",
		College:  "RVCE",
		Branch:   branch,
		Year:     "2",
		Interest: "workshops",
	}
}

func TestEventRegistrationScenario(t *testing.T) {
	router := newTestApp(t)
	var token, aliceID string

	testutil.Given(t, "a running eventreg with an empty store", func(t *testing.T) {
		testutil.When(t, "two attendees register", func(t *testing.T) {
			for _, r := range []regmodels.RegisterRequest{
				registration("Alice", "Alice@X.com", "CSE"),
				registration("Bob", "bob@y.com", "CSE"),
			} {
				rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/register", r))
				require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
				if r.Name == "Alice" {
					aliceID = testutil.UnmarshalResponse[regmodels.RegisterResponse](t, rr).ID
				}
			}

			testutil.Then(t, "a repeated email is rejected", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/register",
					registration("Alice Again", " alice@x.com ", "ECE")))
				testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
			})
		})

		testutil.When(t, "the admin lists registrations without a session", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/registrations", nil))

			testutil.Then(t, "the request is unauthorized", func(t *testing.T) {
				assert.Equal(t, http.StatusUnauthorized, rr.Code)
			})
		})

		testutil.When(t, "the admin logs in", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/login",
				sessionmodels.LoginRequest{Username: "admin", Password: "s3cret"}))
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			token = testutil.UnmarshalResponse[sessionmodels.LoginResponse](t, rr).Token
			require.NotEmpty(t, token)

			testutil.Then(t, "stats count both attendees", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.WithBearer(
					testutil.NewJSONRequest(t, http.MethodGet, "/api/stats", nil), token))
				require.Equal(t, http.StatusOK, rr.Code)
				stats := testutil.UnmarshalResponse[adminmodels.Stats](t, rr)
				assert.Equal(t, 2, stats.Total)
				assert.Equal(t, 2, stats.Today)
				assert.Equal(t, "CSE", stats.TopCategory)
			})

			testutil.And(t, "search narrows the list", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.WithBearer(
					testutil.NewJSONRequest(t, http.MethodGet, "/api/registrations?q=ALICE", nil), token))
				require.Equal(t, http.StatusOK, rr.Code)
				list := *testutil.UnmarshalResponse[[]regmodels.Registration](t, rr)
				require.Len(t, list, 1)
				assert.Equal(t, "alice@x.com", list[0].Email)
			})

			testutil.And(t, "the export has a header and one row per attendee", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.WithBearer(
					testutil.NewJSONRequest(t, http.MethodGet, "/api/registrations/export.csv", nil), token))
				require.Equal(t, http.StatusOK, rr.Code)
				rows, err := csv.NewReader(strings.NewReader(rr.Body.String())).ReadAll()
				require.NoError(t, err)
				assert.Len(t, rows, 3)
				assert.Equal(t, adminmodels.ExportHeader, rows[0])
			})
		})

		testutil.When(t, "the admin deletes Alice", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.WithBearer(
				testutil.NewJSONRequest(t, http.MethodDelete, fmt.Sprintf("/api/registrations/%s", aliceID), nil), token))
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			testutil.Then(t, "Alice's email can register again", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/register",
					registration("Alice", "alice@x.com", "ECE")))
				assert.Equal(t, http.StatusCreated, rr.Code)
			})
		})

		testutil.When(t, "the admin logs out", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.WithBearer(
				testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/logout", nil), token))
			require.Equal(t, http.StatusNoContent, rr.Code)

			testutil.Then(t, "the token no longer opens admin routes", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.WithBearer(
					testutil.NewJSONRequest(t, http.MethodGet, "/api/stats", nil), token))
				assert.Equal(t, http.StatusUnauthorized, rr.Code)
			})
		})
	})
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestApp(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/register", registration("Carol", "carol@z.com", "ME")))
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "eventreg_http_requests_total")
}
