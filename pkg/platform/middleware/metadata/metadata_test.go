package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventreg/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for takes first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:5000", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.4 "}, "10.0.0.2:5000", "198.51.100.4"},
		{"ipv4 remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"ipv6 remote addr", nil, "[::1]:1234", "::1"},
		{"empty remote addr", nil, "", "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, ClientIPFromRequest(req))
		})
	}
}

func TestClientMetadata(t *testing.T) {
	var ip, ua string
	h := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		ua = requestcontext.UserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("User-Agent", "curl/8.4.0")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.1", ip)
	assert.Equal(t, "curl/8.4.0", ua)
}
