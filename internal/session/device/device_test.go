package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type UserAgentSuite struct {
	suite.Suite
}

func TestUserAgentSuite(t *testing.T) {
	suite.Run(t, new(UserAgentSuite))
}

func (s *UserAgentSuite) TestParseUserAgent() {
	s.Run("empty user agent returns unknown device", func() {
		s.Equal("Unknown Device", ParseUserAgent(""))
		s.Equal("Unknown Device", ParseUserAgent("   "))
	})

	s.Run("chrome on desktop includes browser and OS", func() {
		userAgent := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
		result := ParseUserAgent(userAgent)
		s.Contains(result, "Chrome")
		s.Contains(result, " on ")
		s.NotContains(result, "  ")
	})

	s.Run("safari on iphone includes platform", func() {
		userAgent := "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
		result := ParseUserAgent(userAgent)
		s.Contains(result, " on ")
		s.Contains(result, "iPhone")
	})

	s.Run("firefox on linux includes browser and OS", func() {
		userAgent := "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
		result := ParseUserAgent(userAgent)
		s.Contains(result, "Firefox")
		s.Contains(result, "Linux")
	})

	s.Run("label never spans lines", func() {
		result := ParseUserAgent("curl/8.4.0")
		s.NotEmpty(result)
		s.False(strings.ContainsAny(result, "\r\n"))
	})
}
