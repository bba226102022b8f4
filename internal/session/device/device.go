// Package device turns User-Agent headers into short labels for login logs.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent returns a label such as "Chrome on Intel Mac OS X 10_15_7".
func ParseUserAgent(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	os := ua.OS()
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	if ua.Bot() {
		return browser + " (bot)"
	}
	return browser + " on " + os
}
