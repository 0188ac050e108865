package logging

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	reAPIKey    = regexp.MustCompile(`(?i)((?:api_?key|key)=)([^\s&;"']+)`)
	reToken     = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reGoogKey   = regexp.MustCompile(`(?i)(x-goog-api-key:?\s*)([^\s,;"']+)`)
	reJSONKey   = regexp.MustCompile(`(?i)("api_?key"\s*:\s*")([^"]*)(")`)
	reGoogleKey = regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`)
	reEmailArg  = regexp.MustCompile(`([?&]de=)([^\s&;"']+)`)
)

// Mask replaces well-known credential shapes in s with "***".
func Mask(s string) string {
	out := s
	out = reAPIKey.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reGoogKey.ReplaceAllString(out, "$1***")
	out = reJSONKey.ReplaceAllString(out, "$1***$3")
	out = reGoogleKey.ReplaceAllString(out, "***")
	out = reEmailArg.ReplaceAllString(out, "$1***")
	return out
}

// Redact masks s and additionally removes every secret value, both
// literal and query-escaped.
func Redact(s string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, "***")
		if escaped := url.QueryEscape(secret); escaped != secret {
			s = strings.ReplaceAll(s, escaped, "***")
		}
	}
	return Mask(s)
}
