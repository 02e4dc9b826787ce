package urlnorm

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidURL = errors.New("invalid root url")

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Normalize drops the fragment and the scheme's default port, gives a bare
// host the "/" path and lowercases the URL, so that trivially different
// spellings share one visited record. Unparsable input is only lowercased.
func Normalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	u.Fragment = ""
	u.RawFragment = ""

	if u.Host != "" {
		if port := u.Port(); port == "" || port == defaultPorts[u.Scheme] {
			u.Host = strings.TrimSuffix(u.Host, ":"+port)
		}
		if u.Path == "" && u.Opaque == "" {
			u.Path = "/"
			u.RawPath = ""
		}
	}

	return strings.ToLower(u.String())
}

// ValidateRoot checks that raw is an absolute http(s) URL and returns its
// normalized form.
func ValidateRoot(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return Normalize(raw), nil
}
