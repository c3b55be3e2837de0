package domain

import (
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeWebsite canonicalizes a website so it can be used as a lead's
// identity. Scheme and host are lower-cased, the host is IDNA-encoded, the
// fragment and a bare root path are dropped. Paths and queries keep their
// case. An empty result means the lead has no website.
func NormalizeWebsite(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	scheme := ""
	if i := strings.Index(s, "://"); i > 0 {
		scheme = strings.ToLower(s[:i]) + "://"
		s = s[i+3:]
	}

	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}

	host, rest := s, ""
	if i := strings.IndexAny(s, "/?"); i >= 0 {
		host, rest = s[:i], s[i:]
	}

	host = strings.ToLower(host)
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		host = ascii
	}

	if rest == "/" {
		rest = ""
	}

	if host == "" && rest == "" {
		return ""
	}
	return scheme + host + rest
}

// WebsitePtr normalizes an optional website. Nil and blank both yield nil.
func WebsitePtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := NormalizeWebsite(*raw)
	if normalized == "" {
		return nil
	}
	return &normalized
}
