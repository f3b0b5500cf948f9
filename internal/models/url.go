// Package models - profile URL normalization
package models

import (
	"net/url"
	"regexp"
	"strings"
)

var canonicalProfileRe = regexp.MustCompile(`^https://www\.linkedin\.com/in/[^/?#]+$`)

// IsCanonicalProfileURL reports whether the URL has the normalized profile shape
func IsCanonicalProfileURL(s string) bool {
	return canonicalProfileRe.MatchString(s)
}

// NormalizeProfileURL reduces a profile link to its canonical form: scheme and
// host fixed, query/fragment dropped, trailing slash removed. Returns "" for
// anything that is not a profile link, so callers can use the empty string as
// the invalid marker.
func NormalizeProfileURL(href string) string {
	if href == "" {
		return ""
	}

	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Host)
	if host != "" && host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return ""
	}

	path := strings.TrimSuffix(u.Path, "/")
	if !strings.HasPrefix(path, "/in/") {
		return ""
	}

	// The member slug is the single path element after /in/
	slug := strings.TrimPrefix(path, "/in/")
	if slug == "" || strings.Contains(slug, "/") {
		return ""
	}

	return "https://www.linkedin.com/in/" + slug
}

// IsLeadPlatformURL reports whether the URL points at the lead platform
// (Sales Navigator style) rather than the public profile space. Such URLs are
// aliases; the canonical identity must be captured from page content.
func IsLeadPlatformURL(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return strings.Contains(u.Path, "/sales/") && strings.Contains(strings.ToLower(u.Host), "linkedin.com")
}

// CleanDisplayName strips LinkedIn decorations like pronoun parentheticals and
// connection-degree bullets from a scraped name.
func CleanDisplayName(name string) string {
	name = strings.TrimSpace(name)
	name = parenSuffixRe.ReplaceAllString(name, "")
	name = degreeSuffixRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

var (
	parenSuffixRe  = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	degreeSuffixRe = regexp.MustCompile(`\s*•\s*\d+(st|nd|rd|th)?\+?\s*$`)
)
