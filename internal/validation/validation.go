package validation

import (
	"net/url"
	"regexp"
	"strings"
)

// CompanyKeyPattern defines the valid company key format: alphanumeric, dots, hyphens, underscores.
var CompanyKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateCompanyKey checks if a company key matches the allowed pattern.
func ValidateCompanyKey(key string) bool {
	if key == "" || len(key) > 100 || strings.Contains(key, "..") {
		return false
	}
	return CompanyKeyPattern.MatchString(key)
}

// ValidateSearchSlug checks a slug used to build a search link. Path slugs
// are taken verbatim from page addresses, so only length and separators are
// checked.
func ValidateSearchSlug(s string) bool {
	if s == "" || len(s) > 200 {
		return false
	}
	return !strings.ContainsAny(s, "/\\?#")
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Check scheme - only allow http and https
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidatePageAddress checks the address an overlay reports for its page.
// The address is only searched for a /problems/ segment and never fetched
// or redirected to, so empty, scheme-less and unparseable addresses are
// accepted and left to the heading and title fallbacks.
func ValidatePageAddress(address string) (bool, string) {
	if len(address) > 2048 {
		return false, "URL is too long"
	}
	return true, ""
}

// ValidateSource checks both recordset URLs of a dataset source.
func ValidateSource(companiesURL, problemsURL string) (bool, string) {
	if ok, msg := ValidateURL(companiesURL); !ok {
		return false, "companies_url: " + msg
	}
	if ok, msg := ValidateURL(problemsURL); !ok {
		return false, "problems_url: " + msg
	}
	return true, ""
}
