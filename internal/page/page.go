// Package page derives the problem slug for a page from its address and,
// when the address does not carry one, from the rendered heading or the
// document title.
package page

import (
	"net/url"
	"regexp"
	"strings"

	"companyfinder/internal/slug"
)

var problemPath = regexp.MustCompile(`/problems/([^/]+)`)

// Context is the read-only view of a page supplied by the overlay.
type Context struct {
	Address string

	// Heading is the text of the problem heading element, if one exists.
	Heading    string
	HasHeading bool

	// Title is the document title.
	Title    string
	HasTitle bool
}

// WithHeading returns a copy of c with the heading set.
func (c Context) WithHeading(text string) Context {
	c.Heading = text
	c.HasHeading = true
	return c
}

// WithTitle returns a copy of c with the document title set.
func (c Context) WithTitle(text string) Context {
	c.Title = text
	c.HasTitle = true
	return c
}

// ExtractSlug resolves the slug for a page. The first rule that yields a
// non-empty slug wins:
//
//  1. a /problems/<segment> path in the address, returned verbatim
//  2. the normalized heading text
//  3. the normalized document title
//
// It returns false when no rule applies.
func ExtractSlug(c Context) (string, bool) {
	if segment, ok := PathSegment(c.Address); ok {
		return segment, true
	}
	if c.HasHeading {
		if s := slug.Normalize(strings.TrimSpace(c.Heading)); s != "" {
			return s, true
		}
	}
	if c.HasTitle && c.Title != "" {
		if s := slug.Normalize(c.Title); s != "" {
			return s, true
		}
	}
	return "", false
}

// PathSegment returns the raw segment following /problems/ in the address
// path. The segment is not normalized: it already follows the site's slug
// convention.
func PathSegment(address string) (string, bool) {
	if address == "" {
		return "", false
	}
	u, err := url.Parse(address)
	if err != nil {
		return "", false
	}
	m := problemPath.FindStringSubmatch(u.EscapedPath())
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// IsProblemPage reports whether the overlay should activate on address.
func IsProblemPage(address string) bool {
	return strings.Contains(address, "/problems/") || strings.Contains(address, "/problem/")
}
