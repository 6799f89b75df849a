// Package pathutil maps request paths onto route templates so that metric
// labels and span names stay low-cardinality.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// Most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/articles/[^/]+/comments/[^/]+$`), Template: "/articles/:id/comments/:commentId"},
	{Pattern: regexp.MustCompile(`^/articles/[^/]+/comments$`), Template: "/articles/:id/comments"},
	{Pattern: regexp.MustCompile(`^/articles/[^/]+$`), Template: "/articles/:id"},
	{Pattern: regexp.MustCompile(`^/categories/[^/]+/articles$`), Template: "/categories/:id/articles"},
	{Pattern: regexp.MustCompile(`^/swagger(/.*)?$`), Template: "/swagger/*"},
}

// NormalizePath converts paths carrying identifiers into their route
// template. Query strings and a trailing slash are dropped; unknown paths are
// returned unchanged.
//
//	NormalizePath("/articles/123")             // "/articles/:id"
//	NormalizePath("/articles/1/comments/9")    // "/articles/:id/comments/:commentId"
//	NormalizePath("/search?query=go")          // "/search"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
