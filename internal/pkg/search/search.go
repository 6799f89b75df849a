// Package search holds keyword parsing and LIKE escaping shared by the
// search use case and the persistence adapters.
package search

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultMaxKeywordCount bounds the number of AND-ed keywords in one query.
	DefaultMaxKeywordCount = 10
	// DefaultMaxKeywordLength bounds a single keyword, in characters.
	DefaultMaxKeywordLength = 100
	// DefaultSearchTimeout caps a single search query.
	DefaultSearchTimeout = 5 * time.Second
)

var (
	// ErrEmptyQuery is returned when the query has no keywords.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrTooManyKeywords is returned when the query exceeds the keyword limit.
	ErrTooManyKeywords = errors.New("too many keywords")
	// ErrKeywordTooLong is returned when a keyword exceeds the length limit.
	ErrKeywordTooLong = errors.New("keyword too long")
)

// ParseKeywords splits query on whitespace. Empty or whitespace-only input
// returns ErrEmptyQuery.
func ParseKeywords(query string, maxCount, maxLength int) ([]string, error) {
	keywords := strings.Fields(query)
	if len(keywords) == 0 {
		return nil, ErrEmptyQuery
	}
	if len(keywords) > maxCount {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyKeywords, len(keywords), maxCount)
	}
	for _, kw := range keywords {
		if utf8.RuneCountInString(kw) > maxLength {
			return nil, fmt.Errorf("%w: max %d characters", ErrKeywordTooLong, maxLength)
		}
	}
	return keywords, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeILIKE escapes LIKE wildcards in keyword and wraps it in % for a
// substring match. The result is meant to be bound as a parameter, with
// backslash as the escape character (the PostgreSQL default).
func EscapeILIKE(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// Matches reports whether every keyword is a case-insensitive substring of
// at least one of the fields. In-memory counterpart of the SQL search.
func Matches(keywords []string, fields ...string) bool {
	lowered := make([]string, len(fields))
	for i, f := range fields {
		lowered[i] = strings.ToLower(f)
	}
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		found := false
		for _, f := range lowered {
			if strings.Contains(f, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
