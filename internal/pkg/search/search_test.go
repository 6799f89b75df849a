package search

import (
	"errors"
	"strings"
	"testing"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    []string
		wantErr error
	}{
		{"single", "golang", []string{"golang"}, nil},
		{"multiple with extra spaces", "  go   blog ", []string{"go", "blog"}, nil},
		{"empty", "", nil, ErrEmptyQuery},
		{"whitespace only", " \t ", nil, ErrEmptyQuery},
		{"too many", "a b c d", nil, ErrTooManyKeywords},
		{"too long", strings.Repeat("я", 6), nil, ErrKeywordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeywords(tt.query, 3, 5)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEscapeILIKE(t *testing.T) {
	tests := map[string]string{
		"go":      "%go%",
		"100%":    `%100\%%`,
		"snake_c": `%snake\_c%`,
		`a\b`:     `%a\\b%`,
	}
	for in, want := range tests {
		if got := EscapeILIKE(in); got != want {
			t.Errorf("EscapeILIKE(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatches(t *testing.T) {
	title, body := "Как начать программировать", "Go is a fine first language"

	if !Matches([]string{"GO", "начать"}, title, body) {
		t.Error("expected keywords spread across fields to match")
	}
	if Matches([]string{"go", "rust"}, title, body) {
		t.Error("expected AND semantics")
	}
	if !Matches(nil, title) {
		t.Error("no keywords should match everything")
	}
}
