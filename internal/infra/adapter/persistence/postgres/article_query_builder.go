package postgres

import (
	"fmt"
	"strings"

	"typoteka/internal/pkg/search"
)

// ArticleQueryBuilder builds WHERE clauses for article search.
// Each keyword must match the title or the full text (ILIKE, AND across keywords).
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause returns "WHERE ..." and its args, or "" when there are no
// keywords. Placeholders start at $1; tableAlias may be empty.
func (qb *ArticleQueryBuilder) BuildWhereClause(keywords []string, tableAlias string) (string, []interface{}) {
	if len(keywords) == 0 {
		return "", nil
	}

	prefix := ""
	if tableAlias != "" {
		prefix = tableAlias + "."
	}

	conditions := make([]string, 0, len(keywords))
	args := make([]interface{}, 0, len(keywords))
	for i, keyword := range keywords {
		conditions = append(conditions, fmt.Sprintf("(%stitle ILIKE $%d OR %sfull_text ILIKE $%d)",
			prefix, i+1, prefix, i+1))
		args = append(args, search.EscapeILIKE(keyword))
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
