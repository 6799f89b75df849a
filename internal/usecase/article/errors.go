// Package article implements the content use cases: listing, reading and
// editing articles, and listing categories. Every mutation runs the guard
// pipeline first and touches storage only when all checks pass.
package article

import (
	"fmt"

	"typoteka/internal/domain/entity"
)

// ErrArticleVanished is returned when an article passed the existence check
// but was deleted before the write landed.
var ErrArticleVanished = fmt.Errorf("article deleted concurrently: %w", entity.ErrNotFound)
