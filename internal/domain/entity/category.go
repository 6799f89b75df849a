package entity

// CategoryNameMaxLength mirrors the width of the categories.name column.
const CategoryNameMaxLength = 30

// Category groups articles. Names are not required to be unique.
type Category struct {
	ID   int64
	Name string
	// ArticleCount is only populated by count-aware listings.
	ArticleCount *int64
}

// ArticleCategory is the association record linking an article to a category.
type ArticleCategory struct {
	ArticleID  int64
	CategoryID int64
}

// LinkCategories builds the association records for an article.
// Duplicate category ids are collapsed, first occurrence wins.
func LinkCategories(articleID int64, categoryIDs []int64) []ArticleCategory {
	seen := make(map[int64]struct{}, len(categoryIDs))
	links := make([]ArticleCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, ArticleCategory{ArticleID: articleID, CategoryID: id})
	}
	return links
}
