package pathutil_test

import (
	"fmt"

	"typoteka/internal/handler/http/pathutil"
)

func ExampleNormalizePath() {
	fmt.Println(pathutil.NormalizePath("/articles/123"))
	fmt.Println(pathutil.NormalizePath("/articles/456/comments/9"))
	fmt.Println(pathutil.NormalizePath("/categories/2/articles?limit=8"))

	// Output:
	// /articles/:id
	// /articles/:id/comments/:commentId
	// /categories/:id/articles
}
