// Package category provides HTTP handlers for category listings.
package category

import (
	"net/http"

	"typoteka/internal/common/pagination"
	"typoteka/internal/handler/http/article"
	"typoteka/internal/handler/http/respond"
	artUC "typoteka/internal/usecase/article"
)

// ListHandler serves GET /categories?count.
type ListHandler struct{ Svc *artUC.Service }

// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        count query bool false "Include article counts"
// @Success      200 {array} article.CategoryDTO
// @Router       /categories [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Svc.ListCategories(r.Context(), artUC.CategoryQuery{Count: article.Flag(r, "count")})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	out := make([]article.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, article.NewCategoryDTO(*c))
	}
	respond.JSON(w, http.StatusOK, out)
}

// ArticlesHandler serves GET /categories/{id}/articles?limit&offset.
type ArticlesHandler struct {
	Svc        *artUC.Service
	Pagination pagination.Config
}

// @Summary      List the articles of a category
// @Tags         categories
// @Produce      json
// @Param        id     path  int true  "Category ID"
// @Param        limit  query int false "Page size (default 8)"
// @Param        offset query int false "Articles to skip"
// @Success      200 {object} article.ListDTO
// @Failure      404 {object} respond.ErrorBody
// @Router       /categories/{id}/articles [get]
func (h ArticlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParseQuery(r.URL.Query(), h.Pagination)
	list, err := h.Svc.ListArticlesByCategory(r.Context(), r.PathValue("id"), artUC.ListQuery{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, article.ListDTO{
		Count:    list.Count,
		Articles: article.NewDTOs(list.Articles, false),
	})
}

// Register mounts the category routes.
func Register(mux *http.ServeMux, svc *artUC.Service, paging pagination.Config) {
	mux.Handle("GET /categories", ListHandler{Svc: svc})
	mux.Handle("GET /categories/{id}/articles", ArticlesHandler{Svc: svc, Pagination: paging})
}
