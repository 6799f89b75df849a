// Package search provides the HTTP handler for article search.
package search

import (
	"net/http"

	"typoteka/internal/handler/http/article"
	"typoteka/internal/handler/http/respond"
	searchUC "typoteka/internal/usecase/search"
)

// Handler serves GET /search?query.
type Handler struct{ Svc *searchUC.Service }

// @Summary      Search articles
// @Description  Articles whose title or text contains every word of the query.
// @Tags         search
// @Produce      json
// @Param        query query string true "Search words"
// @Success      200 {array}  article.DTO
// @Failure      400 {object} respond.ErrorBody "Empty query"
// @Router       /search [get]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	articles, err := h.Svc.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, article.NewDTOs(articles, false))
}

// Register mounts GET /search.
func Register(mux *http.ServeMux, svc *searchUC.Service) {
	mux.Handle("GET /search", Handler{Svc: svc})
}
