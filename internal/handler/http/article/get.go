package article

import (
	"net/http"

	"typoteka/internal/handler/http/respond"
	artUC "typoteka/internal/usecase/article"
)

// GetHandler serves GET /articles/{id}?comments.
type GetHandler struct{ Svc *artUC.Service }

// @Summary      Get an article
// @Tags         articles
// @Produce      json
// @Param        id       path  int  true  "Article ID"
// @Param        comments query bool false "Include comments"
// @Success      200 {object} DTO
// @Failure      400 {object} respond.ErrorBody "Malformed id"
// @Failure      404 {object} respond.ErrorBody
// @Router       /articles/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withComments := Flag(r, "comments")
	article, err := h.Svc.GetArticle(r.Context(), r.PathValue("id"), artUC.GetQuery{Comments: withComments})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, NewDTO(article, withComments))
}
