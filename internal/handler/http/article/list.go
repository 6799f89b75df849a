package article

import (
	"net/http"

	"typoteka/internal/common/pagination"
	"typoteka/internal/handler/http/respond"
	artUC "typoteka/internal/usecase/article"
)

// ListHandler serves GET /articles?comments&limit&offset.
type ListHandler struct {
	Svc        *artUC.Service
	Pagination pagination.Config
}

// @Summary      List articles
// @Description  One page of articles, newest first, with the total count.
// @Tags         articles
// @Produce      json
// @Param        comments query bool false "Include comments"
// @Param        limit    query int  false "Page size (default 8)"
// @Param        offset   query int  false "Articles to skip"
// @Success      200 {object} ListDTO
// @Failure      500 {object} respond.ErrorBody
// @Router       /articles [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParseQuery(r.URL.Query(), h.Pagination)
	withComments := Flag(r, "comments")

	list, err := h.Svc.ListArticles(r.Context(), artUC.ListQuery{
		Comments: withComments,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, ListDTO{
		Count:    list.Count,
		Articles: NewDTOs(list.Articles, withComments),
	})
}
