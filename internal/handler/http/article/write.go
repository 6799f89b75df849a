package article

import (
	"encoding/json"
	"net/http"

	"typoteka/internal/domain/entity"
	"typoteka/internal/handler/http/flash"
	"typoteka/internal/handler/http/respond"
	flashstore "typoteka/internal/infra/flash"
	artUC "typoteka/internal/usecase/article"
)

// decodeInput reads an article payload; it reports false after answering 400.
func decodeInput(w http.ResponseWriter, r *http.Request) (entity.ArticleInput, bool) {
	var in entity.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return in, false
	}
	return in, true
}

// CreateHandler serves POST /articles.
type CreateHandler struct {
	Svc   *artUC.Service
	Flash flashstore.Store
}

// @Summary      Create an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Session-ID header string             false "Session that receives the flash payload on validation failure"
// @Param        article      body   entity.ArticleInput true  "Article"
// @Success      201 {object} DTO
// @Failure      400 {object} respond.ValidationBody
// @Failure      401 {object} respond.ErrorBody
// @Router       /articles [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	article, err := h.Svc.CreateArticle(r.Context(), in)
	if err != nil {
		flash.Keep(h.Flash, r, in, err)
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, NewDTO(article, true))
}

// UpdateHandler serves PUT /articles/{id}.
type UpdateHandler struct {
	Svc   *artUC.Service
	Flash flashstore.Store
}

// @Summary      Update an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id           path   int                 true  "Article ID"
// @Param        X-Session-ID header string              false "Session that receives the flash payload on validation failure"
// @Param        article      body   entity.ArticleInput true  "Article"
// @Success      200 {object} DTO
// @Failure      400 {object} respond.ValidationBody
// @Failure      401 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /articles/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	article, err := h.Svc.UpdateArticle(r.Context(), r.PathValue("id"), in)
	if err != nil {
		flash.Keep(h.Flash, r, in, err)
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, NewDTO(article, true))
}

// DeleteHandler serves DELETE /articles/{id} and answers with the article
// as it was before deletion.
type DeleteHandler struct{ Svc *artUC.Service }

// @Summary      Delete an article
// @Description  Removes the article and its comments and returns it as it was.
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Article ID"
// @Success      200 {object} DTO
// @Failure      401 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /articles/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	article, err := h.Svc.DeleteArticle(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, NewDTO(article, true))
}
