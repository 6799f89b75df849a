// Package comment provides HTTP handlers for the comments of one article.
package comment

import (
	"encoding/json"
	"net/http"

	"typoteka/internal/domain/entity"
	"typoteka/internal/handler/http/article"
	"typoteka/internal/handler/http/flash"
	"typoteka/internal/handler/http/respond"
	flashstore "typoteka/internal/infra/flash"
	commentUC "typoteka/internal/usecase/comment"
)

// maxCommentBody bounds the comment payload.
const maxCommentBody = 64 << 10

// ListHandler serves GET /articles/{id}/comments.
type ListHandler struct{ Svc *commentUC.Service }

// @Summary      List comments of an article
// @Tags         comments
// @Produce      json
// @Param        id path int true "Article ID"
// @Success      200 {array}  article.CommentDTO
// @Failure      404 {object} respond.ErrorBody
// @Router       /articles/{id}/comments [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Svc.ListComments(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, article.NewCommentDTOs(comments))
}

// CreateHandler serves POST /articles/{id}/comments.
type CreateHandler struct {
	Svc   *commentUC.Service
	Flash flashstore.Store
}

// @Summary      Comment on an article
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id           path   int                 true  "Article ID"
// @Param        X-Session-ID header string              false "Session that receives the flash payload on validation failure"
// @Param        comment      body   entity.CommentInput true  "Comment"
// @Success      201 {object} article.CommentDTO
// @Failure      400 {object} respond.ValidationBody
// @Failure      401 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /articles/{id}/comments [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in entity.CommentInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommentBody)).Decode(&in); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.Svc.CreateComment(r.Context(), r.PathValue("id"), in)
	if err != nil {
		flash.Keep(h.Flash, r, in, err)
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, article.NewCommentDTO(*comment))
}

// DeleteHandler serves DELETE /articles/{id}/comments/{commentId} and
// answers with true.
type DeleteHandler struct{ Svc *commentUC.Service }

// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id        path int true "Article ID"
// @Param        commentId path int true "Comment ID"
// @Success      200 {boolean} boolean
// @Failure      401 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /articles/{id}/comments/{commentId} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Svc.DeleteComment(r.Context(), r.PathValue("id"), r.PathValue("commentId"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, deleted)
}

// Register mounts the comment routes. Mutations are wrapped in require.
func Register(mux *http.ServeMux, svc *commentUC.Service, store flashstore.Store, require func(http.Handler) http.Handler) {
	mux.Handle("GET /articles/{id}/comments", ListHandler{Svc: svc})
	mux.Handle("POST /articles/{id}/comments", require(CreateHandler{Svc: svc, Flash: store}))
	mux.Handle("DELETE /articles/{id}/comments/{commentId}", require(DeleteHandler{Svc: svc}))
}
