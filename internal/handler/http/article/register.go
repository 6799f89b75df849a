package article

import (
	"net/http"

	"typoteka/internal/common/pagination"
	flashstore "typoteka/internal/infra/flash"
	artUC "typoteka/internal/usecase/article"
)

// Register mounts the article routes. Mutations are wrapped in require.
func Register(mux *http.ServeMux, svc *artUC.Service, paging pagination.Config, store flashstore.Store, require func(http.Handler) http.Handler) {
	mux.Handle("GET /articles", ListHandler{Svc: svc, Pagination: paging})
	mux.Handle("GET /articles/{id}", GetHandler{Svc: svc})

	mux.Handle("POST /articles", require(CreateHandler{Svc: svc, Flash: store}))
	mux.Handle("PUT /articles/{id}", require(UpdateHandler{Svc: svc, Flash: store}))
	mux.Handle("DELETE /articles/{id}", require(DeleteHandler{Svc: svc}))
}
