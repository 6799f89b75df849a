package article_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typoteka/internal/common/pagination"
	"typoteka/internal/domain/entity"
	"typoteka/internal/handler/http/article"
	"typoteka/internal/handler/http/flash"
	"typoteka/internal/handler/http/respond"
	flashstore "typoteka/internal/infra/flash"
	"typoteka/internal/infra/adapter/persistence/memory"
	"typoteka/internal/service/auth"
	artUC "typoteka/internal/usecase/article"
	"typoteka/internal/usecase/guard"
)

// fakeRequire admits any request carrying an Authorization header as user 1.
func fakeRequire(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			respond.Error(w, r, auth.ErrMissingToken)
			return
		}
		ctx := auth.ContextWithClaims(r.Context(), &auth.Claims{UserID: 1, Role: entity.RoleAdmin})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type fixture struct {
	mux   *http.ServeMux
	store *memory.Store
	flash *flashstore.MemoryStore
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	for _, name := range []string{"Деревья", "За жизнь", "Кино"} {
		require.NoError(t, store.Categories().Create(context.Background(), &entity.Category{Name: name}))
	}
	svc := &artUC.Service{
		Articles:   store.Articles(),
		Categories: store.Categories(),
		Guard: &guard.Pipeline{
			Articles:   store.Articles(),
			Categories: store.Categories(),
			Comments:   store.Comments(),
			Users:      store.Users(),
			Rules:      guard.DefaultRules(),
		},
	}
	fs := flashstore.NewMemoryStore(flashstore.DefaultTTL)
	mux := http.NewServeMux()
	article.Register(mux, svc, pagination.DefaultConfig(), fs, fakeRequire)
	return fixture{mux: mux, store: store, flash: fs}
}

func (f fixture) do(t *testing.T, method, target string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	return rr
}

var authHeader = map[string]string{"Authorization": "Bearer test"}

func validInput(day int, categories ...int64) entity.ArticleInput {
	return entity.ArticleInput{
		Title:      fmt.Sprintf("Как перестать беспокоиться и начать жить, день %02d", day),
		Announce:   "Первая большая ёлка была установлена только в 1938 году.",
		FullText:   "Простые ежедневные упражнения помогут достичь успеха.",
		Date:       fmt.Sprintf("2024-03-%02d", day),
		Categories: categories,
	}
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestCreateThenGet(t *testing.T) {
	f := setup(t)

	rr := f.do(t, http.MethodPost, "/articles", validInput(1, 2, 1), authHeader)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[article.DTO](t, rr)
	require.NotZero(t, created.ID)
	assert.NotNil(t, created.Comments)
	require.Len(t, created.Categories, 2)
	assert.Equal(t, "За жизнь", created.Categories[0].Name)

	rr = f.do(t, http.MethodGet, fmt.Sprintf("/articles/%d", created.ID), nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[map[string]any](t, rr)
	assert.Equal(t, created.Title, got["title"])
	assert.NotContains(t, got, "comments", "comments only on request")

	rr = f.do(t, http.MethodGet, fmt.Sprintf("/articles/%d?comments=true", created.ID), nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decode[map[string]any](t, rr), "comments")
}

func TestCreate_Unauthorized(t *testing.T) {
	f := setup(t)
	rr := f.do(t, http.MethodPost, "/articles", validInput(1, 1), nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	n, err := f.store.Articles().Count(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreate_ValidationKeepsFlash(t *testing.T) {
	f := setup(t)
	in := validInput(1)
	in.Title = "short"

	rr := f.do(t, http.MethodPost, "/articles", in, map[string]string{
		"Authorization":     "Bearer test",
		flash.SessionHeader: "sess-1",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[respond.ValidationBody](t, rr)
	assert.NotEmpty(t, body.ValidationMessages)

	payload, ok, err := f.flash.Take(context.Background(), "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, body.ValidationMessages, payload.ValidationMessages)

	var draft entity.ArticleInput
	require.NoError(t, json.Unmarshal(payload.Draft, &draft))
	assert.Equal(t, "short", draft.Title)
}

func TestCreate_MalformedBody(t *testing.T) {
	f := setup(t)
	req := httptest.NewRequest(http.MethodPost, "/articles", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer test")
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestList(t *testing.T) {
	f := setup(t)
	for day := 1; day <= 10; day++ {
		rr := f.do(t, http.MethodPost, "/articles", validInput(day, 1), authHeader)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := f.do(t, http.MethodGet, "/articles?limit=4&offset=1", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[article.ListDTO](t, rr)
	assert.EqualValues(t, 10, list.Count)
	require.Len(t, list.Articles, 4)
	assert.Equal(t, 9, list.Articles[0].Date.Day())

	rr = f.do(t, http.MethodGet, "/articles?limit=oops", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[article.ListDTO](t, rr).Articles, 8)
}

func TestUpdateAndDelete(t *testing.T) {
	f := setup(t)
	rr := f.do(t, http.MethodPost, "/articles", validInput(1, 1), authHeader)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode[article.DTO](t, rr).ID
	path := fmt.Sprintf("/articles/%d", id)

	rr = f.do(t, http.MethodPut, path, validInput(2, 3), authHeader)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[article.DTO](t, rr)
	require.Len(t, updated.Categories, 1)
	assert.EqualValues(t, 3, updated.Categories[0].ID)

	rr = f.do(t, http.MethodDelete, path, nil, authHeader)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, id, decode[article.DTO](t, rr).ID)

	rr = f.do(t, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestErrorStatuses(t *testing.T) {
	f := setup(t)
	tests := []struct {
		name   string
		method string
		target string
		body   any
		hdr    map[string]string
		want   int
	}{
		{name: "get non-numeric id", method: http.MethodGet, target: "/articles/abc", want: http.StatusBadRequest},
		{name: "get missing", method: http.MethodGet, target: "/articles/999", want: http.StatusNotFound},
		{name: "update missing before validation", method: http.MethodPut, target: "/articles/999", body: entity.ArticleInput{}, hdr: authHeader, want: http.StatusNotFound},
		{name: "update unauthenticated", method: http.MethodPut, target: "/articles/1", body: validInput(1, 1), want: http.StatusUnauthorized},
		{name: "delete missing", method: http.MethodDelete, target: "/articles/5", hdr: authHeader, want: http.StatusNotFound},
		{name: "delete bad id", method: http.MethodDelete, target: "/articles/0", hdr: authHeader, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, tt.method, tt.target, tt.body, tt.hdr)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}
