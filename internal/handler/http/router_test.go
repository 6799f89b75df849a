package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typoteka/internal/domain/entity"
	"typoteka/internal/handler/http/middleware"
	"typoteka/internal/handler/http/requestid"
	"typoteka/internal/infra/adapter/persistence/memory"
	flashstore "typoteka/internal/infra/flash"
	"typoteka/internal/service/auth"
	artUC "typoteka/internal/usecase/article"
	commentUC "typoteka/internal/usecase/comment"
	"typoteka/internal/usecase/guard"
	searchUC "typoteka/internal/usecase/search"
	userUC "typoteka/internal/usecase/user"
)

const testSecret = "router-test-secret-0123456789abcdef"

func newTestRouter(t *testing.T, cfg RouterConfig) http.Handler {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Categories().Create(context.Background(), &entity.Category{Name: "Железо"}))

	pipeline := &guard.Pipeline{
		Articles:   store.Articles(),
		Categories: store.Categories(),
		Comments:   store.Comments(),
		Users:      store.Users(),
		Rules:      guard.DefaultRules(),
	}
	tokens := auth.NewService(store.Users(), auth.Config{Secret: []byte(testSecret)})
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return NewRouter(Services{
		Articles: &artUC.Service{Articles: store.Articles(), Categories: store.Categories(), Guard: pipeline},
		Comments: &commentUC.Service{Comments: store.Comments(), Guard: pipeline},
		Search:   &searchUC.Service{Articles: store.Articles()},
		Users:    &userUC.Service{Users: store.Users(), Tokens: tokens, Guard: pipeline},
		Tokens:   tokens,
		Flash:    flashstore.NewMemoryStore(flashstore.DefaultTTL),
	}, cfg)
}

func call(h http.Handler, method, target string, body any, hdr http.Header) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.RemoteAddr = "203.0.113.10:4000"
	for k, v := range hdr {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_WriteFlow(t *testing.T) {
	h := newTestRouter(t, RouterConfig{})

	rr := call(h, http.MethodPost, "/user", entity.UserInput{
		FirstName: "Пётр", LastName: "Сидоров", Email: "petr@example.com",
		Password: "secret-pass", RepeatedPassword: "secret-pass",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = call(h, http.MethodPost, "/user/login", auth.Credentials{Email: "petr@example.com", Password: "secret-pass"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var token auth.AccessToken
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &token))
	bearer := http.Header{"Authorization": {"Bearer " + token.Token}}

	in := entity.ArticleInput{
		Title:      "Новая видеокарта: обзор и первые впечатления",
		Announce:   "Мы протестировали флагман в играх и рабочих задачах.",
		FullText:   "Подробности внутри.",
		Date:       "2024-05-01",
		Categories: []int64{1},
	}
	rr = call(h, http.MethodPost, "/articles", in, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "writes need a token")

	rr = call(h, http.MethodPost, "/articles", in, bearer)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct{ ID int64 }
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = call(h, http.MethodPost, fmt.Sprintf("/articles/%d/comments", created.ID),
		entity.CommentInput{Text: "Отличный обзор, ждём тестов в 4K!"}, bearer)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = call(h, http.MethodGet, "/search?query="+url.QueryEscape("видеокарта"), nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var found []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
	assert.Len(t, found, 1)

	rr = call(h, http.MethodGet, "/categories?count=true", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Железо","count":1}]`, rr.Body.String())
}

func TestRouter_FlashRoundTrip(t *testing.T) {
	h := newTestRouter(t, RouterConfig{})
	reg := call(h, http.MethodPost, "/user", entity.UserInput{
		FirstName: "Ира", LastName: "Орлова", Email: "ira@example.com",
		Password: "123456", RepeatedPassword: "123456",
	}, nil)
	require.Equal(t, http.StatusCreated, reg.Code)
	rr := call(h, http.MethodPost, "/user/login", auth.Credentials{Email: "ira@example.com", Password: "123456"}, nil)
	var token auth.AccessToken
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &token))

	hdr := http.Header{
		"Authorization": {token.Token},
		"X-Session-Id":  {"browser-1"},
	}
	rr = call(h, http.MethodPost, "/articles", entity.ArticleInput{Title: "коротко"}, hdr)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(h, http.MethodGet, "/flash", nil, http.Header{"X-Session-Id": {"browser-1"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "validationMessages")

	rr = call(h, http.MethodGet, "/flash", nil, http.Header{"X-Session-Id": {"browser-1"}})
	assert.Equal(t, http.StatusNoContent, rr.Code, "flash is read once")
}

func TestRouter_Ambient(t *testing.T) {
	h := newTestRouter(t, RouterConfig{
		CORS: middleware.CORSConfig{
			AllowedOrigins: []string{"https://typoteka.example"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         600,
		},
		Version: "test",
	})

	rr := call(h, http.MethodGet, "/live", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(requestid.RequestIDHeader))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	rr = call(h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"version":"test"`)

	rr = call(h, http.MethodOptions, "/articles", nil, http.Header{
		"Origin":                        {"https://typoteka.example"},
		"Access-Control-Request-Method": {http.MethodPost},
	})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://typoteka.example", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = call(h, http.MethodGet, "/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_LoginRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter("login", middleware.RateLimitConfig{PerMinute: 1, Burst: 1}, middleware.TrustedProxies{})
	h := newTestRouter(t, RouterConfig{LoginLimiter: limiter})

	creds := auth.Credentials{Email: "ghost@example.com", Password: "nope"}
	assert.Equal(t, http.StatusUnauthorized, call(h, http.MethodPost, "/user/login", creds, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, call(h, http.MethodPost, "/user/login", creds, nil).Code)
	assert.Equal(t, 1, limiter.Size())
}

func TestRouter_SwaggerDoc(t *testing.T) {
	h := newTestRouter(t, RouterConfig{})

	rr := call(h, http.MethodGet, "/swagger/doc.json", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var doc struct {
		Info  struct{ Title string }     `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Equal(t, "Typoteka API", doc.Info.Title)
	for _, path := range []string{"/articles", "/articles/{id}", "/articles/{id}/comments/{commentId}", "/search", "/user/login"} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "'unsafe-inline'")
}
