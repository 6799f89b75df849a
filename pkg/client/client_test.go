package client_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typoteka/internal/domain/entity"
	hhttp "typoteka/internal/handler/http"
	"typoteka/internal/infra/adapter/persistence/memory"
	flashstore "typoteka/internal/infra/flash"
	"typoteka/internal/service/auth"
	artUC "typoteka/internal/usecase/article"
	commentUC "typoteka/internal/usecase/comment"
	"typoteka/internal/usecase/guard"
	searchUC "typoteka/internal/usecase/search"
	userUC "typoteka/internal/usecase/user"
	"typoteka/pkg/client"
)

func TestNew_Config(t *testing.T) {
	tests := []struct {
		name    string
		cfg     client.Config
		wantErr bool
	}{
		{name: "valid", cfg: client.Config{BaseURL: "http://localhost:3000/"}},
		{name: "missing url", cfg: client.Config{}, wantErr: true},
		{name: "bad scheme", cfg: client.Config{BaseURL: "ftp://example.com"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := client.New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestClient_DefaultTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, err := client.New(client.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Articles(context.Background(), client.ListOptions{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer preset", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"validationMessages":["title is too short"],"errors":[{"field":"title","message":"title is too short"}]}`)
	}))
	defer srv.Close()

	c, err := client.New(client.Config{BaseURL: srv.URL, Token: "preset"})
	require.NoError(t, err)

	_, err = c.CreateArticle(context.Background(), client.ArticleInput{Title: "x"})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, []string{"title is too short"}, apiErr.ValidationMessages)
	assert.Contains(t, apiErr.Error(), "title is too short")
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))
}

// newServer runs the real router over the in-memory store.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	for _, name := range []string{"Программирование", "Музыка"} {
		require.NoError(t, store.Categories().Create(context.Background(), &entity.Category{Name: name}))
	}
	pipeline := &guard.Pipeline{
		Articles:   store.Articles(),
		Categories: store.Categories(),
		Comments:   store.Comments(),
		Users:      store.Users(),
		Rules:      guard.DefaultRules(),
	}
	tokens := auth.NewService(store.Users(), auth.Config{Secret: []byte("client-e2e-secret-0123456789abcdef")})
	router := hhttp.NewRouter(hhttp.Services{
		Articles: &artUC.Service{Articles: store.Articles(), Categories: store.Categories(), Guard: pipeline},
		Comments: &commentUC.Service{Comments: store.Comments(), Guard: pipeline},
		Search:   &searchUC.Service{Articles: store.Articles()},
		Users:    &userUC.Service{Users: store.Users(), Tokens: tokens, Guard: pipeline},
		Tokens:   tokens,
		Flash:    flashstore.NewMemoryStore(flashstore.DefaultTTL),
	}, hhttp.RouterConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_EndToEnd(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c, err := client.New(client.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	u, err := c.Register(ctx, client.UserInput{
		FirstName: "Мария", LastName: "Петрова", Email: "maria@example.com",
		Password: "s3cret!", RepeatedPassword: "s3cret!",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)

	in := client.ArticleInput{
		Title:      "Горутины и каналы: практическое введение",
		Announce:   "Разбираем конкурентность в Go на небольших примерах.",
		FullText:   "Горутина стоит пару килобайт стека.",
		Date:       "2024-06-10",
		Categories: []int64{1},
	}
	_, err = c.CreateArticle(ctx, in)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))

	_, err = c.Login(ctx, "maria@example.com", "s3cret!")
	require.NoError(t, err)

	created, err := c.CreateArticle(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in.Title, created.Title)

	in.Categories = []int64{1, 2}
	updated, err := c.UpdateArticle(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Len(t, updated.Categories, 2)

	comment, err := c.CreateComment(ctx, created.ID, "Спасибо, наконец-то понятно объяснили!")
	require.NoError(t, err)

	got, err := c.Article(ctx, created.ID, true)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, comment.ID, got.Comments[0].ID)

	list, err := c.Articles(ctx, client.ListOptions{Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Count)

	byCategory, err := c.CategoryArticles(ctx, 2, client.ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byCategory.Count)

	found, err := c.Search(ctx, "горутины")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = c.Search(ctx, "")
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))

	cats, err := c.Categories(ctx, true)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	require.NotNil(t, cats[0].Count)

	require.NoError(t, c.DeleteComment(ctx, created.ID, comment.ID))
	comments, err := c.Comments(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	err = c.DeleteComment(ctx, created.ID, comment.ID)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))

	deleted, err := c.DeleteArticle(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = c.Article(ctx, created.ID, false)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))
}
