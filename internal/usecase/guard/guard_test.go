package guard_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typoteka/internal/domain/entity"
	"typoteka/internal/infra/adapter/persistence/memory"
	"typoteka/internal/repository"
	"typoteka/internal/service/auth"
	"typoteka/internal/usecase/guard"
)

func newPipeline(t *testing.T) (*guard.Pipeline, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for _, name := range []string{"Деревья", "Кино"} {
		require.NoError(t, store.Categories().Create(ctx, &entity.Category{Name: name}))
	}
	return &guard.Pipeline{
		Articles:   store.Articles(),
		Categories: store.Categories(),
		Comments:   store.Comments(),
		Users:      store.Users(),
		Rules:      guard.DefaultRules(),
	}, store
}

func validArticleInput() entity.ArticleInput {
	return entity.ArticleInput{
		Title:      "Как перестать беспокоиться и начать жить",
		Announce:   "Первая большая ёлка была установлена только в 1938 году.",
		FullText:   "Из под его пера вышло 8 платиновых альбомов.",
		Date:       "2024-03-01",
		Categories: []int64{2, 1, 2},
		Image:      "sea.JPG",
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "1", want: 1},
		{raw: " 42 ", want: 42},
		{raw: "3000000000", want: 3000000000},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := guard.ParseID("id", tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrBadRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want guard.Outcome
	}{
		{name: "nil", err: nil, want: guard.Pass},
		{name: "bad request", err: guard.ID("id", "x", new(int64))(context.Background()).Err, want: guard.BadRequest},
		{name: "not found", err: entity.ErrNotFound, want: guard.NotFound},
		{name: "validation", err: entity.ValidationErrors{{Field: "text", Message: "short"}}, want: guard.Invalid},
		{name: "unauthorized", err: auth.ErrInvalidToken, want: guard.Unauthorized},
		{name: "other", err: errors.New("boom"), want: guard.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Classify(tt.err))
		})
	}
}

func TestRun_ShortCircuits(t *testing.T) {
	var calls []string
	step := func(name string, r guard.Result) guard.Step {
		return func(context.Context) guard.Result {
			calls = append(calls, name)
			return r
		}
	}
	notFound := guard.Result{Outcome: guard.NotFound, Err: entity.ErrNotFound}

	err := guard.Run(context.Background(),
		step("a", guard.Result{}),
		step("b", notFound),
		step("c", guard.Result{}),
	)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Equal(t, []string{"a", "b"}, calls)

	calls = nil
	require.NoError(t, guard.Run(context.Background(), step("a", guard.Result{}), step("b", guard.Result{})))
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestRun_StepsSeeEarlierValues(t *testing.T) {
	p, _ := newPipeline(t)

	var id int64
	err := guard.Run(context.Background(),
		guard.ID("articleId", "99", &id),
		p.ArticleExists(&id, repository.LoadOptions{}, nil),
	)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Equal(t, int64(99), id)
}

func TestAuthenticated(t *testing.T) {
	var claims *auth.Claims
	err := guard.Run(context.Background(), guard.Authenticated(&claims))
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	assert.Nil(t, claims)

	ctx := auth.ContextWithClaims(context.Background(), &auth.Claims{UserID: 5})
	require.NoError(t, guard.Run(ctx, guard.Authenticated(&claims)))
	assert.Equal(t, int64(5), claims.UserID)
}

func TestBuildArticle_Valid(t *testing.T) {
	p, _ := newPipeline(t)

	article, err := p.BuildArticle(context.Background(), validArticleInput())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), article.PublishedAt)
	assert.Equal(t, []int64{2, 1}, article.CategoryIDs(), "request order, duplicates collapsed")
	assert.Equal(t, "Кино", article.Categories[0].Name)
}

func TestBuildArticle_CollectsAllViolations(t *testing.T) {
	p, _ := newPipeline(t)

	in := entity.ArticleInput{
		Title:      "short",
		FullText:   strings.Repeat("x", 1001),
		Date:       "01.03.2024",
		Categories: []int64{},
		Image:      "doc.pdf",
	}
	_, err := p.BuildArticle(context.Background(), in)

	var violations entity.ValidationErrors
	require.ErrorAs(t, err, &violations)
	assert.ErrorIs(t, err, entity.ErrValidationFailed)

	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{"title", "announce", "fullText", "date", "categories", "image"}, fields)
}

func TestBuildArticle_UnknownCategory(t *testing.T) {
	p, _ := newPipeline(t)

	in := validArticleInput()
	in.Categories = []int64{1, 77}
	_, err := p.BuildArticle(context.Background(), in)

	var violations entity.ValidationErrors
	require.ErrorAs(t, err, &violations)
	require.Len(t, violations, 1)
	assert.Equal(t, "categories", violations[0].Field)
	assert.Contains(t, violations[0].Message, "77")
}

func TestBuildArticle_Bounds(t *testing.T) {
	p, _ := newPipeline(t)
	ctx := context.Background()

	in := validArticleInput()
	in.Title = strings.Repeat("я", 30)
	in.Announce = strings.Repeat("a", 250)
	in.FullText = "x"
	in.Date = "2024-03-01T10:00:00+03:00"
	in.Image = ""
	require.NoError(t, p.ValidateArticlePayload(ctx, in), "bounds are inclusive")

	in.Title = strings.Repeat("я", 29)
	assert.ErrorIs(t, p.ValidateArticlePayload(ctx, in), entity.ErrValidationFailed)
}

func TestBuildArticle_BlankFields(t *testing.T) {
	p, _ := newPipeline(t)

	in := validArticleInput()
	in.Title = strings.Repeat(" ", 30)
	in.FullText = " "
	in.Announce = "  " + strings.Repeat("a", 29) + "  "

	err := p.ValidateArticlePayload(context.Background(), in)
	var violations entity.ValidationErrors
	require.ErrorAs(t, err, &violations)
	assert.True(t, violations.Has("title"))
	assert.True(t, violations.Has("fullText"))
	assert.True(t, violations.Has("announce"), "padding does not count toward the minimum")
}

func TestValidateCommentPayload(t *testing.T) {
	p, _ := newPipeline(t)

	assert.NoError(t, p.ValidateCommentPayload(entity.CommentInput{Text: strings.Repeat("ж", 20)}))

	for _, text := range []string{"", "too short", strings.Repeat(" ", 20), "\t" + strings.Repeat(" ", 25) + "\n"} {
		err := p.ValidateCommentPayload(entity.CommentInput{Text: text})
		var violations entity.ValidationErrors
		require.ErrorAs(t, err, &violations, "text %q", text)
		assert.Equal(t, "text", violations[0].Field)
	}
}

func TestValidateUserPayload(t *testing.T) {
	p, store := newPipeline(t)
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &entity.User{Email: "taken@example.com"}))

	ok := entity.UserInput{
		FirstName:        "Анна",
		LastName:         "Smith-Jones",
		Email:            "anna@example.com",
		Password:         "secret1",
		RepeatedPassword: "secret1",
		Avatar:           "me.png",
	}
	require.NoError(t, p.ValidateUserPayload(ctx, ok))

	bad := ok
	bad.FirstName = "R2D2"
	bad.Email = "TAKEN@example.com"
	bad.Password = "123"
	bad.RepeatedPassword = "321"
	err := p.ValidateUserPayload(ctx, bad)

	var violations entity.ValidationErrors
	require.ErrorAs(t, err, &violations)
	assert.True(t, violations.Has("firstName"))
	assert.True(t, violations.Has("password"))
	assert.True(t, violations.Has("repeatedPassword"))
	assert.True(t, violations.Has("email"), "taken email is reported")
	assert.False(t, violations.Has("lastName"))
}

func TestValidateUserPayload_PasswordTooLong(t *testing.T) {
	p, _ := newPipeline(t)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"at limit", strings.Repeat("a", guard.MaxPasswordBytes), false},
		{"ascii over limit", strings.Repeat("a", 80), true},
		// 40 runes, 80 bytes
		{"multibyte over limit", strings.Repeat("ж", 40), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := entity.UserInput{
				FirstName:        "Anna",
				LastName:         "Smith",
				Email:            "anna@example.com",
				Password:         tt.password,
				RepeatedPassword: tt.password,
			}
			err := p.ValidateUserPayload(context.Background(), in)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var violations entity.ValidationErrors
			require.ErrorAs(t, err, &violations)
			assert.True(t, violations.Has("password"))
			assert.ErrorIs(t, err, entity.ErrValidationFailed)
		})
	}
}

func TestEnsureCommentExists(t *testing.T) {
	p, store := newPipeline(t)
	ctx := context.Background()

	first := &entity.Article{Title: "one", Categories: []entity.Category{{ID: 1}}}
	second := &entity.Article{Title: "two", Categories: []entity.Category{{ID: 1}}}
	require.NoError(t, store.Articles().Create(ctx, first))
	require.NoError(t, store.Articles().Create(ctx, second))
	c := &entity.Comment{ArticleID: first.ID, Text: "hello"}
	require.NoError(t, store.Comments().Create(ctx, c))

	got, err := p.EnsureCommentExists(ctx, first.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = p.EnsureCommentExists(ctx, second.ID, c.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound, "comment of another article")

	_, err = p.EnsureCommentExists(ctx, first.ID, 999)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = p.EnsureCommentExists(ctx, 999, c.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestRules_Validate(t *testing.T) {
	require.NoError(t, guard.DefaultRules().Validate())

	r := guard.DefaultRules()
	r.TitleMax = 10
	assert.Error(t, r.Validate())

	r = guard.DefaultRules()
	r.ImageExtensions = nil
	assert.Error(t, r.Validate())

	r = guard.DefaultRules()
	r.PasswordMaxByte = 100
	assert.Error(t, r.Validate(), "bcrypt cannot hash beyond 72 bytes")
}
