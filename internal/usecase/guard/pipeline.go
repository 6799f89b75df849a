package guard

import (
	"context"
	"fmt"
	"strings"

	"typoteka/internal/domain/entity"
	"typoteka/internal/repository"
	"typoteka/internal/service/auth"
)

// Pipeline carries the repositories the checks read from. It never writes.
type Pipeline struct {
	Articles   repository.ArticleRepository
	Categories repository.CategoryRepository
	Comments   repository.CommentRepository
	Users      repository.UserRepository
	Rules      Rules
}

/* ───────── authentication ───────── */

// Authenticated passes when the context carries verified claims and writes
// them to dst (dst may be nil).
func Authenticated(dst **auth.Claims) Step {
	return func(ctx context.Context) Result {
		claims, ok := auth.ClaimsFromContext(ctx)
		if !ok {
			return resultOf(auth.ErrMissingToken)
		}
		if dst != nil {
			*dst = claims
		}
		return Result{}
	}
}

/* ───────── existence ───────── */

// EnsureArticleExists loads the article or fails with ErrNotFound.
func (p *Pipeline) EnsureArticleExists(ctx context.Context, id int64, opts repository.LoadOptions) (*entity.Article, error) {
	article, err := p.Articles.Get(ctx, id, opts)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, fmt.Errorf("article %d: %w", id, entity.ErrNotFound)
	}
	return article, nil
}

// EnsureCommentExists loads the comment and checks it belongs to articleID.
// A comment of another article is reported exactly like a missing one.
func (p *Pipeline) EnsureCommentExists(ctx context.Context, articleID, commentID int64) (*entity.Comment, error) {
	if _, err := p.EnsureArticleExists(ctx, articleID, repository.LoadOptions{}); err != nil {
		return nil, err
	}
	comment, err := p.Comments.Get(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if comment == nil || comment.ArticleID != articleID {
		return nil, fmt.Errorf("comment %d: %w", commentID, entity.ErrNotFound)
	}
	return comment, nil
}

// ArticleExists is the Step form of EnsureArticleExists. id is read when the
// step runs, so it may be filled by an earlier ID step.
func (p *Pipeline) ArticleExists(id *int64, opts repository.LoadOptions, dst **entity.Article) Step {
	return func(ctx context.Context) Result {
		article, err := p.EnsureArticleExists(ctx, *id, opts)
		if err != nil {
			return resultOf(err)
		}
		if dst != nil {
			*dst = article
		}
		return Result{}
	}
}

// CommentExists is the Step form of EnsureCommentExists.
func (p *Pipeline) CommentExists(articleID, commentID *int64, dst **entity.Comment) Step {
	return func(ctx context.Context) Result {
		comment, err := p.EnsureCommentExists(ctx, *articleID, *commentID)
		if err != nil {
			return resultOf(err)
		}
		if dst != nil {
			*dst = comment
		}
		return Result{}
	}
}

// CategoryExists fails with ErrNotFound when the category is absent.
func (p *Pipeline) CategoryExists(id *int64, dst **entity.Category) Step {
	return func(ctx context.Context) Result {
		category, err := p.Categories.Get(ctx, *id)
		if err != nil {
			return resultOf(fmt.Errorf("get category: %w", err))
		}
		if category == nil {
			return resultOf(fmt.Errorf("category %d: %w", *id, entity.ErrNotFound))
		}
		if dst != nil {
			*dst = category
		}
		return Result{}
	}
}

/* ───────── payloads ───────── */

// BuildArticle validates in and returns the article it describes, with the
// publication date parsed and categories resolved. All violations are
// reported together as entity.ValidationErrors.
func (p *Pipeline) BuildArticle(ctx context.Context, in entity.ArticleInput) (*entity.Article, error) {
	violations, err := flatten(p.Rules.checkArticle(in), articleFields)
	if err != nil {
		return nil, fmt.Errorf("validate article: %w", err)
	}

	var categories []entity.Category
	if !violations.Has("categories") {
		var missing []int64
		categories, missing, err = p.resolveCategories(ctx, in.Categories)
		if err != nil {
			return nil, err
		}
		for _, id := range missing {
			violations = append(violations, entity.ValidationError{
				Field:   "categories",
				Message: fmt.Sprintf("category %d does not exist", id),
			})
		}
	}

	if len(violations) > 0 {
		return nil, violations
	}

	publishedAt, _ := entity.ParseDate(strings.TrimSpace(in.Date))
	return &entity.Article{
		Title:       in.Title,
		Announce:    in.Announce,
		FullText:    in.FullText,
		PublishedAt: publishedAt,
		Image:       strings.TrimSpace(in.Image),
		Categories:  categories,
	}, nil
}

// resolveCategories returns the categories for ids in request order with
// duplicates collapsed, plus the ids that do not exist.
func (p *Pipeline) resolveCategories(ctx context.Context, ids []int64) ([]entity.Category, []int64, error) {
	found, err := p.Categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("find categories: %w", err)
	}
	byID := make(map[int64]*entity.Category, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	var (
		categories []entity.Category
		missing    []int64
	)
	for _, link := range entity.LinkCategories(0, ids) {
		if c, ok := byID[link.CategoryID]; ok {
			categories = append(categories, entity.Category{ID: c.ID, Name: c.Name})
		} else {
			missing = append(missing, link.CategoryID)
		}
	}
	return categories, missing, nil
}

// ValidateArticlePayload reports every violation in in without building anything.
func (p *Pipeline) ValidateArticlePayload(ctx context.Context, in entity.ArticleInput) error {
	_, err := p.BuildArticle(ctx, in)
	return err
}

// ValidateCommentPayload checks a comment body.
func (p *Pipeline) ValidateCommentPayload(in entity.CommentInput) error {
	violations, err := flatten(p.Rules.checkComment(in), commentFields)
	if err != nil {
		return fmt.Errorf("validate comment: %w", err)
	}
	if len(violations) > 0 {
		return violations
	}
	return nil
}

// ValidateUserPayload checks a registration payload, including that the
// email is not taken.
func (p *Pipeline) ValidateUserPayload(ctx context.Context, in entity.UserInput) error {
	violations, err := flatten(p.Rules.checkUser(in), userFields)
	if err != nil {
		return fmt.Errorf("validate user: %w", err)
	}

	if !violations.Has("email") {
		existing, err := p.Users.GetByEmail(ctx, strings.TrimSpace(in.Email))
		if err != nil {
			return fmt.Errorf("get user by email: %w", err)
		}
		if existing != nil {
			violations = append(violations, entity.ValidationError{
				Field:   "email",
				Message: "email is already registered",
			})
		}
	}

	if len(violations) > 0 {
		return violations
	}
	return nil
}

// ValidArticle is the Step form of BuildArticle.
func (p *Pipeline) ValidArticle(in entity.ArticleInput, dst **entity.Article) Step {
	return func(ctx context.Context) Result {
		article, err := p.BuildArticle(ctx, in)
		if err != nil {
			return resultOf(err)
		}
		if dst != nil {
			*dst = article
		}
		return Result{}
	}
}

// ValidComment is the Step form of ValidateCommentPayload.
func (p *Pipeline) ValidComment(in entity.CommentInput) Step {
	return func(context.Context) Result {
		return resultOf(p.ValidateCommentPayload(in))
	}
}

// ValidUser is the Step form of ValidateUserPayload.
func (p *Pipeline) ValidUser(in entity.UserInput) Step {
	return func(ctx context.Context) Result {
		return resultOf(p.ValidateUserPayload(ctx, in))
	}
}
