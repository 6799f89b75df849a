package postgres_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"typoteka/internal/domain/entity"
	pg "typoteka/internal/infra/adapter/persistence/postgres"
)

func TestCategoryRepo_ListWithCount(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN article_categories")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "count"}).
			AddRow(1, "Деревья", 3).
			AddRow(2, "За жизнь", 0))

	got, err := pg.NewCategoryRepo(db).ListWithCount(context.Background())
	if err != nil {
		t.Fatalf("ListWithCount err=%v", err)
	}

	three, zero := int64(3), int64(0)
	want := []*entity.Category{
		{ID: 1, Name: "Деревья", ArticleCount: &three},
		{ID: 2, Name: "За жизнь", ArticleCount: &zero},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCategoryRepo_FindByIDs(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id IN ($1, $2)")).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Деревья"))

	repo := pg.NewCategoryRepo(db)
	got, err := repo.FindByIDs(context.Background(), []int64{1, 42})
	if err != nil {
		t.Fatalf("FindByIDs err=%v", err)
	}
	if diff := cmp.Diff([]*entity.Category{{ID: 1, Name: "Деревья"}}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	// no ids, no query
	if got, err := repo.FindByIDs(context.Background(), nil); err != nil || got != nil {
		t.Fatalf("FindByIDs(nil) = %v, %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCategoryRepo_GetAndCreate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs("Программирование").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	repo := pg.NewCategoryRepo(db)
	c := &entity.Category{Name: "Программирование"}
	if err := repo.Create(context.Background(), c); err != nil || c.ID != 6 {
		t.Fatalf("Create id=%d err=%v", c.ID, err)
	}
	if got, err := repo.Get(context.Background(), 7); err != nil || got != nil {
		t.Fatalf("Get(missing) = %v, %v", got, err)
	}
}
