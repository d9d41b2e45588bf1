package booksvc_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/Karansiddiqui/ReadSpace/model"
	bookrepo "github.com/Karansiddiqui/ReadSpace/repository/book"
	booksvc "github.com/Karansiddiqui/ReadSpace/service/book"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"
)

type repoMock struct {
	createFn func(ctx context.Context, b *model.Book) error
	byIDFn   func(ctx context.Context, id int64) (*model.Book, error)
	listFn   func(ctx context.Context, f bookrepo.ListFilter) ([]model.Book, error)
	updateFn func(ctx context.Context, b *model.Book) error
	deleteFn func(ctx context.Context, id int64) (int64, error)
}

func (m *repoMock) Create(ctx context.Context, b *model.Book) error { return m.createFn(ctx, b) }
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.Book, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) List(ctx context.Context, f bookrepo.ListFilter) ([]model.Book, error) {
	return m.listFn(ctx, f)
}
func (m *repoMock) Update(ctx context.Context, b *model.Book) error { return m.updateFn(ctx, b) }
func (m *repoMock) Delete(ctx context.Context, id int64) (int64, error) {
	return m.deleteFn(ctx, id)
}

func f64(v float64) *float64 { return &v }

func TestSlugify(t *testing.T) {
	require.Equal(t, "the-great-gatsby", booksvc.Slugify("The Great Gatsby"))
	require.Equal(t, "harry-potter-12", booksvc.Slugify("  Harry Potter #1&2 "))
}

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&repoMock{})

	_, err := s.Create(context.Background(), &model.Book{Category: "Fiction", RentPerDay: 10})
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = s.Create(context.Background(), &model.Book{BookName: "X", RentPerDay: 10})
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = s.Create(context.Background(), &model.Book{BookName: "X", Category: "Fiction"})
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestCreate_SetsSlug(t *testing.T) {
	m := &repoMock{createFn: func(ctx context.Context, b *model.Book) error {
		b.ID = 42
		return nil
	}}
	s := booksvc.New(m)

	b, err := s.Create(context.Background(), &model.Book{
		BookName: "Clean Code", Category: "Programming", RentPerDay: 12, OneTimePrice: f64(180),
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), b.ID)
	require.Equal(t, "clean-code", b.Slug)
}

func TestCreate_Duplicate(t *testing.T) {
	m := &repoMock{createFn: func(ctx context.Context, b *model.Book) error {
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}}
	s := booksvc.New(m)

	_, err := s.Create(context.Background(), &model.Book{BookName: "X", Category: "Y", RentPerDay: 1})
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestList_RangeValidation(t *testing.T) {
	s := booksvc.New(&repoMock{})

	_, err := s.List(context.Background(), bookrepo.ListFilter{MinRent: f64(50), MaxRent: f64(10)})
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = s.List(context.Background(), bookrepo.ListFilter{MinRent: f64(-1)})
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
		return nil, sql.ErrNoRows
	}}
	s := booksvc.New(m)

	_, err := s.Detail(context.Background(), 99)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdate_PatchesMissingFields(t *testing.T) {
	stored := &model.Book{
		ID: 7, BookName: "Moby Dick", Author: "Melville", Category: "Classic",
		RentPerDay: 15, OneTimePrice: f64(50), PublicationYear: 1851,
	}
	var saved *model.Book
	m := &repoMock{
		byIDFn:   func(ctx context.Context, id int64) (*model.Book, error) { return stored, nil },
		updateFn: func(ctx context.Context, b *model.Book) error { saved = b; return nil },
	}
	s := booksvc.New(m)

	b, err := s.Update(context.Background(), &model.Book{ID: 7, RentPerDay: 20})
	require.NoError(t, err)
	require.Equal(t, saved, b)
	require.Equal(t, "Moby Dick", b.BookName)
	require.Equal(t, "Melville", b.Author)
	require.Equal(t, 20.0, b.RentPerDay)
	require.Equal(t, 50.0, *b.OneTimePrice)
	require.Equal(t, "moby-dick", b.Slug)
}

func TestDelete(t *testing.T) {
	m := &repoMock{deleteFn: func(ctx context.Context, id int64) (int64, error) { return 0, nil }}
	s := booksvc.New(m)

	err := s.Delete(context.Background(), 1)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	m.deleteFn = func(ctx context.Context, id int64) (int64, error) { return 1, nil }
	require.NoError(t, s.Delete(context.Background(), 1))
}
