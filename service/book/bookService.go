package booksvc

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Karansiddiqui/ReadSpace/model"
	bookrepo "github.com/Karansiddiqui/ReadSpace/repository/book"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	ByID(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context, f bookrepo.ListFilter) ([]model.Book, error)
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type Service interface {
	Create(ctx context.Context, b *model.Book) (*model.Book, error)
	List(ctx context.Context, f bookrepo.ListFilter) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	Update(ctx context.Context, b *model.Book) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

var slugScrub = regexp.MustCompile(`[^a-z0-9-]`)

// Slugify builds the URL slug the catalog pages link a book by.
func Slugify(name string) string {
	s := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	return slugScrub.ReplaceAllString(s, "")
}

func (s *service) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	if strings.TrimSpace(b.BookName) == "" || strings.TrimSpace(b.Category) == "" {
		return nil, apperr.New(apperr.KindInvalid, "book name and category are required")
	}
	if b.RentPerDay <= 0 {
		return nil, apperr.New(apperr.KindInvalid, "rent per day must be positive")
	}
	if b.OneTimePrice != nil && *b.OneTimePrice <= 0 {
		return nil, apperr.New(apperr.KindInvalid, "one time price must be positive")
	}
	b.Slug = Slugify(b.BookName)

	if err := s.r.Create(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.KindConflict, "book already exists")
		}
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, f bookrepo.ListFilter) ([]model.Book, error) {
	if f.MinRent != nil && *f.MinRent < 0 {
		return nil, apperr.New(apperr.KindInvalid, "minRent must not be negative")
	}
	if f.MinRent != nil && f.MaxRent != nil && *f.MinRent > *f.MaxRent {
		return nil, apperr.New(apperr.KindInvalid, "minRent must not exceed maxRent")
	}
	return s.r.List(ctx, f)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "book not found")
		}
		return nil, err
	}
	return b, nil
}

// Update patches only the fields the caller set and leaves the rest as stored.
func (s *service) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	cur, err := s.Detail(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(b.BookName) == "" {
		b.BookName = cur.BookName
	}
	if b.Author == "" {
		b.Author = cur.Author
	}
	if b.Description == "" {
		b.Description = cur.Description
	}
	if b.Category == "" {
		b.Category = cur.Category
	}
	if b.RentPerDay <= 0 {
		b.RentPerDay = cur.RentPerDay
	}
	if b.OneTimePrice == nil {
		b.OneTimePrice = cur.OneTimePrice
	}
	if b.PublicationYear == 0 {
		b.PublicationYear = cur.PublicationYear
	}
	if b.Cover == nil {
		b.Cover = cur.Cover
	}
	b.Slug = Slugify(b.BookName)

	if err := s.r.Update(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.KindConflict, "book already exists")
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	aff, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if aff == 0 {
		return apperr.New(apperr.KindNotFound, "book not found")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
