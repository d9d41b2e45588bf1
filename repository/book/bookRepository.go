// repository/book/bookRepository.go
package bookrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Karansiddiqui/ReadSpace/model"
)

// ListFilter narrows the catalog listing. Nil/empty fields are ignored.
type ListFilter struct {
	MinRent *float64
	MaxRent *float64
	Search  string
}

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	ByID(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context, f ListFilter) ([]model.Book, error)
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookColumns = `id, book_name, author, description, category, rent_per_day,
	one_time_price, publication_year, cover, slug, created_at, updated_at`

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
		INSERT INTO books (book_name, author, description, category, rent_per_day,
			one_time_price, publication_year, cover, slug)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		b.BookName, b.Author, b.Description, b.Category, b.RentPerDay,
		b.OneTimePrice, b.PublicationYear, b.Cover, b.Slug,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id).Scan(
		&b.ID, &b.BookName, &b.Author, &b.Description, &b.Category, &b.RentPerDay,
		&b.OneTimePrice, &b.PublicationYear, &b.Cover, &b.Slug, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) List(ctx context.Context, f ListFilter) ([]model.Book, error) {
	var conds []string
	var args []any

	if f.MinRent != nil {
		args = append(args, *f.MinRent)
		conds = append(conds, fmt.Sprintf("rent_per_day >= $%d", len(args)))
	}
	if f.MaxRent != nil {
		args = append(args, *f.MaxRent)
		conds = append(conds, fmt.Sprintf("rent_per_day <= $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("(book_name ILIKE $%d OR category ILIKE $%d)", len(args), len(args)))
	}

	q := `SELECT ` + bookColumns + ` FROM books`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.BookName, &b.Author, &b.Description, &b.Category, &b.RentPerDay,
			&b.OneTimePrice, &b.PublicationYear, &b.Cover, &b.Slug, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	const q = `
		UPDATE books
		SET book_name = $2, author = $3, description = $4, category = $5,
		    rent_per_day = $6, one_time_price = $7, publication_year = $8,
		    cover = $9, slug = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	return r.db.QueryRowContext(ctx, q,
		b.ID, b.BookName, b.Author, b.Description, b.Category,
		b.RentPerDay, b.OneTimePrice, b.PublicationYear, b.Cover, b.Slug,
	).Scan(&b.UpdatedAt)
}

func (r *repo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
