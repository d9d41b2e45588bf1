// repository/transaction/transactionRepository.go
package transactionrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Karansiddiqui/ReadSpace/model"
)

// ErrOpenCycle is returned by OpenCycle when the (user, book) pair already
// has a live rental.
var ErrOpenCycle = errors.New("open rental cycle exists")

// Filter narrows record queries. Nil fields are ignored. IssuedFrom/IssuedTo
// match records with at least one cycle issued inside the window.
type Filter struct {
	UserID     *int64
	BookID     *int64
	Status     *model.RentalStatus
	IssuedFrom *time.Time
	IssuedTo   *time.Time
}

type Repo interface {
	// OpenCycle appends a cycle for (userID, bookID), creating the record on
	// the first rent. The no-open-cycle check and the append are one atomic
	// conditional write; concurrent calls cannot both succeed.
	OpenCycle(ctx context.Context, userID, bookID int64, c model.RentalCycle) (*model.RentalRecord, error)

	// CloseLatest flips a rented record to returned. Returns the number of
	// rows changed (0 when the record is missing or already returned).
	CloseLatest(ctx context.Context, recordID int64) (int64, error)

	ByID(ctx context.Context, recordID int64) (*model.RentalRecord, error)
	Find(ctx context.Context, f Filter) ([]model.RentalRecord, error)

	// ReconcileExpired persists status=returned for every rented record whose
	// latest cycle has elapsed. This is the explicit, named form of the lazy
	// read-time transition; nothing mutates status as a hidden side effect.
	ReconcileExpired(ctx context.Context, now time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) OpenCycle(ctx context.Context, userID, bookID int64, c model.RentalCycle) (*model.RentalRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Fold expiry into this pair first so a lapsed rental does not block a
	// re-rent. Racing copies of this statement are idempotent.
	const expire = `
		UPDATE rental_records
		SET status = 'returned', updated_at = now()
		WHERE user_id = $1 AND book_id = $2 AND status = 'rented'
		  AND NOT EXISTS (
			SELECT 1 FROM rental_cycles c
			WHERE c.record_id = rental_records.id AND c.return_date > $3)`
	if _, err = tx.ExecContext(ctx, expire, userID, bookID, c.IssueDate); err != nil {
		return nil, err
	}

	// Compare-and-set on status: the DO UPDATE branch re-checks the WHERE
	// clause against the locked row, so of two concurrent issues exactly one
	// gets a row back.
	const upsert = `
		INSERT INTO rental_records (user_id, book_id, status)
		VALUES ($1, $2, 'rented')
		ON CONFLICT (user_id, book_id) DO UPDATE
			SET status = 'rented', updated_at = now()
			WHERE rental_records.status = 'returned'
		RETURNING id`
	var recordID int64
	err = tx.QueryRowContext(ctx, upsert, userID, bookID).Scan(&recordID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrOpenCycle
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	const appendCycle = `
		INSERT INTO rental_cycles (record_id, issue_date, return_date, rent_amount)
		VALUES ($1, $2, $3, $4)`
	if _, err = tx.ExecContext(ctx, appendCycle, recordID, c.IssueDate, c.ReturnDate, c.RentAmount); err != nil {
		return nil, err
	}

	rec, err := scanOne(tx.QueryContext(ctx, recordQuery+` WHERE r.id = $1`+recordOrder, recordID))
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repo) CloseLatest(ctx context.Context, recordID int64) (int64, error) {
	const q = `
		UPDATE rental_records
		SET status = 'returned', updated_at = now()
		WHERE id = $1 AND status = 'rented'`
	res, err := r.db.ExecContext(ctx, q, recordID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) ReconcileExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		UPDATE rental_records
		SET status = 'returned', updated_at = now()
		WHERE status = 'rented'
		  AND NOT EXISTS (
			SELECT 1 FROM rental_cycles c
			WHERE c.record_id = rental_records.id AND c.return_date > $1)`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) ByID(ctx context.Context, recordID int64) (*model.RentalRecord, error) {
	return scanOne(r.db.QueryContext(ctx, recordQuery+` WHERE r.id = $1`+recordOrder, recordID))
}

func (r *repo) Find(ctx context.Context, f Filter) ([]model.RentalRecord, error) {
	q, args := buildFind(f)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func buildFind(f Filter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != nil {
		add("r.user_id = $%d", *f.UserID)
	}
	if f.BookID != nil {
		add("r.book_id = $%d", *f.BookID)
	}
	if f.Status != nil {
		add("r.status = $%d", string(*f.Status))
	}

	// Both bounds must hit the SAME cycle; two separate subqueries would
	// match a record with one cycle before the window and one after.
	switch {
	case f.IssuedFrom != nil && f.IssuedTo != nil:
		args = append(args, *f.IssuedFrom, *f.IssuedTo)
		conds = append(conds, fmt.Sprintf(`EXISTS (SELECT 1 FROM rental_cycles cw
			WHERE cw.record_id = r.id AND cw.issue_date >= $%d AND cw.issue_date <= $%d)`,
			len(args)-1, len(args)))
	case f.IssuedFrom != nil:
		add(`EXISTS (SELECT 1 FROM rental_cycles cw
			WHERE cw.record_id = r.id AND cw.issue_date >= $%d)`, *f.IssuedFrom)
	case f.IssuedTo != nil:
		add(`EXISTS (SELECT 1 FROM rental_cycles cw
			WHERE cw.record_id = r.id AND cw.issue_date <= $%d)`, *f.IssuedTo)
	}

	q := recordQuery
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	return q + recordOrder, args
}

// One row per cycle; scanRecords regroups them. Book columns ride along so
// history views can render titles without a second query.
const recordQuery = `
	SELECT r.id, r.user_id, r.book_id, r.status, r.created_at, r.updated_at,
	       c.issue_date, c.return_date, c.rent_amount,
	       b.id, b.book_name, b.author, b.category, b.rent_per_day, b.one_time_price, b.cover, b.slug
	FROM rental_records r
	JOIN rental_cycles c ON c.record_id = r.id
	JOIN books b ON b.id = r.book_id`

const recordOrder = ` ORDER BY r.updated_at DESC, r.id, c.issue_date, c.id`

func scanRecords(rows *sql.Rows) ([]model.RentalRecord, error) {
	defer rows.Close()

	var out []model.RentalRecord
	byID := map[int64]int{}
	for rows.Next() {
		var (
			rec model.RentalRecord
			cyc model.RentalCycle
			bk  model.Book
		)
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.BookID, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
			&cyc.IssueDate, &cyc.ReturnDate, &cyc.RentAmount,
			&bk.ID, &bk.BookName, &bk.Author, &bk.Category, &bk.RentPerDay, &bk.OneTimePrice, &bk.Cover, &bk.Slug,
		); err != nil {
			return nil, err
		}
		if i, ok := byID[rec.ID]; ok {
			out[i].Cycles = append(out[i].Cycles, cyc)
			continue
		}
		rec.Book = &bk
		rec.Cycles = []model.RentalCycle{cyc}
		byID[rec.ID] = len(out)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanOne(rows *sql.Rows, err error) (*model.RentalRecord, error) {
	if err != nil {
		return nil, err
	}
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, sql.ErrNoRows
	}
	return &recs[0], nil
}
