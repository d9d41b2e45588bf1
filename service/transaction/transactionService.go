// Package transaction owns the rental lifecycle: issuing a book for a number
// of days, appending re-rent cycles, and recording returns.
package transaction

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Karansiddiqui/ReadSpace/model"
	transactionrepo "github.com/Karansiddiqui/ReadSpace/repository/transaction"
	"github.com/Karansiddiqui/ReadSpace/service/pricing"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"
)

type Repo interface {
	OpenCycle(ctx context.Context, userID, bookID int64, c model.RentalCycle) (*model.RentalRecord, error)
	CloseLatest(ctx context.Context, recordID int64) (int64, error)
	ByID(ctx context.Context, recordID int64) (*model.RentalRecord, error)
}

type BookRepo interface {
	ByID(ctx context.Context, id int64) (*model.Book, error)
}

type Service interface {
	// Issue rents bookID to userID for days, creating the record on first
	// rent or appending a cycle after a return.
	Issue(ctx context.Context, userID, bookID int64, days int) (*model.RentalRecord, error)

	// Return closes the open cycle of a record. Amount and return date stay
	// as issued; late returns are not re-priced.
	Return(ctx context.Context, recordID int64) (*model.RentalRecord, error)
}

type service struct {
	r   Repo
	br  BookRepo
	now func() time.Time
}

func New(r Repo, br BookRepo) Service {
	return &service{r: r, br: br, now: time.Now}
}

func (s *service) Issue(ctx context.Context, userID, bookID int64, days int) (*model.RentalRecord, error) {
	if days <= 0 {
		return nil, apperr.New(apperr.KindInvalid, "days must be greater than zero")
	}

	book, err := s.br.ByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "book not found")
		}
		return nil, err
	}

	amount, err := pricing.ComputePrice(book, model.PurchaseRent, days)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	cycle := model.RentalCycle{
		IssueDate:  now,
		ReturnDate: now.AddDate(0, 0, days),
		RentAmount: amount,
	}

	rec, err := s.r.OpenCycle(ctx, userID, bookID, cycle)
	if err != nil {
		if errors.Is(err, transactionrepo.ErrOpenCycle) {
			return nil, apperr.New(apperr.KindConflict, "already rented a book")
		}
		return nil, err
	}
	return rec, nil
}

func (s *service) Return(ctx context.Context, recordID int64) (*model.RentalRecord, error) {
	aff, err := s.r.CloseLatest(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if aff == 0 {
		// Missing record and double return land on the same conditional
		// update; tell them apart here.
		if _, err := s.r.ByID(ctx, recordID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperr.New(apperr.KindNotFound, "no ongoing transaction found for this book and user")
			}
			return nil, err
		}
		return nil, apperr.New(apperr.KindConflict, "this book is already returned")
	}
	return s.r.ByID(ctx, recordID)
}
