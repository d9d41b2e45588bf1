// Package cart owns the pending-purchase set for a user: adding books,
// switching items between rent and buy, and merging a guest's selections in
// at login.
package cart

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Karansiddiqui/ReadSpace/model"
	"github.com/Karansiddiqui/ReadSpace/service/pricing"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"
)

type Repo interface {
	CartByUser(ctx context.Context, userID int64) (*model.Cart, error)
	CreateCart(ctx context.Context, userID int64) (*model.Cart, error)
	ItemByID(ctx context.Context, itemID int64) (*model.CartItem, error)
	InsertItem(ctx context.Context, it *model.CartItem) error
	UpdateItem(ctx context.Context, itemID int64, t model.PurchaseType, rentDays int, price float64) error
	DeleteItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context, cartID int64) error
}

type BookRepo interface {
	ByID(ctx context.Context, id int64) (*model.Book, error)
}

type Service interface {
	Get(ctx context.Context, userID int64) (*model.Cart, error)
	AddItem(ctx context.Context, userID, bookID int64, price float64) (*model.Cart, error)
	UpdateItem(ctx context.Context, userID, itemID int64, t model.PurchaseType, rentDays int) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID int64) (*model.Cart, error)
	Clear(ctx context.Context, userID int64) (*model.Cart, error)

	// Merge replays a guest's locally stored book ids through AddItem once,
	// at login. Books already in the cart and books that no longer exist are
	// skipped, not errors.
	Merge(ctx context.Context, userID int64, bookIDs []int64) (*model.Cart, error)
}

type service struct {
	r  Repo
	br BookRepo
}

func New(r Repo, br BookRepo) Service { return &service{r: r, br: br} }

func (s *service) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	c, err := s.r.CartByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		// No cart until the first add; report it empty rather than missing.
		return &model.Cart{UserID: userID, CartItems: []model.CartItem{}}, nil
	}
	return c, err
}

func (s *service) AddItem(ctx context.Context, userID, bookID int64, price float64) (*model.Cart, error) {
	if bookID <= 0 || price <= 0 {
		return nil, apperr.New(apperr.KindInvalid, "invalid book id or price")
	}
	if _, err := s.br.ByID(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "book not found")
		}
		return nil, err
	}

	c, err := s.r.CartByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		c, err = s.r.CreateCart(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	it := &model.CartItem{
		CartID:       c.ID,
		UserID:       userID,
		BookID:       bookID,
		PurchaseType: model.PurchaseBuy,
		RentDays:     1,
		Price:        price,
	}
	if err := s.r.InsertItem(ctx, it); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.KindConflict, "book is already in your cart")
		}
		return nil, err
	}
	return s.r.CartByUser(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID int64, t model.PurchaseType, rentDays int) (*model.Cart, error) {
	it, err := s.itemOwnedBy(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	book, err := s.br.ByID(ctx, it.BookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "book not found")
		}
		return nil, err
	}

	price, err := pricing.ComputePrice(book, t, rentDays)
	if err != nil {
		return nil, err
	}
	if err := s.r.UpdateItem(ctx, itemID, t, rentDays, price); err != nil {
		return nil, err
	}
	return s.r.CartByUser(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID int64) (*model.Cart, error) {
	if _, err := s.itemOwnedBy(ctx, userID, itemID); err != nil {
		return nil, err
	}
	if err := s.r.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.r.CartByUser(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID int64) (*model.Cart, error) {
	c, err := s.r.CartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "cart not found")
		}
		return nil, err
	}
	if err := s.r.Clear(ctx, c.ID); err != nil {
		return nil, err
	}
	return s.r.CartByUser(ctx, userID)
}

func (s *service) Merge(ctx context.Context, userID int64, bookIDs []int64) (*model.Cart, error) {
	for _, bookID := range bookIDs {
		book, err := s.br.ByID(ctx, bookID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}

		// Guest selections carry no mode, so they land as plain purchases;
		// books without a one-time price fall back to one rent day.
		price, err := pricing.ComputePrice(book, model.PurchaseBuy, 1)
		if err != nil {
			price, err = pricing.ComputePrice(book, model.PurchaseRent, 1)
			if err != nil {
				continue
			}
		}

		if _, err := s.AddItem(ctx, userID, bookID, price); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				continue
			}
			return nil, err
		}
	}
	return s.Get(ctx, userID)
}

func (s *service) itemOwnedBy(ctx context.Context, userID, itemID int64) (*model.CartItem, error) {
	it, err := s.r.ItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "cart item not found")
		}
		return nil, err
	}
	if it.UserID != userID {
		return nil, apperr.New(apperr.KindForbidden, "forbidden")
	}
	return it, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
