// repository/cart/cartRepository.go
package cartrepo

import (
	"context"
	"database/sql"

	"github.com/Karansiddiqui/ReadSpace/model"
)

type Repo interface {
	CartByUser(ctx context.Context, userID int64) (*model.Cart, error)
	CreateCart(ctx context.Context, userID int64) (*model.Cart, error)
	ItemByID(ctx context.Context, itemID int64) (*model.CartItem, error)

	// InsertItem adds the item and resums the owning cart's totals in one
	// transaction. A duplicate (cart, book) pair surfaces as the driver's
	// unique-violation error.
	InsertItem(ctx context.Context, it *model.CartItem) error

	UpdateItem(ctx context.Context, itemID int64, t model.PurchaseType, rentDays int, price float64) error
	DeleteItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context, cartID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) CartByUser(ctx context.Context, userID int64) (*model.Cart, error) {
	const q = `
		SELECT id, user_id, total_price, total_item, created_at, updated_at
		FROM carts
		WHERE user_id = $1`
	c := &model.Cart{}
	err := r.db.QueryRowContext(ctx, q, userID).
		Scan(&c.ID, &c.UserID, &c.TotalPrice, &c.TotalItem, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	const items = `
		SELECT ci.id, ci.cart_id, ci.user_id, ci.book_id, ci.purchase_type, ci.rent_days, ci.price,
		       ci.created_at, ci.updated_at,
		       b.id, b.book_name, b.author, b.category, b.rent_per_day, b.one_time_price, b.cover, b.slug
		FROM cart_items ci
		JOIN books b ON b.id = ci.book_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`
	rows, err := r.db.QueryContext(ctx, items, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c.CartItems = []model.CartItem{}
	for rows.Next() {
		var (
			it model.CartItem
			bk model.Book
		)
		if err := rows.Scan(
			&it.ID, &it.CartID, &it.UserID, &it.BookID, &it.PurchaseType, &it.RentDays, &it.Price,
			&it.CreatedAt, &it.UpdatedAt,
			&bk.ID, &bk.BookName, &bk.Author, &bk.Category, &bk.RentPerDay, &bk.OneTimePrice, &bk.Cover, &bk.Slug,
		); err != nil {
			return nil, err
		}
		it.Book = &bk
		c.CartItems = append(c.CartItems, it)
	}
	return c, rows.Err()
}

func (r *repo) CreateCart(ctx context.Context, userID int64) (*model.Cart, error) {
	// Two sessions may both miss the cart and try to create it; land on the
	// same row either way.
	const q = `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id, user_id, total_price, total_item, created_at, updated_at`
	c := &model.Cart{CartItems: []model.CartItem{}}
	err := r.db.QueryRowContext(ctx, q, userID).
		Scan(&c.ID, &c.UserID, &c.TotalPrice, &c.TotalItem, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) ItemByID(ctx context.Context, itemID int64) (*model.CartItem, error) {
	const q = `
		SELECT id, cart_id, user_id, book_id, purchase_type, rent_days, price, created_at, updated_at
		FROM cart_items
		WHERE id = $1`
	it := &model.CartItem{}
	err := r.db.QueryRowContext(ctx, q, itemID).Scan(
		&it.ID, &it.CartID, &it.UserID, &it.BookID, &it.PurchaseType, &it.RentDays, &it.Price,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repo) InsertItem(ctx context.Context, it *model.CartItem) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		const q = `
			INSERT INTO cart_items (cart_id, user_id, book_id, purchase_type, rent_days, price)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`
		err := tx.QueryRowContext(ctx, q,
			it.CartID, it.UserID, it.BookID, it.PurchaseType, it.RentDays, it.Price,
		).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return err
		}
		return resum(ctx, tx, it.CartID)
	})
}

func (r *repo) UpdateItem(ctx context.Context, itemID int64, t model.PurchaseType, rentDays int, price float64) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		const q = `
			UPDATE cart_items
			SET purchase_type = $2, rent_days = $3, price = $4, updated_at = now()
			WHERE id = $1
			RETURNING cart_id`
		var cartID int64
		if err := tx.QueryRowContext(ctx, q, itemID, t, rentDays, price).Scan(&cartID); err != nil {
			return err
		}
		return resum(ctx, tx, cartID)
	})
}

func (r *repo) DeleteItem(ctx context.Context, itemID int64) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		const q = `DELETE FROM cart_items WHERE id = $1 RETURNING cart_id`
		var cartID int64
		if err := tx.QueryRowContext(ctx, q, itemID).Scan(&cartID); err != nil {
			return err
		}
		return resum(ctx, tx, cartID)
	})
}

func (r *repo) Clear(ctx context.Context, cartID int64) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return err
		}
		return resum(ctx, tx, cartID)
	})
}

// resum recomputes totals from the items. Always a full resummation, never an
// increment, so concurrent item updates cannot drift the totals.
func resum(ctx context.Context, tx *sql.Tx, cartID int64) error {
	const q = `
		UPDATE carts
		SET total_price = COALESCE((SELECT SUM(price) FROM cart_items WHERE cart_id = $1), 0),
		    total_item  = (SELECT COUNT(*) FROM cart_items WHERE cart_id = $1),
		    updated_at  = now()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, cartID)
	return err
}

func (r *repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
