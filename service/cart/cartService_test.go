package cart

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/Karansiddiqui/ReadSpace/model"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"
)

// memRepo keeps carts in memory with the same contract as the SQL repo:
// unique (cart, book) pairs surface as a pg unique violation, and every
// mutation resums the totals from the items.
type memRepo struct {
	nextCartID int64
	nextItemID int64
	carts      map[int64]*model.Cart // by user id
}

func newMemRepo() *memRepo {
	return &memRepo{nextCartID: 1, nextItemID: 1, carts: map[int64]*model.Cart{}}
}

func (m *memRepo) CartByUser(_ context.Context, userID int64) (*model.Cart, error) {
	c, ok := m.carts[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	cp.CartItems = append([]model.CartItem(nil), c.CartItems...)
	return &cp, nil
}

func (m *memRepo) CreateCart(_ context.Context, userID int64) (*model.Cart, error) {
	if c, ok := m.carts[userID]; ok {
		cp := *c
		return &cp, nil
	}
	c := &model.Cart{ID: m.nextCartID, UserID: userID, CartItems: []model.CartItem{}}
	m.nextCartID++
	m.carts[userID] = c
	cp := *c
	return &cp, nil
}

func (m *memRepo) ItemByID(_ context.Context, itemID int64) (*model.CartItem, error) {
	for _, c := range m.carts {
		for _, it := range c.CartItems {
			if it.ID == itemID {
				cp := it
				return &cp, nil
			}
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memRepo) InsertItem(_ context.Context, it *model.CartItem) error {
	c := m.cartByID(it.CartID)
	for _, existing := range c.CartItems {
		if existing.BookID == it.BookID {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "cart_items_cart_book_key"}
		}
	}
	it.ID = m.nextItemID
	m.nextItemID++
	c.CartItems = append(c.CartItems, *it)
	m.resum(c)
	return nil
}

func (m *memRepo) UpdateItem(_ context.Context, itemID int64, t model.PurchaseType, rentDays int, price float64) error {
	for _, c := range m.carts {
		for i := range c.CartItems {
			if c.CartItems[i].ID == itemID {
				c.CartItems[i].PurchaseType = t
				c.CartItems[i].RentDays = rentDays
				c.CartItems[i].Price = price
				m.resum(c)
				return nil
			}
		}
	}
	return sql.ErrNoRows
}

func (m *memRepo) DeleteItem(_ context.Context, itemID int64) error {
	for _, c := range m.carts {
		for i := range c.CartItems {
			if c.CartItems[i].ID == itemID {
				c.CartItems = append(c.CartItems[:i], c.CartItems[i+1:]...)
				m.resum(c)
				return nil
			}
		}
	}
	return sql.ErrNoRows
}

func (m *memRepo) Clear(_ context.Context, cartID int64) error {
	c := m.cartByID(cartID)
	c.CartItems = []model.CartItem{}
	m.resum(c)
	return nil
}

func (m *memRepo) cartByID(cartID int64) *model.Cart {
	for _, c := range m.carts {
		if c.ID == cartID {
			return c
		}
	}
	return nil
}

func (m *memRepo) resum(c *model.Cart) {
	c.TotalPrice = 0
	c.TotalItem = len(c.CartItems)
	for _, it := range c.CartItems {
		c.TotalPrice += it.Price
	}
}

func f64(v float64) *float64 { return &v }

type bookRepoMock struct {
	books map[int64]*model.Book
}

func (m *bookRepoMock) ByID(_ context.Context, id int64) (*model.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func fixtureBooks() *bookRepoMock {
	return &bookRepoMock{books: map[int64]*model.Book{
		1: {ID: 1, BookName: "The Great Gatsby", RentPerDay: 20, OneTimePrice: f64(99)},
		2: {ID: 2, BookName: "Moby Dick", RentPerDay: 15, OneTimePrice: f64(50)},
		3: {ID: 3, BookName: "Rental Only", RentPerDay: 10},
	}}
}

func TestAddItem_CreatesCartLazily(t *testing.T) {
	svc := New(newMemRepo(), fixtureBooks())

	c, err := svc.AddItem(context.Background(), 7, 1, 99)
	require.NoError(t, err)
	require.Len(t, c.CartItems, 1)
	require.Equal(t, model.PurchaseBuy, c.CartItems[0].PurchaseType)
	require.Equal(t, 99.0, c.TotalPrice)
	require.Equal(t, 1, c.TotalItem)
}

func TestAddItem_Validation(t *testing.T) {
	svc := New(newMemRepo(), fixtureBooks())

	_, err := svc.AddItem(context.Background(), 7, 1, 0)
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = svc.AddItem(context.Background(), 7, 999, 10)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddItem_DuplicateConflictLeavesCartUnchanged(t *testing.T) {
	svc := New(newMemRepo(), fixtureBooks())

	_, err := svc.AddItem(context.Background(), 7, 1, 99)
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), 7, 1, 99)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	c, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, c.CartItems, 1)
	require.Equal(t, 99.0, c.TotalPrice)
}

func TestUpdateItem_BuyToRent_ResumsTotals(t *testing.T) {
	svc := New(newMemRepo(), fixtureBooks())

	c, err := svc.AddItem(context.Background(), 7, 1, 99)
	require.NoError(t, err)
	itemID := c.CartItems[0].ID

	c, err = svc.UpdateItem(context.Background(), 7, itemID, model.PurchaseRent, 3)
	require.NoError(t, err)
	require.Equal(t, 60.0, c.CartItems[0].Price)
	// Totals are resummed, not 99+60.
	require.Equal(t, 60.0, c.TotalPrice)
	require.Equal(t, 1, c.TotalItem)
}

func TestUpdateItem_InvalidDays(t *testing.T) {
	svc := New(newMemRepo(), fixtureBooks())

	c, err := svc.AddItem(context.Background(), 7, 1, 99)
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), 7, c.CartItems[0].ID, model.PurchaseRent, 0)
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestUpdateItem_NotFoundAndForbidden(t *testing.T) {
	svc := New(newMemRepo(), fixtureBooks())

	_, err := svc.UpdateItem(context.Background(), 7, 999, model.PurchaseRent, 3)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	c, err := svc.AddItem(context.Background(), 7, 1, 99)
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), 8, c.CartItems[0].ID, model.PurchaseRent, 3)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestRemoveItem_LastItemLeavesEmptyCart(t *testing.T) {
	svc := New(newMemRepo(), fixtureBooks())

	c, err := svc.AddItem(context.Background(), 7, 1, 99)
	require.NoError(t, err)

	c, err = svc.RemoveItem(context.Background(), 7, c.CartItems[0].ID)
	require.NoError(t, err)
	require.Empty(t, c.CartItems)
	require.Equal(t, 0.0, c.TotalPrice)
	require.Equal(t, 0, c.TotalItem)
}

func TestClear(t *testing.T) {
	svc := New(newMemRepo(), fixtureBooks())

	_, err := svc.Clear(context.Background(), 7)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.AddItem(context.Background(), 7, 1, 99)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), 7, 2, 50)
	require.NoError(t, err)

	c, err := svc.Clear(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, c.CartItems)
	require.Equal(t, 0.0, c.TotalPrice)
	require.Equal(t, 0, c.TotalItem)
}

func TestGet_NoCartYet_IsEmpty(t *testing.T) {
	svc := New(newMemRepo(), fixtureBooks())

	c, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, c.CartItems)
	require.Equal(t, 0, c.TotalItem)
}

func TestMerge_AbsorbsDuplicatesAndSkipsUnknown(t *testing.T) {
	svc := New(newMemRepo(), fixtureBooks())

	// Already has book 1 from a previous session.
	_, err := svc.AddItem(context.Background(), 7, 1, 99)
	require.NoError(t, err)

	c, err := svc.Merge(context.Background(), 7, []int64{1, 2, 3, 999})
	require.NoError(t, err)
	require.Len(t, c.CartItems, 3)
	// Book 1 untouched, book 2 priced buy, book 3 has no one-time price and
	// falls back to one rent day.
	require.Equal(t, 99.0+50+10, c.TotalPrice)
	require.Equal(t, 3, c.TotalItem)
}
