package paymentsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Karansiddiqui/ReadSpace/model"
	striperepo "github.com/Karansiddiqui/ReadSpace/repository/stripe"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"
)

type stripeMock struct {
	createFn func(ctx context.Context, req striperepo.CreateSessionReq) (*striperepo.Session, error)
}

func (m *stripeMock) CreateCheckoutSession(ctx context.Context, req striperepo.CreateSessionReq) (*striperepo.Session, error) {
	return m.createFn(ctx, req)
}

type cartMock struct {
	cart *model.Cart
}

func (m *cartMock) Get(_ context.Context, userID int64) (*model.Cart, error) {
	return m.cart, nil
}

func TestCheckoutSession_EmptyCart(t *testing.T) {
	svc := New(&stripeMock{}, &cartMock{cart: &model.Cart{CartItems: []model.CartItem{}}}, "https://shop.test")

	_, err := svc.CheckoutSession(context.Background(), 7)
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestCheckoutSession_BuildsLineItems(t *testing.T) {
	cart := &model.Cart{CartItems: []model.CartItem{
		{
			BookID: 1, PurchaseType: model.PurchaseRent, RentDays: 3, Price: 60,
			Book: &model.Book{ID: 1, BookName: "The Great Gatsby"},
		},
		{
			BookID: 2, PurchaseType: model.PurchaseBuy, RentDays: 1, Price: 99.5,
			Book: &model.Book{ID: 2, BookName: "Moby Dick"},
		},
	}}

	var got striperepo.CreateSessionReq
	m := &stripeMock{createFn: func(ctx context.Context, req striperepo.CreateSessionReq) (*striperepo.Session, error) {
		got = req
		return &striperepo.Session{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}, nil
	}}
	svc := New(m, &cartMock{cart: cart}, "https://shop.test")

	sess, err := svc.CheckoutSession(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "cs_test_1", sess.ID)

	require.Len(t, got.Items, 2)
	require.Equal(t, "The Great Gatsby", got.Items[0].Name)
	require.Equal(t, "Rent for 3 day(s)", got.Items[0].Description)
	require.Equal(t, int64(6000), got.Items[0].UnitAmount)
	require.Equal(t, "Purchase", got.Items[1].Description)
	// Amounts are in paise, rounded.
	require.Equal(t, int64(9950), got.Items[1].UnitAmount)
	require.Equal(t, "https://shop.test/payment-success", got.SuccessURL)
	require.Equal(t, "https://shop.test/cart", got.CancelURL)
}
