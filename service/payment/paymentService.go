// Package payment turns a user's cart into a Stripe checkout session.
package paymentsvc

import (
	"context"
	"fmt"
	"math"

	"github.com/Karansiddiqui/ReadSpace/model"
	striperepo "github.com/Karansiddiqui/ReadSpace/repository/stripe"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"
)

type CartService interface {
	Get(ctx context.Context, userID int64) (*model.Cart, error)
}

type Service interface {
	CheckoutSession(ctx context.Context, userID int64) (*striperepo.Session, error)
}

type service struct {
	sr          striperepo.Repo
	cart        CartService
	frontendURL string
}

func New(sr striperepo.Repo, cart CartService, frontendURL string) Service {
	return &service{sr: sr, cart: cart, frontendURL: frontendURL}
}

func (s *service) CheckoutSession(ctx context.Context, userID int64) (*striperepo.Session, error) {
	c, err := s.cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.CartItems) == 0 {
		return nil, apperr.New(apperr.KindInvalid, "cart is empty")
	}

	items := make([]striperepo.LineItem, 0, len(c.CartItems))
	for _, it := range c.CartItems {
		name := fmt.Sprintf("book %d", it.BookID)
		if it.Book != nil {
			name = it.Book.BookName
		}
		desc := "Purchase"
		if it.PurchaseType == model.PurchaseRent {
			desc = fmt.Sprintf("Rent for %d day(s)", it.RentDays)
		}
		items = append(items, striperepo.LineItem{
			Name:        name,
			Description: desc,
			UnitAmount:  int64(math.Round(it.Price * 100)),
			Quantity:    1,
		})
	}

	return s.sr.CreateCheckoutSession(ctx, striperepo.CreateSessionReq{
		Items:      items,
		SuccessURL: s.frontendURL + "/payment-success",
		CancelURL:  s.frontendURL + "/cart",
	})
}
