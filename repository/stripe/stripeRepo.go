package striperepo

import "context"

// LineItem is one cart entry as Stripe's checkout page will display it.
// UnitAmount is in the currency's smallest unit (paise).
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
}

type CreateSessionReq struct {
	Items      []LineItem
	SuccessURL string
	CancelURL  string
}

type Session struct {
	ID  string
	URL string
}

type Repo interface {
	CreateCheckoutSession(ctx context.Context, req CreateSessionReq) (*Session, error)
}
