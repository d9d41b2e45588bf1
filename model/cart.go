// model/cart.go
package model

import "time"

// Cart totals are derived values: every mutation resums them from the items,
// they are never incremented in place.
type Cart struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	CartItems  []CartItem `json:"cartItem"`
	TotalPrice float64    `json:"totalPrice"`
	TotalItem  int        `json:"totalItem"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ID           int64        `json:"id"`
	CartID       int64        `json:"cartId"`
	UserID       int64        `json:"userId"`
	BookID       int64        `json:"bookId"`
	PurchaseType PurchaseType `json:"purchaseType"`
	RentDays     int          `json:"rentDays"`
	Price        float64      `json:"price"`
	Book         *Book        `json:"book,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
