// Package pricing computes the amount owed for a book under a purchase mode.
// Pure: no storage, no clock.
package pricing

import (
	"github.com/Karansiddiqui/ReadSpace/model"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"
)

// ComputePrice returns the price for a book. Buy mode charges the one-time
// price and ignores rentDays; rent mode charges rentPerDay for each of at
// least one day.
func ComputePrice(b *model.Book, t model.PurchaseType, rentDays int) (float64, error) {
	switch t {
	case model.PurchaseBuy:
		if b.OneTimePrice == nil {
			return 0, apperr.New(apperr.KindInvalid, "book has no one-time price")
		}
		return *b.OneTimePrice, nil
	case model.PurchaseRent:
		if b.RentPerDay <= 0 {
			return 0, apperr.New(apperr.KindInvalid, "book has no rent-per-day rate")
		}
		if rentDays < 1 {
			return 0, apperr.New(apperr.KindInvalid, "rent days must be at least 1")
		}
		return b.RentPerDay * float64(rentDays), nil
	default:
		return 0, apperr.Newf(apperr.KindInvalid, "unknown purchase type %q", t)
	}
}
