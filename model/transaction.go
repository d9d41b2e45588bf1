// model/transaction.go
package model

import "time"

type RentalStatus string

const (
	RentalRented   RentalStatus = "rented"
	RentalReturned RentalStatus = "returned"
)

type PurchaseType string

const (
	PurchaseRent PurchaseType = "rent"
	PurchaseBuy  PurchaseType = "buy"
)

// RentalCycle is one issue-to-return round trip for a book.
type RentalCycle struct {
	IssueDate  time.Time `json:"issueDate"`
	ReturnDate time.Time `json:"returnDate"`
	RentAmount float64   `json:"rentAmount"`
}

// RentalRecord is the single record a (user, book) pair ever gets. A re-rent
// after a return appends a new cycle to the same record; records are never
// deleted. Cycles are append-only and ordered by issue date.
type RentalRecord struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"userId"`
	BookID    int64         `json:"bookId"`
	Status    RentalStatus  `json:"status"`
	Cycles    []RentalCycle `json:"cycles"`
	Book      *Book         `json:"book,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (r *RentalRecord) LatestCycle() *RentalCycle {
	if len(r.Cycles) == 0 {
		return nil
	}
	return &r.Cycles[len(r.Cycles)-1]
}

// EffectiveStatus derives the status from the latest cycle without touching
// storage: a rented record whose return date has elapsed counts as returned.
func (r *RentalRecord) EffectiveStatus(now time.Time) RentalStatus {
	if r.Status == RentalReturned {
		return RentalReturned
	}
	last := r.LatestCycle()
	if last == nil || !last.ReturnDate.After(now) {
		return RentalReturned
	}
	return RentalRented
}
