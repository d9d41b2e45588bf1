// Package history is the read side of the rental ledger: date-range lookups,
// past-versus-current holder partitions, and revenue rollups.
package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Karansiddiqui/ReadSpace/model"
	transactionrepo "github.com/Karansiddiqui/ReadSpace/repository/transaction"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"
)

type Repo interface {
	Find(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error)
	ReconcileExpired(ctx context.Context, now time.Time) (int64, error)
}

// RangeQuery selects either a named relative range or an explicit window of
// slash-delimited DD/MM/YY[YY] dates.
type RangeQuery struct {
	FirstDate  string
	SecondDate string
	RangeType  string
	UserID     *int64
}

// HolderFilter narrows the userBooks view. Rented, when set, filters on
// stored status after expired records have been reconciled.
type HolderFilter struct {
	BookID *int64
	UserID *int64
	Rented *model.RentalStatus
}

// HolderReport partitions matched records. A record that was re-rented shows
// up under past users even while its latest cycle is live, so the two lists
// can overlap; the original storefront surfaced it the same way.
type HolderReport struct {
	PastUsers         []model.RentalRecord `json:"pastUser"`
	TotalPastUsers    int                  `json:"totalPastUsers"`
	CurrentHolders    []model.RentalRecord `json:"currentHoldingBookUser"`
	TotalCurrentUsers int                  `json:"totalCurrentUsers"`
	Transactions      []model.RentalRecord `json:"transaction"`
	TotalRent         float64              `json:"totalRent"`
}

type Service interface {
	FindByDateRange(ctx context.Context, q RangeQuery) ([]model.RentalRecord, error)
	UserBooks(ctx context.Context, f HolderFilter) (*HolderReport, error)
	TotalRentByBook(ctx context.Context, bookID int64) (float64, error)
}

type service struct {
	r   Repo
	now func() time.Time
}

func New(r Repo) Service { return &service{r: r, now: time.Now} }

func (s *service) FindByDateRange(ctx context.Context, q RangeQuery) ([]model.RentalRecord, error) {
	from, to, err := s.resolveWindow(q)
	if err != nil {
		return nil, err
	}

	recs, err := s.r.Find(ctx, transactionrepo.Filter{
		UserID:     q.UserID,
		IssuedFrom: from,
		IssuedTo:   to,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, apperr.New(apperr.KindNotFound, "no transactions found for the specified date range")
	}
	deriveStatus(recs, s.now().UTC())
	return recs, nil
}

// deriveStatus overlays the stored status with the lapse-aware one, so a
// rental whose cycle has elapsed reads as returned even before a write has
// reconciled it.
func deriveStatus(recs []model.RentalRecord, now time.Time) {
	for i := range recs {
		recs[i].Status = recs[i].EffectiveStatus(now)
	}
}

func (s *service) resolveWindow(q RangeQuery) (from, to *time.Time, err error) {
	now := s.now().UTC()

	switch q.RangeType {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return &start, &now, nil
	case "last-7-days":
		start := now.AddDate(0, 0, -7)
		return &start, &now, nil
	case "":
		// fall through to explicit dates
	default:
		return nil, nil, apperr.Newf(apperr.KindInvalid, "unknown range type %q", q.RangeType)
	}

	if q.FirstDate != "" {
		d, perr := ParseDate(q.FirstDate)
		if perr != nil {
			return nil, nil, apperr.New(apperr.KindInvalid, "invalid first date format, please use DD/MM/YY")
		}
		from = &d
	}
	if q.SecondDate != "" {
		d, perr := ParseDate(q.SecondDate)
		if perr != nil {
			return nil, nil, apperr.New(apperr.KindInvalid, "invalid second date format, please use DD/MM/YY")
		}
		// Window is inclusive of the whole second day.
		end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, apperr.New(apperr.KindInvalid, "invalid date range, first date must be earlier than the second date")
	}
	return from, to, nil
}

// ParseDate reads slash-delimited DD/MM/YY or DD/MM/YYYY; two-digit years get
// a 20 prefix.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q: want DD/MM/YY", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: bad day", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: bad month", s)
	}
	if len(parts[2]) == 2 {
		parts[2] = "20" + parts[2]
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: bad year", s)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date %q: out of range", s)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("date %q: no such day", s)
	}
	return d, nil
}

func (s *service) UserBooks(ctx context.Context, f HolderFilter) (*HolderReport, error) {
	now := s.now().UTC()

	// Status filters match in SQL against the stored column, so reconcile
	// lapsed rentals first. This is the lazy transition made explicit, not a
	// hidden write inside a read.
	if f.Rented != nil {
		if _, err := s.r.ReconcileExpired(ctx, now); err != nil {
			return nil, err
		}
	}

	recs, err := s.r.Find(ctx, transactionrepo.Filter{
		UserID: f.UserID,
		BookID: f.BookID,
		Status: f.Rented,
	})
	if err != nil {
		return nil, err
	}
	deriveStatus(recs, now)

	report := &HolderReport{Transactions: recs}
	for _, rec := range recs {
		if rec.Status == model.RentalReturned || len(rec.Cycles) > 1 {
			report.PastUsers = append(report.PastUsers, rec)
		}
		if rec.Status == model.RentalRented {
			report.CurrentHolders = append(report.CurrentHolders, rec)
		}
		for _, c := range rec.Cycles {
			report.TotalRent += c.RentAmount
		}
	}
	report.TotalPastUsers = len(report.PastUsers)
	report.TotalCurrentUsers = len(report.CurrentHolders)
	return report, nil
}

func (s *service) TotalRentByBook(ctx context.Context, bookID int64) (float64, error) {
	recs, err := s.r.Find(ctx, transactionrepo.Filter{BookID: &bookID})
	if err != nil {
		return 0, err
	}
	var total float64
	for _, rec := range recs {
		for _, c := range rec.Cycles {
			total += c.RentAmount
		}
	}
	return total, nil
}
