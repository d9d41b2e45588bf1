package history

import (
	"context"
	"testing"
	"time"

	"github.com/Karansiddiqui/ReadSpace/model"
	transactionrepo "github.com/Karansiddiqui/ReadSpace/repository/transaction"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	findFn      func(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error)
	reconcileFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *repoMock) Find(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error) {
	return m.findFn(ctx, f)
}

func (m *repoMock) ReconcileExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.reconcileFn == nil {
		return 0, nil
	}
	return m.reconcileFn(ctx, now)
}

func day(d int) time.Time {
	return time.Date(2024, 11, d, 0, 0, 0, 0, time.UTC)
}

func rented(id int64, cycles ...model.RentalCycle) model.RentalRecord {
	return model.RentalRecord{ID: id, Status: model.RentalRented, Cycles: cycles}
}

func returned(id int64, cycles ...model.RentalCycle) model.RentalRecord {
	return model.RentalRecord{ID: id, Status: model.RentalReturned, Cycles: cycles}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("02/11/24")
	require.NoError(t, err)
	require.Equal(t, day(2), d)

	d, err = ParseDate("02/11/2024")
	require.NoError(t, err)
	require.Equal(t, day(2), d)

	for _, bad := range []string{"2024-11-02", "02/11", "aa/bb/cc", "31/02/24", "99/01/24"} {
		_, err := ParseDate(bad)
		require.Error(t, err, bad)
	}
}

func TestFindByDateRange_Window(t *testing.T) {
	var got transactionrepo.Filter
	m := &repoMock{findFn: func(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error) {
		got = f
		return []model.RentalRecord{rented(1)}, nil
	}}
	svc := New(m)

	_, err := svc.FindByDateRange(context.Background(), RangeQuery{
		FirstDate:  "01/11/24",
		SecondDate: "10/11/24",
	})
	require.NoError(t, err)
	require.Equal(t, day(1), *got.IssuedFrom)
	// Inclusive of the whole second day.
	require.True(t, got.IssuedTo.After(day(10)))
	require.True(t, got.IssuedTo.Before(day(11)))
}

func TestFindByDateRange_InvertedRange(t *testing.T) {
	svc := New(&repoMock{})

	_, err := svc.FindByDateRange(context.Background(), RangeQuery{
		FirstDate:  "10/11/24",
		SecondDate: "01/11/24",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestFindByDateRange_BadDate(t *testing.T) {
	svc := New(&repoMock{})

	_, err := svc.FindByDateRange(context.Background(), RangeQuery{FirstDate: "2024-11-01"})
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestFindByDateRange_Empty_NotFound(t *testing.T) {
	m := &repoMock{findFn: func(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error) {
		return nil, nil
	}}
	svc := New(m)

	_, err := svc.FindByDateRange(context.Background(), RangeQuery{FirstDate: "01/11/24"})
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestFindByDateRange_NamedRanges(t *testing.T) {
	var got transactionrepo.Filter
	m := &repoMock{findFn: func(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error) {
		got = f
		return []model.RentalRecord{rented(1)}, nil
	}}
	now := time.Date(2024, 11, 10, 15, 30, 0, 0, time.UTC)
	svc := &service{r: m, now: func() time.Time { return now }}

	_, err := svc.FindByDateRange(context.Background(), RangeQuery{RangeType: "today"})
	require.NoError(t, err)
	require.Equal(t, day(10), *got.IssuedFrom)
	require.Equal(t, now, *got.IssuedTo)

	_, err = svc.FindByDateRange(context.Background(), RangeQuery{RangeType: "last-7-days"})
	require.NoError(t, err)
	require.Equal(t, now.AddDate(0, 0, -7), *got.IssuedFrom)

	_, err = svc.FindByDateRange(context.Background(), RangeQuery{RangeType: "last-year"})
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestUserBooks_PartitionAndRollup(t *testing.T) {
	recs := []model.RentalRecord{
		// Still out on its first cycle: current holder only.
		rented(1, model.RentalCycle{IssueDate: day(1), ReturnDate: day(6), RentAmount: 250}),
		// Returned once: past user only.
		returned(2, model.RentalCycle{IssueDate: day(2), ReturnDate: day(4), RentAmount: 100}),
		// Re-rented after a return: counted in both partitions.
		rented(3,
			model.RentalCycle{IssueDate: day(1), ReturnDate: day(3), RentAmount: 40},
			model.RentalCycle{IssueDate: day(5), ReturnDate: day(8), RentAmount: 60},
		),
	}
	m := &repoMock{findFn: func(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error) {
		return recs, nil
	}}
	now := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)
	svc := &service{r: m, now: func() time.Time { return now }}

	rep, err := svc.UserBooks(context.Background(), HolderFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, rep.TotalPastUsers)
	require.Equal(t, 2, rep.TotalCurrentUsers)
	require.Len(t, rep.Transactions, 3)
	require.Equal(t, 250.0+100+40+60, rep.TotalRent)
}

func TestUserBooks_LapsedRentalReportsReturned(t *testing.T) {
	// Stored status is still rented, but the only cycle elapsed days ago and
	// no write has reconciled it yet.
	m := &repoMock{findFn: func(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error) {
		return []model.RentalRecord{
			rented(1, model.RentalCycle{IssueDate: day(1), ReturnDate: day(5), RentAmount: 100}),
		}, nil
	}}
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)
	svc := &service{r: m, now: func() time.Time { return now }}

	rep, err := svc.UserBooks(context.Background(), HolderFilter{})
	require.NoError(t, err)
	require.Empty(t, rep.CurrentHolders)
	require.Len(t, rep.PastUsers, 1)
	require.Equal(t, model.RentalReturned, rep.Transactions[0].Status)
}

func TestFindByDateRange_LapsedRentalReportsReturned(t *testing.T) {
	m := &repoMock{findFn: func(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error) {
		return []model.RentalRecord{
			rented(1, model.RentalCycle{IssueDate: day(1), ReturnDate: day(5), RentAmount: 100}),
			rented(2, model.RentalCycle{IssueDate: day(8), ReturnDate: day(15), RentAmount: 70}),
		}, nil
	}}
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)
	svc := &service{r: m, now: func() time.Time { return now }}

	recs, err := svc.FindByDateRange(context.Background(), RangeQuery{FirstDate: "01/11/24"})
	require.NoError(t, err)
	require.Equal(t, model.RentalReturned, recs[0].Status)
	require.Equal(t, model.RentalRented, recs[1].Status)
}

func TestUserBooks_StatusFilterReconcilesFirst(t *testing.T) {
	var reconciled bool
	var order []string
	m := &repoMock{
		findFn: func(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error) {
			order = append(order, "find")
			require.NotNil(t, f.Status)
			return nil, nil
		},
		reconcileFn: func(ctx context.Context, now time.Time) (int64, error) {
			reconciled = true
			order = append(order, "reconcile")
			return 1, nil
		},
	}
	svc := New(m)

	status := model.RentalRented
	_, err := svc.UserBooks(context.Background(), HolderFilter{Rented: &status})
	require.NoError(t, err)
	require.True(t, reconciled)
	require.Equal(t, []string{"reconcile", "find"}, order)
}

func TestTotalRentByBook_SumsEveryCycle(t *testing.T) {
	m := &repoMock{findFn: func(ctx context.Context, f transactionrepo.Filter) ([]model.RentalRecord, error) {
		require.Equal(t, int64(9), *f.BookID)
		return []model.RentalRecord{
			rented(1, model.RentalCycle{RentAmount: 250}),
			returned(2, model.RentalCycle{RentAmount: 100}, model.RentalCycle{RentAmount: 60}),
		}, nil
	}}
	svc := New(m)

	total, err := svc.TotalRentByBook(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, 410.0, total)
}
