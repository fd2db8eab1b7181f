package containers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/geocoder89/billed/internal/actorctx"
	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/fixtures"
	"github.com/geocoder89/billed/internal/router"
	"github.com/geocoder89/billed/internal/store"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func employeeCtx() context.Context {
	return actorctx.WithSession(context.Background(), user.Session{Type: user.TypeEmployee, Email: fixtures.Email})
}

func TestGetBillsSortsAndFormats(t *testing.T) {
	fs := &fakeStore{
		listFn: func(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error) {
			require.Equal(t, fixtures.Email, filter.Email)
			return fixtures.Bills(), nil
		},
	}

	rows, err := NewBills(fs, (&router.Recorder{}).Navigate, discardLogger()).GetBills(employeeCtx())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	var dates []string
	for _, r := range rows {
		dates = append(dates, r.DisplayDate)
	}
	require.Equal(t, []string{"4 Avr. 04", "3 Mar. 03", "2 Fév. 02", "1 Jan. 01"}, dates)
	require.Equal(t, "2004-04-04", rows[0].Date)
	require.Equal(t, "En attente", rows[0].DisplayStatus)
	require.Equal(t, "Accepté", rows[1].DisplayStatus)
}

func TestGetBillsKeepsRawDateOnCorruptedRecord(t *testing.T) {
	fs := &fakeStore{
		listFn: func(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error) {
			return []bill.Bill{
				{ID: "ok", Date: "2002-02-02", Status: bill.StatusPending},
				{ID: "bad", Date: "not-a-date", Status: bill.StatusRefused},
			}, nil
		},
	}

	rows, err := NewBills(fs, nil, discardLogger()).GetBills(employeeCtx())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[string]string{}
	for _, r := range rows {
		byID[r.ID] = r.DisplayDate
	}
	require.Equal(t, "not-a-date", byID["bad"])
	require.Equal(t, "2 Fév. 02", byID["ok"])
}

func TestGetBillsDoesNotReorderStoreSlice(t *testing.T) {
	shared := fixtures.Bills()
	fs := &fakeStore{
		listFn: func(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error) {
			return shared, nil
		},
	}

	_, err := NewBills(fs, nil, discardLogger()).GetBills(employeeCtx())
	require.NoError(t, err)
	require.Equal(t, "2004-04-04", shared[0].Date)
	require.Equal(t, "2001-01-01", shared[1].Date)
}

func TestGetBillsPropagatesStoreErrors(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		fs := &fakeStore{
			listFn: func(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error) {
				return nil, store.NewError(status, nil)
			},
		}

		_, err := NewBills(fs, nil, discardLogger()).GetBills(employeeCtx())
		require.Error(t, err)
		require.Equal(t, store.NewError(status, nil).Error(), err.Error())
	}
}

func TestGetBillsNilStore(t *testing.T) {
	rows, err := NewBills(nil, nil, nil).GetBills(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestGetBillsWithoutSession(t *testing.T) {
	_, err := NewBills(&fakeStore{}, nil, discardLogger()).GetBills(context.Background())
	require.Equal(t, http.StatusUnauthorized, store.StatusOf(err))
}

func TestHandleClickNewBillNavigates(t *testing.T) {
	rec := &router.Recorder{}

	NewBills(nil, rec.Navigate, nil).HandleClickNewBill()

	require.Equal(t, router.PathNewBill, rec.Path)
	require.Equal(t, 1, rec.Calls)
}

func TestHandleClickIconEye(t *testing.T) {
	m := NewBills(nil, nil, nil).HandleClickIconEye("/receipts/1592770761.jpeg")

	require.Equal(t, "/receipts/1592770761.jpeg", m.FileURL)
	require.Equal(t, ModalWidth, m.Width)
}
