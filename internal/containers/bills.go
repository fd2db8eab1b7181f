// Package containers mediates between page handlers and the bill store:
// fetch, validate, format, then navigate.
package containers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/billed/internal/actorctx"
	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/router"
	"github.com/geocoder89/billed/internal/store"
	"github.com/geocoder89/billed/internal/views"
)

// ModalWidth is the receipt image width in the preview modal.
const ModalWidth = 400

var ErrNoSession = errors.New("no user session")

type Bills struct {
	store      store.Store
	onNavigate router.Navigator
	log        *slog.Logger
}

// NewBills accepts a nil store; GetBills then returns no bills.
func NewBills(st store.Store, onNavigate router.Navigator, log *slog.Logger) *Bills {
	if log == nil {
		log = slog.Default()
	}
	return &Bills{store: st, onNavigate: onNavigate, log: log}
}

func (b *Bills) HandleClickNewBill() {
	b.onNavigate(router.PathNewBill)
}

func (b *Bills) HandleClickIconEye(billURL string) views.Modal {
	return views.Modal{FileURL: billURL, Width: ModalWidth}
}

// GetBills lists the session user's bills, most recent first, formatted for
// display. A bill whose date cannot be formatted keeps its raw date.
func (b *Bills) GetBills(ctx context.Context) ([]views.BillRow, error) {
	if b.store == nil {
		return []views.BillRow{}, nil
	}

	s, ok := actorctx.SessionFrom(ctx)
	if !ok {
		return nil, store.NewError(http.StatusUnauthorized, ErrNoSession)
	}

	bills, err := b.store.List(ctx, bill.ListFilter{Email: s.Email})
	if err != nil {
		return nil, err
	}

	return formatRows(ctx, b.log, bills), nil
}

func formatRows(ctx context.Context, log *slog.Logger, in []bill.Bill) []views.BillRow {
	// the store may hand back a cached slice
	bills := make([]bill.Bill, len(in))
	copy(bills, in)
	bill.SortByDateDesc(bills)

	rows := make([]views.BillRow, 0, len(bills))
	for _, bl := range bills {
		row := views.BillRow{Bill: bl, DisplayStatus: bill.FormatStatus(bl.Status)}

		display, err := bill.FormatDate(bl.Date)
		if err != nil {
			log.WarnContext(ctx, "bill_date_unformatted",
				"bill_id", bl.ID,
				"date", bl.Date,
				"err", err,
			)
			display = bl.Date
		}
		row.DisplayDate = display

		rows = append(rows, row)
	}

	return rows
}
