package containers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/notifications"
	"github.com/geocoder89/billed/internal/router"
	"github.com/geocoder89/billed/internal/store"
	"github.com/geocoder89/billed/internal/views"
)

// Dashboard is the admin side: every bill, and the accept/refuse decision.
type Dashboard struct {
	store      store.Store
	onNavigate router.Navigator
	log        *slog.Logger
	notifier   notifications.Notifier
}

func NewDashboard(st store.Store, onNavigate router.Navigator, log *slog.Logger) *Dashboard {
	if log == nil {
		log = slog.Default()
	}
	return &Dashboard{store: st, onNavigate: onNavigate, log: log}
}

// WithNotifier tells the employee about each review. A failed notification
// is logged and does not undo the review.
func (d *Dashboard) WithNotifier(n notifications.Notifier) *Dashboard {
	d.notifier = n
	return d
}

func (d *Dashboard) GetBills(ctx context.Context) ([]views.BillRow, error) {
	if d.store == nil {
		return []views.BillRow{}, nil
	}

	bills, err := d.store.List(ctx, bill.ListFilter{})
	if err != nil {
		return nil, err
	}

	return formatRows(ctx, d.log, bills), nil
}

func (d *Dashboard) HandleAcceptSubmit(ctx context.Context, key, commentAdmin string) error {
	return d.review(ctx, key, bill.ReviewRequest{Status: bill.StatusAccepted, CommentAdmin: commentAdmin})
}

func (d *Dashboard) HandleRefuseSubmit(ctx context.Context, key, commentAdmin string) error {
	return d.review(ctx, key, bill.ReviewRequest{Status: bill.StatusRefused, CommentAdmin: commentAdmin})
}

// HandleReview dispatches a posted review form.
func (d *Dashboard) HandleReview(ctx context.Context, key string, req bill.ReviewRequest) error {
	switch req.Status {
	case bill.StatusAccepted:
		return d.HandleAcceptSubmit(ctx, key, req.CommentAdmin)
	case bill.StatusRefused:
		return d.HandleRefuseSubmit(ctx, key, req.CommentAdmin)
	default:
		return bill.ErrInvalidStatus
	}
}

func (d *Dashboard) review(ctx context.Context, key string, req bill.ReviewRequest) error {
	if d.store == nil {
		d.onNavigate(router.PathDashboard)
		return nil
	}

	bills, err := d.store.List(ctx, bill.ListFilter{})
	if err != nil {
		return err
	}

	var found *bill.Bill
	for i := range bills {
		if bills[i].ID == key {
			found = &bills[i]
			break
		}
	}
	if found == nil {
		return store.NewError(http.StatusNotFound, bill.ErrNotFound)
	}

	updated := *found
	updated.Status = req.Status
	updated.CommentAdmin = req.CommentAdmin

	if _, err := d.store.Update(ctx, key, updated); err != nil {
		return err
	}

	d.log.InfoContext(ctx, "bill_reviewed",
		"bill_id", key,
		"status", req.Status,
	)

	if d.notifier != nil {
		err := d.notifier.SendBillReviewed(ctx, notifications.BillReviewedInput{
			Email:        updated.Email,
			BillID:       key,
			BillName:     updated.Name,
			Status:       bill.FormatStatus(updated.Status),
			CommentAdmin: updated.CommentAdmin,
		})
		if err != nil {
			d.log.WarnContext(ctx, "bill_review_notification_failed", "bill_id", key, "err", err)
		}
	}

	d.onNavigate(router.PathDashboard)
	return nil
}
