package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/geocoder89/billed/internal/containers"
	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/notifications"
	"github.com/geocoder89/billed/internal/router"
	"github.com/geocoder89/billed/internal/store"
	"github.com/geocoder89/billed/internal/views"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	store    store.Store
	log      *slog.Logger
	notifier notifications.Notifier
}

// notifier may be nil.
func NewDashboardHandler(st store.Store, log *slog.Logger, notifier notifications.Notifier) *DashboardHandler {
	return &DashboardHandler{store: st, log: log, notifier: notifier}
}

// Show renders every bill grouped by status. ?bill=<id> opens one for review.
func (h *DashboardHandler) Show(ctx *gin.Context) {
	c := containers.NewDashboard(h.store, nil, h.log)

	rows, err := c.GetBills(ctx.Request.Context())
	if err != nil {
		RespondStoreError(ctx, err)
		return
	}

	page := views.DashboardPage{
		Layout:   layoutFor(ctx, router.PathDashboard),
		Sections: views.GroupByStatus(rows),
	}

	if id := ctx.Query("bill"); id != "" {
		for i := range rows {
			if rows[i].ID == id {
				page.Selected = &rows[i]
				break
			}
		}
	}

	RespondPage(ctx, http.StatusOK, func(w io.Writer) error {
		return views.DashboardUI(w, page)
	})
}

func (h *DashboardHandler) Review(ctx *gin.Context) {
	var req bill.ReviewRequest

	if fieldErrs, ok := BindForm(ctx, &req); !ok {
		msg := fieldErrs["status"]
		if msg == "" {
			msg = fieldErrs["commentAdmin"]
		}
		RespondPage(ctx, http.StatusUnprocessableEntity, func(w io.Writer) error {
			return views.ErrorPage(w, msg)
		})
		return
	}

	var nav router.Recorder
	c := containers.NewDashboard(h.store, nav.Navigate, h.log)
	if h.notifier != nil {
		c.WithNotifier(h.notifier)
	}

	if err := c.HandleReview(ctx.Request.Context(), ctx.Param("id"), req); err != nil {
		h.log.WarnContext(ctx.Request.Context(), "bill_review_failed",
			"request_id", requestIDFrom(ctx),
			"bill_id", ctx.Param("id"),
			"err", err,
		)
		RespondStoreError(ctx, err)
		return
	}

	redirect(ctx, nav.Path)
}
