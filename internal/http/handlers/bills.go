package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/geocoder89/billed/internal/containers"
	"github.com/geocoder89/billed/internal/http/middlewares"
	"github.com/geocoder89/billed/internal/router"
	"github.com/geocoder89/billed/internal/store"
	"github.com/geocoder89/billed/internal/views"
	"github.com/gin-gonic/gin"
)

type BillsHandler struct {
	store store.Store
	log   *slog.Logger
}

func NewBillsHandler(st store.Store, log *slog.Logger) *BillsHandler {
	return &BillsHandler{store: st, log: log}
}

// List renders the employee's bills. ?receipt=<id> opens the receipt modal.
func (h *BillsHandler) List(ctx *gin.Context) {
	var nav router.Recorder
	c := containers.NewBills(h.store, nav.Navigate, h.log)

	rows, err := c.GetBills(ctx.Request.Context())
	if err != nil {
		h.log.WarnContext(ctx.Request.Context(), "bills_list_failed",
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
		err = store.AsError(err)
		RespondPage(ctx, store.StatusOf(err), func(w io.Writer) error {
			return views.BillsUI(w, views.BillsPage{Error: err.Error()})
		})
		return
	}

	page := views.BillsPage{Layout: layoutFor(ctx, router.PathBills), Data: rows}

	if id := ctx.Query("receipt"); id != "" {
		for _, r := range rows {
			if r.ID == id {
				m := c.HandleClickIconEye(r.FileURL)
				m.FileName = r.FileName
				page.Modal = &m
				break
			}
		}
	}

	RespondPage(ctx, http.StatusOK, func(w io.Writer) error {
		return views.BillsUI(w, page)
	})
}

// NewBill is the "Nouvelle note de frais" button.
func (h *BillsHandler) NewBill(ctx *gin.Context) {
	var nav router.Recorder

	containers.NewBills(h.store, nav.Navigate, h.log).HandleClickNewBill()

	redirect(ctx, nav.Path)
}

func layoutFor(ctx *gin.Context, path string) views.Layout {
	r, _ := router.Lookup(path)
	s, _ := middlewares.SessionFromContext(ctx)

	return views.LayoutFor(r, s.Email)
}
