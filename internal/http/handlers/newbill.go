package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/geocoder89/billed/internal/containers"
	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/observability"
	"github.com/geocoder89/billed/internal/router"
	"github.com/geocoder89/billed/internal/store"
	"github.com/geocoder89/billed/internal/views"
	"github.com/gin-gonic/gin"
)

type NewBillHandler struct {
	store          store.Store
	log            *slog.Logger
	prom           *observability.Prom
	maxUploadBytes int64
}

func NewNewBillHandler(st store.Store, log *slog.Logger, prom *observability.Prom, maxUploadBytes int64) *NewBillHandler {
	return &NewBillHandler{store: st, log: log, prom: prom, maxUploadBytes: maxUploadBytes}
}

func (h *NewBillHandler) Form(ctx *gin.Context) {
	RespondPage(ctx, http.StatusOK, func(w io.Writer) error {
		return views.NewBillUI(w, views.NewBillPage{Layout: layoutFor(ctx, router.PathNewBill)})
	})
}

// Submit handles the new bill form: fields are validated first, then the
// receipt goes through HandleChangeFile (one create) and the fields through
// HandleSubmit (one update).
func (h *NewBillHandler) Submit(ctx *gin.Context) {
	var req bill.SubmitBillRequest

	page := views.NewBillPage{Layout: layoutFor(ctx, router.PathNewBill)}

	fieldErrs, ok := BindForm(ctx, &req)
	page.Values = formValues(ctx)
	if !ok {
		page.Errors = fieldErrs
		page.Error = fieldErrs["form"]
		h.renderForm(ctx, http.StatusUnprocessableEntity, page)
		return
	}

	upload, err := h.readUpload(ctx)
	if err != nil {
		page.Errors = map[string]string{"file": uploadMessage(err, h.maxUploadBytes)}
		h.renderForm(ctx, http.StatusUnprocessableEntity, page)
		return
	}

	var nav router.Recorder
	c := containers.NewNewBill(h.store, nav.Navigate, h.log)
	rctx := ctx.Request.Context()

	if err := c.HandleChangeFile(rctx, upload); err != nil {
		if errors.Is(err, bill.ErrInvalidExtension) {
			if h.prom != nil {
				h.prom.ReceiptsRejected.Inc()
			}
			page.FileName = upload.Name
			page.Errors = map[string]string{"file": errExtensionText}
			h.renderForm(ctx, http.StatusUnprocessableEntity, page)
			return
		}

		h.log.ErrorContext(rctx, "receipt_upload_failed", "request_id", requestIDFrom(ctx), "err", err)
		RespondStoreError(ctx, err)
		return
	}

	if err := c.HandleSubmit(rctx, req); err != nil {
		h.log.ErrorContext(rctx, "bill_submit_failed",
			"request_id", requestIDFrom(ctx),
			"bill_id", c.BillID(),
			"err", err,
		)
		RespondStoreError(ctx, err)
		return
	}

	if h.prom != nil {
		h.prom.BillsSubmitted.Inc()
	}

	redirect(ctx, nav.Path)
}

func (h *NewBillHandler) renderForm(ctx *gin.Context, status int, page views.NewBillPage) {
	RespondPage(ctx, status, func(w io.Writer) error {
		return views.NewBillUI(w, page)
	})
}

var (
	errNoFile       = errors.New("receipt file is required")
	errEmptyFile    = errors.New("receipt file is empty")
	errFileTooLarge = errors.New("receipt file is too large")
)

const errExtensionText = "Le justificatif doit être au format jpg, jpeg ou png."

func uploadMessage(err error, max int64) string {
	switch {
	case errors.Is(err, errNoFile):
		return "Un justificatif est requis."
	case errors.Is(err, errEmptyFile):
		return "Le justificatif est vide."
	case errors.Is(err, errFileTooLarge):
		return fmt.Sprintf("Le justificatif dépasse %d octets.", max)
	default:
		return "Le justificatif n'a pas pu être lu."
	}
}

func (h *NewBillHandler) readUpload(ctx *gin.Context) (containers.Upload, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return containers.Upload{}, errNoFile
	}

	if fh.Size == 0 {
		return containers.Upload{}, errEmptyFile
	}

	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return containers.Upload{}, errFileTooLarge
	}

	data, err := readFileHeader(fh)
	if err != nil {
		return containers.Upload{}, err
	}

	return containers.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func formValues(ctx *gin.Context) views.NewBillForm {
	return views.NewBillForm{
		Type:       ctx.PostForm("expense-type"),
		Name:       ctx.PostForm("expense-name"),
		Date:       ctx.PostForm("datepicker"),
		Amount:     ctx.PostForm("amount"),
		VAT:        ctx.PostForm("vat"),
		Pct:        defaultPct(ctx.PostForm("pct")),
		Commentary: ctx.PostForm("commentary"),
	}
}

func defaultPct(v string) string {
	if v == "" {
		return strconv.Itoa(bill.DefaultPct)
	}
	return v
}
