package containers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/geocoder89/billed/internal/actorctx"
	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/router"
	"github.com/geocoder89/billed/internal/store"
)

// Upload is the receipt picked in the file input.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewBill holds the state of one new bill form: the uploaded receipt and the
// key of the bill record the store opened for it.
type NewBill struct {
	store      store.Store
	onNavigate router.Navigator
	log        *slog.Logger

	fileURL  string
	fileName string
	billID   string
}

func NewNewBill(st store.Store, onNavigate router.Navigator, log *slog.Logger) *NewBill {
	if log == nil {
		log = slog.Default()
	}
	return &NewBill{store: st, onNavigate: onNavigate, log: log}
}

func (n *NewBill) FileURL() string  { return n.fileURL }
func (n *NewBill) FileName() string { return n.fileName }
func (n *NewBill) BillID() string   { return n.billID }

// HandleChangeFile checks the receipt extension and uploads it. A rejected
// file touches nothing.
func (n *NewBill) HandleChangeFile(ctx context.Context, f Upload) error {
	if err := bill.ValidateReceiptName(f.Name); err != nil {
		return err
	}

	if n.store == nil {
		n.fileName = f.Name
		return nil
	}

	s, ok := actorctx.SessionFrom(ctx)
	if !ok {
		return store.NewError(http.StatusUnauthorized, ErrNoSession)
	}

	res, err := n.store.Create(ctx, store.CreateRequest{
		Email:       s.Email,
		FileName:    f.Name,
		ContentType: f.ContentType,
		Data:        f.Data,
	})
	if err != nil {
		return err
	}

	n.fileURL = res.FileURL
	n.billID = res.Key
	n.fileName = res.FileName
	if n.fileName == "" {
		n.fileName = f.Name
	}

	n.log.InfoContext(ctx, "receipt_uploaded",
		"bill_id", n.billID,
		"file_name", n.fileName,
	)

	return nil
}

// HandleSubmit completes the bill opened by HandleChangeFile and goes back to
// the bills list.
func (n *NewBill) HandleSubmit(ctx context.Context, req bill.SubmitBillRequest) error {
	s, _ := actorctx.SessionFrom(ctx)

	b := n.assemble(s.Email, req)

	if n.store != nil {
		if n.billID == "" {
			return bill.ErrNoReceipt
		}

		if _, err := n.store.Update(ctx, n.billID, b); err != nil {
			return err
		}
	}

	n.onNavigate(router.PathBills)
	return nil
}

func (n *NewBill) assemble(email string, req bill.SubmitBillRequest) bill.Bill {
	pct := req.Pct
	if pct == 0 {
		pct = bill.DefaultPct
	}

	return bill.Bill{
		ID:         n.billID,
		Email:      email,
		Type:       req.Type,
		Name:       req.Name,
		Amount:     req.Amount,
		Date:       req.Date,
		VAT:        req.VAT,
		Pct:        pct,
		Commentary: req.Commentary,
		FileURL:    n.fileURL,
		FileName:   n.fileName,
		Status:     bill.StatusPending,
	}
}
