package bill

import (
	"errors"
	"sort"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	default:
		return false
	}
}

type Bill struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"date"`
	VAT          string  `json:"vat"`
	Pct          float64 `json:"pct"`
	Commentary   string  `json:"commentary"`
	FileURL      string  `json:"fileUrl"`
	FileName     string  `json:"fileName"`
	Status       Status  `json:"status"`
	CommentAdmin string  `json:"commentAdmin"`
}

// Empty Email lists every bill (admin view).
type ListFilter struct {
	Email string
}

var (
	ErrNotFound         = errors.New("bill not found")
	ErrInvalidExtension = errors.New("file extension must be jpg, jpeg or png")
	ErrInvalidStatus    = errors.New("invalid bill status")
	ErrNoReceipt        = errors.New("no receipt uploaded")
)

const DefaultPct = 20

// Types offered by the new bill form.
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

// SubmitBillRequest carries the new bill form fields. File fields come from the upload step.
type SubmitBillRequest struct {
	Type       string  `form:"expense-type" binding:"required,max=80"`
	Name       string  `form:"expense-name" binding:"omitempty,max=120"`
	Date       string  `form:"datepicker" binding:"required,datetime=2006-01-02"`
	Amount     float64 `form:"amount" binding:"required,gt=0"`
	VAT        string  `form:"vat" binding:"omitempty,max=20"`
	Pct        float64 `form:"pct" binding:"omitempty,min=0,max=100"`
	Commentary string  `form:"commentary" binding:"omitempty,max=1000"`
}

// ReviewRequest is the admin decision on a pending bill.
type ReviewRequest struct {
	Status       Status `form:"status" binding:"required,oneof=accepted refused"`
	CommentAdmin string `form:"commentAdmin" binding:"omitempty,max=1000"`
}

// SortByDateDesc orders bills most recent first. ISO dates compare lexically.
func SortByDateDesc(bills []Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Date > bills[j].Date
	})
}
