// Package notifications tells employees what happened to their bills.
package notifications

import "context"

type BillReviewedInput struct {
	Email        string
	BillID       string
	BillName     string
	Status       string
	CommentAdmin string
}

type Notifier interface {
	SendBillReviewed(ctx context.Context, input BillReviewedInput) error
}
