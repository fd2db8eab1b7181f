package notifications

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the log instead of a mail provider.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendBillReviewed(ctx context.Context, in BillReviewedInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.log.InfoContext(ctx, "notification.bill_reviewed",
		"email", in.Email,
		"bill_id", in.BillID,
		"bill_name", in.BillName,
		"status", in.Status,
		"comment_admin", in.CommentAdmin,
	)
	return nil
}
