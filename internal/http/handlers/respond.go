package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/geocoder89/billed/internal/http/middlewares"
	"github.com/geocoder89/billed/internal/store"
	"github.com/geocoder89/billed/internal/views"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondUnavailable(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusServiceUnavailable, "unavailable", message, details)
}

// RespondPage renders a page into a buffer first so a template failure still
// yields a clean 500.
func RespondPage(ctx *gin.Context, status int, render func(w io.Writer) error) {
	var buf bytes.Buffer

	if err := render(&buf); err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "render_failed",
			"path", ctx.Request.URL.Path,
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
		ctx.String(http.StatusInternalServerError, "Erreur %d", http.StatusInternalServerError)
		return
	}

	ctx.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// RespondStoreError shows the error page with the store message, e.g. "Erreur 404".
func RespondStoreError(ctx *gin.Context, err error) {
	err = store.AsError(err)

	RespondPage(ctx, store.StatusOf(err), func(w io.Writer) error {
		return views.ErrorPage(w, err.Error())
	})
}

func redirect(ctx *gin.Context, path string) {
	ctx.Redirect(http.StatusSeeOther, path)
}
