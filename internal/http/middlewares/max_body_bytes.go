package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps the request body for form posts. A form that crosses the
// cap fails to bind with *http.MaxBytesError, which the form handlers show as
// a form level error. Bodies declared larger than the cap on anything but a
// form are refused up front.
func MaxBodyBytes(max int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > max && !isFormPost(ctx) {
			ctx.String(http.StatusRequestEntityTooLarge, "Erreur %d", http.StatusRequestEntityTooLarge)
			ctx.Abort()
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, max)
		ctx.Set(CtxBodyLimit, max)

		ctx.Next()
	}
}

func isFormPost(ctx *gin.Context) bool {
	switch ctx.ContentType() {
	case gin.MIMEMultipartPOSTForm, gin.MIMEPOSTForm:
		return true
	}
	return false
}
