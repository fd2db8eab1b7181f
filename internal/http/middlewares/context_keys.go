package middlewares

const (
	CtxRequestID = "request_id"
	CtxSession   = "auth.session"
	CtxBodyLimit = "body.limit"
)
