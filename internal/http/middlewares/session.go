package middlewares

import (
	"net/http"

	"github.com/geocoder89/billed/internal/actorctx"
	"github.com/geocoder89/billed/internal/auth"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/router"
	"github.com/gin-gonic/gin"
)

const SessionCookie = "billed_session"

// Keep this small interface so tests can fake it easily.
type SessionVerifier interface {
	VerifySessionToken(token string) (*auth.Claims, error)
}

type SessionMiddleware struct {
	jwt SessionVerifier
}

func NewSessionMiddleware(jwt SessionVerifier) *SessionMiddleware {
	return &SessionMiddleware{jwt: jwt}
}

// LoadSession attaches the cookie session, if any, to the gin and request
// contexts. It never aborts.
func (m *SessionMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		claims, err := m.jwt.VerifySessionToken(raw)
		if err != nil {
			c.Next()
			return
		}

		s := claims.Session()
		c.Set(CtxSession, s)
		c.Request = c.Request.WithContext(actorctx.WithSession(c.Request.Context(), s))

		c.Next()
	}
}

// RequirePage resolves the requested page for the session user and
// redirects when the router picks another one.
func (m *SessionMiddleware) RequirePage(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, _ := SessionFromContext(c)

		r := router.Resolve(path, s)
		if r.Path != path {
			c.Redirect(http.StatusSeeOther, r.Path)
			c.Abort()
			return
		}

		c.Next()
	}
}

func SessionFromContext(c *gin.Context) (user.Session, bool) {
	v, ok := c.Get(CtxSession)
	if !ok {
		return user.Session{}, false
	}
	s, ok := v.(user.Session)
	return s, ok
}
