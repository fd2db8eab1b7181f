package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/billed/internal/actorctx"
	"github.com/geocoder89/billed/internal/auth"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/router"
	"github.com/gin-gonic/gin"
)

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f fakeVerifier) VerifySessionToken(token string) (*auth.Claims, error) {
	return f.verifyFn(token)
}

func employeeVerifier() fakeVerifier {
	return fakeVerifier{verifyFn: func(token string) (*auth.Claims, error) {
		if token != "good" {
			return nil, errors.New("bad token")
		}
		return &auth.Claims{Email: "a@a", UserType: user.TypeEmployee, TokenType: "session"}, nil
	}}
}

func newEngine(m *SessionMiddleware, path string, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.LoadSession())

	handlers := append(extra, func(c *gin.Context) {
		s, _ := actorctx.SessionFrom(c.Request.Context())
		c.String(http.StatusOK, s.Email)
	})
	r.GET(path, handlers...)
	r.POST(path, handlers...)
	return r
}

func TestLoadSessionAttachesActor(t *testing.T) {
	m := NewSessionMiddleware(employeeVerifier())
	r := newEngine(m, "/x")

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "a@a" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestRequirePageRedirects(t *testing.T) {
	m := NewSessionMiddleware(employeeVerifier())

	tests := []struct {
		name   string
		path   string
		cookie string
		want   int
		loc    string
	}{
		{"anonymous to login", router.PathBills, "", http.StatusSeeOther, router.PathLogin},
		{"bad cookie to login", router.PathBills, "forged", http.StatusSeeOther, router.PathLogin},
		{"employee on bills", router.PathBills, "good", http.StatusOK, ""},
		{"employee off dashboard", router.PathDashboard, "good", http.StatusSeeOther, router.PathBills},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(m, tt.path, m.RequirePage(tt.path))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("got status %d, want %d", w.Code, tt.want)
			}
			if tt.loc != "" && w.Header().Get("Location") != tt.loc {
				t.Fatalf("got location %q, want %q", w.Header().Get("Location"), tt.loc)
			}
		})
	}
}

func TestRequireUserType(t *testing.T) {
	m := NewSessionMiddleware(employeeVerifier())
	r := newEngine(m, "/admin", m.RequireUserType(user.TypeAdmin))

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("employee: got %d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(2, time.Minute)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(KeyByIP), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		r.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
	if last.Body.String() != "Erreur 429" {
		t.Fatalf("unexpected body %q", last.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employee/bills", nil))
	if w.Header().Get("Content-Security-Policy") != pageCSP {
		t.Fatalf("unexpected page csp %q", w.Header().Get("Content-Security-Policy"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/receipts/a.png", nil))
	if w.Header().Get("Content-Security-Policy") != receiptCSP {
		t.Fatalf("unexpected receipt csp %q", w.Header().Get("Content-Security-Policy"))
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatal("expected X-Frame-Options")
	}
}

func TestMaxBodyBytes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/up", MaxBodyBytes(4), func(c *gin.Context) {
		if c.GetInt64(CtxBodyLimit) != 4 {
			t.Errorf("limit not recorded")
		}
		if _, err := c.GetRawData(); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	// declared oversize non-form body: refused before the handler
	req := httptest.NewRequest(http.MethodPost, "/up", strings.NewReader("0123456789"))
	req.Header.Set("Content-Type", "application/octet-stream")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge || w.Body.String() != "Erreur 413" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}

	// oversize form: reaches the handler, which sees the read fail
	req = httptest.NewRequest(http.MethodPost, "/up", strings.NewReader("a=0123456789"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/up", strings.NewReader("ok"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
}
