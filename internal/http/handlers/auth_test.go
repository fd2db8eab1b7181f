package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/billed/internal/auth"
	"github.com/geocoder89/billed/internal/config"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/http/handlers"
	"github.com/geocoder89/billed/internal/http/middlewares"
	"github.com/geocoder89/billed/internal/router"
	"github.com/geocoder89/billed/internal/security"
	"github.com/geocoder89/billed/internal/store/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newAuthEngine(t *testing.T) (*gin.Engine, *memory.Store, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := memory.New(nil)
	jwt := auth.NewManager("test-secret-key", time.Hour)
	h := handlers.NewAuthHandler(users, jwt, config.Config{Env: "test"}, testLogger())

	r := gin.New()
	r.GET(router.PathLogin, h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	return r, users, jwt
}

func postLogin(r http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			return c
		}
	}
	t.Fatalf("session cookie not found")
	return nil
}

func TestLogin_FirstEmployeeLoginRegisters(t *testing.T) {
	r, users, jwt := newAuthEngine(t)

	w := postLogin(r, url.Values{"type": {"Employee"}, "email": {"Employee@Test.tld"}, "password": {"employee"}})

	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Equal(t, router.PathBills, w.Header().Get("Location"))

	c := sessionCookie(t, w)
	require.True(t, c.HttpOnly)

	claims, err := jwt.VerifySessionToken(c.Value)
	require.NoError(t, err)
	require.Equal(t, user.Session{Type: user.TypeEmployee, Email: "employee@test.tld"}, claims.Session())

	u, err := users.GetUserByEmail(context.Background(), "employee@test.tld")
	require.NoError(t, err)
	require.NoError(t, security.CheckPassword(u.PasswordHash, "employee"))
}

func TestLogin_WrongPassword(t *testing.T) {
	r, users, _ := newAuthEngine(t)

	hash, err := security.HashPassword("right")
	require.NoError(t, err)
	_, err = users.CreateUser(context.Background(), user.User{Type: user.TypeEmployee, Email: "a@a.tld", PasswordHash: hash})
	require.NoError(t, err)

	w := postLogin(r, url.Values{"type": {"Employee"}, "email": {"a@a.tld"}, "password": {"wrong"}})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), `data-testid="login-error"`)
	require.Empty(t, w.Result().Cookies())
}

func TestLogin_UnknownAdminIsRejected(t *testing.T) {
	r, _, _ := newAuthEngine(t)

	w := postLogin(r, url.Values{"type": {"Admin"}, "email": {"boss@test.tld"}, "password": {"admin"}})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_AdminLandsOnDashboard(t *testing.T) {
	r, users, _ := newAuthEngine(t)

	hash, err := security.HashPassword("admin")
	require.NoError(t, err)
	_, err = users.CreateUser(context.Background(), user.User{Type: user.TypeAdmin, Email: "admin@test.tld", PasswordHash: hash})
	require.NoError(t, err)

	w := postLogin(r, url.Values{"type": {"Admin"}, "email": {"admin@test.tld"}, "password": {"admin"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, router.PathDashboard, w.Header().Get("Location"))

	// the employee form does not open an admin account
	w = postLogin(r, url.Values{"type": {"Employee"}, "email": {"admin@test.tld"}, "password": {"admin"}})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	r, _, _ := newAuthEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, router.PathLogin, w.Header().Get("Location"))
	c := sessionCookie(t, w)
	require.Empty(t, c.Value)
	require.Less(t, c.MaxAge, 0)
}
