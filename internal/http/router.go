package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/billed/internal/auth"
	"github.com/geocoder89/billed/internal/config"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/http/handlers"
	"github.com/geocoder89/billed/internal/http/middlewares"
	"github.com/geocoder89/billed/internal/notifications"
	"github.com/geocoder89/billed/internal/observability"
	"github.com/geocoder89/billed/internal/receipts"
	"github.com/geocoder89/billed/internal/router"
	"github.com/geocoder89/billed/internal/store"
	"github.com/geocoder89/billed/internal/views"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "billed-web"

// Deps is everything the page server needs. Prom, Registry, Checks and
// Notifier are optional.
type Deps struct {
	Log         *slog.Logger
	Notifier    notifications.Notifier
	Cfg         config.Config
	Bills       store.Store
	Users       handlers.UserStore
	JWT         *auth.Manager
	Prom        *observability.Prom
	Registry    *prometheus.Registry
	Checks      map[string]handlers.Check
	ReceiptsDir string
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health
	h := handlers.NewHealthHandler(d.Checks)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	r.StaticFS(views.StaticPrefix, views.Assets())

	if d.ReceiptsDir != "" {
		r.Static(receipts.URLPrefix, d.ReceiptsDir)
	}

	sessions := middlewares.NewSessionMiddleware(d.JWT)
	r.Use(sessions.LoadSession())

	// login
	authHandler := handlers.NewAuthHandler(d.Users, d.JWT, d.Cfg, d.Log)
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)

	r.GET(router.PathLogin, authHandler.LoginPage)
	r.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// employee
	billsHandler := handlers.NewBillsHandler(d.Bills, d.Log)
	newBillHandler := handlers.NewNewBillHandler(d.Bills, d.Log, d.Prom, d.Cfg.MaxUploadBytes)
	uploadLimiter := middlewares.NewRateLimiter(30, time.Minute)

	r.GET(router.PathBills, sessions.RequirePage(router.PathBills), billsHandler.List)
	r.GET(router.PathBills+"/new", sessions.RequirePage(router.PathBills), billsHandler.NewBill)
	r.GET(router.PathNewBill, sessions.RequirePage(router.PathNewBill), newBillHandler.Form)
	r.POST(router.PathNewBill,
		sessions.RequireUserType(user.TypeEmployee),
		uploadLimiter.RateLimiterMiddleware(middlewares.KeyBySessionOrIP),
		middlewares.MaxBodyBytes(maxFormBytes(d.Cfg.MaxUploadBytes)),
		newBillHandler.Submit,
	)

	// admin
	dashboardHandler := handlers.NewDashboardHandler(d.Bills, d.Log, d.Notifier)

	r.GET(router.PathDashboard, sessions.RequirePage(router.PathDashboard), dashboardHandler.Show)
	r.POST(router.PathDashboard+"/bills/:id", sessions.RequireUserType(user.TypeAdmin), dashboardHandler.Review)

	return r
}

// maxFormBytes leaves room for the text fields around the receipt.
func maxFormBytes(maxUpload int64) int64 {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return maxUpload + 64<<10
}
