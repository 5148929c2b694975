package routes

import (
	"io"
	"time"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"cemetery_api/internal/controllers"
	"cemetery_api/internal/events"
	"cemetery_api/internal/metrics"
	"cemetery_api/internal/middleware"
	"cemetery_api/internal/store"
)

// Deps is everything the router needs. main builds it once at startup.
type Deps struct {
	Stores store.Stores
	Signer *middleware.TokenSigner
	Events events.Publisher
	DB     controllers.Pinger

	// Limiter backs login throttling; nil disables it.
	Limiter         redis.Scripter
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// TrustedProxies lists the peers whose X-Forwarded-For is believed when
	// resolving the client IP. Empty trusts none.
	TrustedProxies []string

	// AccessLog receives one line per request; nil disables it.
	AccessLog io.Writer
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		logrus.WithError(err).Warn("invalid trusted proxies, trusting none")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(middleware.Recovery())
	if d.AccessLog != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(d.AccessLog),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/metrics", "/healthz"}),
		))
	}
	r.Use(middleware.CORS(), metrics.Middleware())
	r.NoRoute(middleware.NotFound)

	r.GET("/healthz", controllers.Health(d.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api", middleware.Authenticate(d.Signer, d.Stores.Tokens))
	AuthRoutes(api, d)
	RecordRoutes(api, d)
	AccountRoutes(api, d)

	return r
}
