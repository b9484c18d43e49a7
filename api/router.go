package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trustscore/utils"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// Production restricts CORS to AllowedOrigins. Outside production every
	// origin is allowed.
	Production     bool
	AllowedOrigins []string

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the HTTP API around runner.
func NewRouter(runner ReportRunner, opts RouterOptions, logger *utils.Logger) *gin.Engine {
	h := NewHandler(runner, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(instrument())
	r.Use(cors.New(corsConfig(opts)))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	group := r.Group("/api")
	{
		group.GET("/sellers", h.ListSellers)
		group.GET("/dashboard-stats", h.DashboardStats)
		group.GET("/admin/dashboard", h.AdminDashboard)
		group.GET("/seller/dashboard", h.SellerDashboard)
		group.GET("/buyer/:seller_id", h.BuyerView)
	}

	return r
}

func corsConfig(opts RouterOptions) cors.Config {
	cfg := cors.DefaultConfig()
	switch {
	case !opts.Production:
		cfg.AllowAllOrigins = true
	case len(opts.AllowedOrigins) > 0:
		cfg.AllowOrigins = opts.AllowedOrigins
	default:
		// deny all when production has no allowlist
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	cfg.AddAllowHeaders("Authorization")
	cfg.AddExposeHeaders("Content-Length")
	return cfg
}
