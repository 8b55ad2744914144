package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"tractionlab/api/config"
	"tractionlab/api/metrics"
	"tractionlab/api/middleware"
	"tractionlab/api/store"
	"tractionlab/api/web"
)

// NewRouter wires every route of the landing server.
//
//	GET  /                  landing page ("main")
//	GET  /guide             guide page ("guide")
//	GET  /survey            survey form ("survey")
//	POST /survey            store a survey response
//	GET  /admin             aggregated report
//	POST /api/interest      increment the interest counter
//	POST /api/early-access  capture a lead
//	GET  /api/metrics       per-page views and clicks
//	GET  /healthz           liveness
//
// m may be nil, in which case no request metrics are recorded and no scrape
// endpoint is mounted.
func NewRouter(cfg *config.Config, stores *store.Stores, m *metrics.Metrics, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}
	r.SetHTMLTemplate(web.Templates())

	pages := NewPageHandlers(stores.Registrar, stores.LeadStore, stores.Surveys)
	admin := NewAdminHandlers(stores.Analytics)
	track := NewTrackHandlers(stores.LeadStore, stores.Analytics)

	r.GET("/", pages.Index)
	r.GET("/guide", pages.Guide)
	r.GET("/survey", pages.Survey)
	r.POST("/survey", pages.Survey)
	r.GET("/admin", admin.Report)
	r.GET("/healthz", HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigin))
	{
		api.POST("/interest", track.Interest)
		api.POST("/early-access", track.EarlyAccess)
		api.GET("/metrics", track.Metrics)
		// Preflight requests are answered by the CORS middleware.
		api.OPTIONS("/*path", func(c *gin.Context) {})
	}

	if m != nil && cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}
	return r
}
