package router

import (
	"log/slog"
	"net/http"
	"time"

	apphttp "revenue_engine_backend/internal/http"
	"revenue_engine_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New builds the gin engine, installs shared middleware and mounts every module under /api.
func New(app *apphttp.App) *gin.Engine {
	if !app.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	api := engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		httpkit.OK(c, gin.H{"status": "ok"})
	})
	api.GET("/ready", readiness(app))

	rc := &apphttp.RouterContext{Engine: engine, API: api}
	for _, m := range app.Modules {
		m.RegisterRoutes(rc)
		app.Logger.Debug("module registered", slog.String("module", m.Name()))
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.GetCORSOrigins()
	}
	return c
}

func readiness(app *apphttp.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := make(map[string]string, len(app.Health))
		status := http.StatusOK
		for _, h := range app.Health {
			if err := h.Check(c.Request.Context()); err != nil {
				checks[h.Name()] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[h.Name()] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "unavailable"
		}
		httpkit.JSON(c, status, gin.H{"status": state, "checks": checks})
	}
}
