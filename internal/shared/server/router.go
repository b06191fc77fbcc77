package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workforce-backend/internal/detection"
	"workforce-backend/internal/shared/config"
	"workforce-backend/internal/shared/metrics"
	"workforce-backend/internal/shared/server/middleware"
	"workforce-backend/internal/shared/server/respond"
	"workforce-backend/internal/workforce"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config           config.Config
	DetectionHandler *detection.Handler
	WorkforceHandler *workforce.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.DetectionHandler != nil {
		deps.DetectionHandler.RegisterRoutes(api)
	}
	if deps.Config.Env == "dev" && deps.WorkforceHandler != nil {
		dev := api.Group("/dev")
		deps.WorkforceHandler.RegisterDevRoutes(dev)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
