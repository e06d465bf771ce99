package router

import (
	"github.com/gin-gonic/gin"

	"medbill/internal/handler"
	"medbill/internal/middleware"
	"medbill/internal/service"
)

// Setup configures the Gin engine with all routes and middleware. A nil
// authSvc leaves the extraction endpoints open.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	extractH *handler.ExtractionHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/", extractH.Home)
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	var guards []gin.HandlerFunc
	if authSvc != nil {
		guards = append(guards, middleware.AuthMiddleware(authSvc))
	}

	// Unversioned route kept for existing clients.
	root := r.Group("", guards...)
	root.POST("/extract-bill-data", extractH.Extract)

	v1 := r.Group("/api/v1", guards...)
	v1.POST("/extract-bill-data", extractH.Extract)
	v1.POST("/extract-bill-data/xlsx", extractH.ExportXLSX)

	return r
}
