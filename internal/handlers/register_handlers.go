package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/corebooks/corebooks/cmd/docs"
	"github.com/corebooks/corebooks/internal/core/services"
	"github.com/corebooks/corebooks/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting service
// dependencies through the container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svcs *services.Container) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	setupAPIV1Routes(r, svcs)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// entity-specific route registrations.
func setupAPIV1Routes(r *gin.Engine, svcs *services.Container) {
	v1 := r.Group("/api/v1")

	registerAccountRoutes(v1, svcs.AccountSvc, svcs.LedgerSvc)
	registerEntryRoutes(v1, svcs.LedgerSvc)
	registerFiscalRoutes(v1, svcs.FiscalSvc)
	registerRecurrenceRoutes(v1, svcs.RecurrenceSvc)
	registerReportingRoutes(v1, svcs.LedgerSvc)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
