package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/janezhang99/SEW-v5-sub002/cmd/docs"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	portssvc "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/services"
	"github.com/janezhang99/SEW-v5-sub002/internal/metrics"
	"github.com/janezhang99/SEW-v5-sub002/internal/middleware"
	"github.com/janezhang99/SEW-v5-sub002/internal/platform/config"
)

// RegisterRoutes sets up all application routes. recorder and rl may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	recorder *metrics.Recorder,
	rl *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	if recorder != nil {
		r.GET("/metrics", gin.WrapH(recorder.Handler()))
	}

	setupAPIV1Routes(r, cfg, services, rl)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and registers every record kind under it.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rl *limiter.Limiter,
) {
	chain := []gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret)}
	if rl != nil {
		chain = append(chain, middleware.RateLimit(rl))
	}
	v1 := r.Group("/api/v1", chain...)

	registerCatalogRoutes(v1, services.Catalog)
	RegisterRecordRoutes(v1, domain.KindExpenses, services.Expense)
	RegisterRecordRoutes(v1, domain.KindProjects, services.Project)
	RegisterRecordRoutes(v1, domain.KindEvents, services.Event)
	RegisterRecordRoutes(v1, domain.KindTasks, services.Task)
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
