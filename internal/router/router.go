package router

import (
	"clinica/internal/config"
	"clinica/internal/docs"
	"clinica/internal/handler"
	"clinica/internal/infra"
	"clinica/internal/middleware"
	"clinica/internal/repository"
	"clinica/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(middleware.NewIPLimiter(cfg.RateLimit)))

	// ── Infrastructure ───────────────────────────────────────────────────────
	locker := infra.NewRedisLocker(rdb, cfg.SaveLockTTL())

	// ── Repositories ─────────────────────────────────────────────────────────
	pacienteRepo := repository.NewPacienteRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	cajaRepo := repository.NewCajaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogo := service.NewCatalogoCache(catalogoRepo, cfg.CatalogCacheTTL())
	cajaSvc := service.NewCajaService(cajaRepo)
	estadoSvc := service.NewEstadoCuentaService(pacienteRepo, movimientoRepo, catalogo, cajaSvc, locker)
	movimientoSvc := service.NewMovimientoService(pacienteRepo, movimientoRepo, catalogo)
	extractoSvc := service.NewExtractoService(pacienteRepo, movimientoRepo, catalogo, cfg.ClinicName)

	// ── Handlers ─────────────────────────────────────────────────────────────
	estadoH := handler.NewEstadoCuentaHandler(estadoSvc, movimientoSvc, extractoSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		lectura := middleware.RequireRole(middleware.RolAdministrador, middleware.RolAdministrativo, middleware.RolProfesional)
		escritura := middleware.RequireRole(middleware.RolAdministrador, middleware.RolAdministrativo)

		st := v1.Group("/statements")
		{
			// Static segment first so "movements" is never taken for a DNI
			st.DELETE("/movements/:id", escritura, estadoH.EliminarMovimiento)

			st.GET("/:dni", lectura, estadoH.Obtener)
			st.PUT("/:dni", escritura, estadoH.Guardar)
			st.POST("/:dni/movements", escritura, estadoH.CrearMovimiento)
			st.GET("/:dni/extract", lectura, estadoH.Extracto)
		}

		// Cash-box balances, administrador only
		v1.GET("/caja/:areaId", middleware.RequireRole(middleware.RolAdministrador), cajaH.Obtener)
	}

	// Swagger UI outside production
	if cfg.Env != "production" {
		docs.SwaggerInfo.BasePath = "/"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
