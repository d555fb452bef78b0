package handlers

import (
	"time"

	"smartbin/internal/hub"
	"smartbin/internal/logger"
	"smartbin/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// EnvDevelopment enables detailed error payloads on 500 responses.
const EnvDevelopment = "development"

// Handler wires the HTTP layer to services, the broadcast hub, and logging.
type Handler struct {
	services *service.Service
	hub      *hub.Hub
	log      *logger.Logger
	env      string
	started  time.Time
}

// NewHandler constructs a new HTTP handler with dependencies. env is
// "development" or "production" and gates 500 response detail.
func NewHandler(services *service.Service, h *hub.Hub, log *logger.Logger, env string) *Handler {
	return &Handler{
		services: services,
		hub:      h,
		log:      log,
		env:      env,
		started:  time.Now(),
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(h.recoverToJSON))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// System endpoints
	router.GET("/health", h.health)
	router.GET("/analytics", h.analytics)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Realtime channel (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	router.NoRoute(h.notFound)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerBinRoutes(api)
		api.GET("/me", h.authMiddleware, h.me)
	}
}

func (h *Handler) registerBinRoutes(api *gin.RouterGroup) {
	bins := api.Group("/bins")
	{
		bins.GET("", h.listBins)
		bins.GET("/:id", h.getBin)
		bins.POST("", h.createBin)
		bins.PUT("/:id", h.updateBin)
		bins.DELETE("/:id", h.deleteBin)
	}
}
