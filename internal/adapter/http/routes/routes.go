package routes

import (
	_ "cargo_quotes/docs"
	"cargo_quotes/internal/adapter/http/handlers"
	"cargo_quotes/internal/adapter/http/middleware"
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies are the use cases and collaborators served by the router.
// Sockets is optional; /ws is only mounted when it is set.
type Dependencies struct {
	Logger      *zap.Logger
	CORSOrigins []string
	Quotations  usecase.IQuotationUseCase
	Warehouses  usecase.IWarehouseUseCase
	Auth        usecase.IAuthUseCase
	Sweep       usecase.IExpirySweepUseCase
	Sockets     gin.HandlerFunc
}

// NewRouter builds the gin engine with middlewares and every route.
func NewRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(corsMiddleware(deps.CORSOrigins))

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", handlers.Health)
	if deps.Sockets != nil {
		router.GET("/ws", deps.Sockets)
	}

	v1 := router.Group("/v1")
	addAuthRoutes(v1, deps.Auth)
	addQuotationRoutes(v1, deps.Auth, handlers.NewQuotationHandler(deps.Quotations))
	addWarehouseRoutes(v1, deps.Auth, handlers.NewWarehouseHandler(deps.Warehouses))
	addAdminRoutes(v1, deps.Auth, handlers.NewAdminHandler(deps.Sweep))
	return router
}

func addAuthRoutes(rg *gin.RouterGroup, auth usecase.IAuthUseCase) {
	h := handlers.NewAuthHandler(auth)

	rg.POST("/auth/login", h.Login)
	authed := rg.Group("", middleware.RequireAuth(auth))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)

	rg.POST("/users", middleware.RequireAuth(auth, entities.RoleAdmin), h.CreateUser)
}

func addQuotationRoutes(rg *gin.RouterGroup, auth usecase.IAuthUseCase, h *handlers.QuotationHandler) {
	quotations := rg.Group("/quotations", middleware.RequireAuth(auth))
	quotations.POST("", h.CreateQuotation)
	quotations.GET("", h.ListQuotations)
	quotations.GET("/:id", h.GetQuotation)

	// client actions; ownership is checked by the use case
	quotations.PATCH("/:id/submit", h.Submit)
	quotations.PATCH("/:id/accept", h.Accept)
	quotations.PATCH("/:id/reject", h.Reject)
	quotations.PATCH("/:id/negotiate", h.RequestNegotiation)

	staff := rg.Group("/quotations", middleware.RequireAuth(auth, entities.RoleManager, entities.RoleAdmin))
	staff.PUT("/:id/price", h.UpdatePrice)
	staff.PATCH("/:id/verify", h.Verify)
	staff.PATCH("/:id/request-info", h.RequestInfo)
	staff.PATCH("/:id/approve", h.Approve)
	staff.PATCH("/:id/send", h.Send)
	staff.PATCH("/:id/address", h.ProvideAddress)
	staff.POST("/:id/requote", h.Requote)
}

func addWarehouseRoutes(rg *gin.RouterGroup, auth usecase.IAuthUseCase, h *handlers.WarehouseHandler) {
	authed := middleware.RequireAuth(auth)
	rg.GET("/warehouses", authed, h.ListWarehouses)
	rg.GET("/warehouses/:id", authed, h.GetWarehouse)
	rg.POST("/warehouses", middleware.RequireAuth(auth, entities.RoleAdmin), h.CreateWarehouse)
}

func addAdminRoutes(rg *gin.RouterGroup, auth usecase.IAuthUseCase, h *handlers.AdminHandler) {
	admin := rg.Group("/admin", middleware.RequireAuth(auth, entities.RoleAdmin))
	admin.POST("/expiry-sweep", h.RunExpirySweep)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Server wraps http.Server with context driven shutdown.
type Server struct {
	srv *http.Server
	log *zap.Logger
}

func NewServer(port int, handler http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}
