// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kuwait_portal_backend/internal/article"
	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/config"
	"kuwait_portal_backend/internal/firebase"
	"kuwait_portal_backend/internal/jobs"
	"kuwait_portal_backend/internal/listing"
	"kuwait_portal_backend/internal/middleware"
	"kuwait_portal_backend/internal/notification"
	"kuwait_portal_backend/internal/payment"
	platformES "kuwait_portal_backend/internal/platform/elasticsearch"
	"kuwait_portal_backend/internal/shared"
	"kuwait_portal_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	placementExpiryJob *jobs.PlacementExpiryJob

	// Exposed for startup tasks in main, such as search index creation.
	ESClient  *platformES.ESClientWrapper
	AppLogger *zap.Logger
}

// NewServer wires the router, middleware and routes together.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	listingHandler *listing.Handler,
	articleHandler *article.Handler,
	notificationHandler *notification.Handler,
	paymentHandler *payment.Handler,
	placementExpiryJob *jobs.PlacementExpiryJob,
	firebaseService *firebase.FirebaseService,
	profileService shared.Service,
	esClient *platformES.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(firebaseService, profileService, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)
	moderatorRoleMW := middleware.RoleAuthMiddleware(common.RoleModerator, common.RoleAdmin)

	// --- Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Kuwait Portal API is healthy!"})
	})

	v1 := router.Group("/api/v1")
	userHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	listingHandler.RegisterRoutes(v1, authMW, moderatorRoleMW)
	articleHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	notificationHandler.RegisterRoutes(v1, authMW)
	paymentHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:         httpServer,
		router:             router,
		cfg:                cfg,
		logger:             logger,
		placementExpiryJob: placementExpiryJob,
		ESClient:           esClient,
		AppLogger:          logger,
	}, nil
}

// Start runs the background jobs and the HTTP server. Blocks until the
// server stops.
func (s *Server) Start() error {
	if s.placementExpiryJob != nil {
		if err := s.placementExpiryJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to start placement expiry job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

// Shutdown stops the jobs and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.placementExpiryJob != nil {
		s.placementExpiryJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
