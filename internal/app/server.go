// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wallet_backend/internal/account"
	"wallet_backend/internal/common"
	"wallet_backend/internal/config"
	"wallet_backend/internal/firebase"
	"wallet_backend/internal/gatehub"
	"wallet_backend/internal/jobs"
	"wallet_backend/internal/middleware"
	platformElasticsearch "wallet_backend/internal/platform/elasticsearch"
	"wallet_backend/internal/shared"
	"wallet_backend/internal/transfer"
	"wallet_backend/internal/user"
	"wallet_backend/internal/walletaddress"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config

	AppLogger *zap.Logger
	ESClient  *platformElasticsearch.ESClientWrapper

	// Handlers
	userHandler          *user.Handler
	gatehubHandler       *gatehub.Handler
	accountHandler       *account.Handler
	walletAddressHandler *walletaddress.Handler
	transferHandler      *transfer.Handler

	// Jobs
	requestExpiryJob *jobs.RequestExpiryJob

	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	gatehubHandler *gatehub.Handler,
	accountHandler *account.Handler,
	walletAddressHandler *walletaddress.Handler,
	transferHandler *transfer.Handler,
	requestExpiryJob *jobs.RequestExpiryJob,
	db *gorm.DB,
	esClient *platformElasticsearch.ESClientWrapper,
	firebaseService *firebase.FirebaseService,
	userService shared.Service,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(firebaseService, userService, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Wallet API is healthy!"})
	})

	// The provider posts webhooks without a bearer token; they sit outside
	// the authenticated API group.
	gatehubHandler.RegisterWebhookRoutes(router)

	v1 := router.Group("/api/v1")
	userHandler.RegisterRoutes(v1, authMW)
	gatehubHandler.RegisterRoutes(v1, authMW)
	accountHandler.RegisterRoutes(v1, authMW)
	walletAddressHandler.RegisterRoutes(v1, authMW)
	transferHandler.RegisterRoutes(v1, authMW)
	transferHandler.RegisterAdminRoutes(v1, authMW, middleware.RoleAuthMiddleware(common.RoleAdmin))

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:           httpServer,
		router:               router,
		cfg:                  cfg,
		AppLogger:            logger,
		ESClient:             esClient,
		userHandler:          userHandler,
		gatehubHandler:       gatehubHandler,
		accountHandler:       accountHandler,
		walletAddressHandler: walletAddressHandler,
		transferHandler:      transferHandler,
		requestExpiryJob:     requestExpiryJob,
		authMW:               authMW,
	}, nil
}

func (s *Server) Start() error {
	if s.requestExpiryJob != nil {
		if err := s.requestExpiryJob.SetupAndStart(); err != nil {
			s.AppLogger.Error("Failed to setup and start request expiry job", zap.Error(err))
		}
	} else {
		s.AppLogger.Info("Request expiry job is not configured, skipping start.")
	}

	s.AppLogger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.AppLogger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.AppLogger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.AppLogger.Info("Attempting graceful server shutdown...")
	if s.requestExpiryJob != nil {
		s.requestExpiryJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
