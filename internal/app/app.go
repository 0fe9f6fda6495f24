package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "tenantcrm/docs"
	"tenantcrm/internal/config"
	"tenantcrm/internal/database"
	"tenantcrm/internal/handlers"
	"tenantcrm/internal/metrics"
	"tenantcrm/internal/middleware"
	"tenantcrm/internal/repositories"
	"tenantcrm/internal/routes"
	"tenantcrm/internal/services"
)

const shutdownTimeout = 10 * time.Second

// Run serves the API until SIGINT or SIGTERM.
func Run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === DB ===
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	dealRepo := repositories.NewDealRepository(db)

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)
	var emailService services.EmailService
	if cfg.Email.Enabled() {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}
	userService := services.NewUserService(userRepo, authService, emailService, logger)
	companyService := services.NewCompanyService(companyRepo, logger)
	contactService := services.NewContactService(contactRepo, logger)
	dealService := services.NewDealService(dealRepo, logger)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	contactHandler := handlers.NewContactHandler(contactService)
	dealHandler := handlers.NewDealHandler(dealService)
	healthHandler := handlers.NewHealthHandler(db)

	// === Gin ===
	gin.SetMode(cfg.Server.Mode)
	m := metrics.New()
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(m.Middleware())
	router.Use(corsMiddleware(cfg.Server.CORSOrigin))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	routes.SetupRoutes(
		router,
		authService,
		authHandler,
		companyHandler,
		contactHandler,
		dealHandler,
		healthHandler,
	)

	// === Run ===
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
