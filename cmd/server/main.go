package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/frontdesk/visitor-management-backend/internal/config"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/handlers"
	"github.com/frontdesk/visitor-management-backend/internal/middleware"
	"github.com/frontdesk/visitor-management-backend/internal/models"
	"github.com/frontdesk/visitor-management-backend/internal/services"
	"github.com/frontdesk/visitor-management-backend/pkg/jwt"
	"github.com/frontdesk/visitor-management-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting FrontDesk Visitor Management Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	tenantRepo := database.NewTenantRepository(db)
	guardRepo := database.NewGuardRepository(db)
	adminRepo := database.NewAdminRepository(db)
	superAdminRepo := database.NewSuperAdminRepository(db)
	employeeRepo := database.NewEmployeeRepository(db)
	visitorRepo := database.NewVisitorRepository(db)
	visitRepo := database.NewVisitRepository(db)
	auditLogRepo := database.NewAuditLogRepository(db)
	identityStore := database.NewIdentityStore(guardRepo, adminRepo, superAdminRepo, tenantRepo)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	pinValidator := validator.NewPINValidator()
	credentialService := services.NewCredentialService(pinValidator, cfg.Security.BcryptCost)
	authService := services.NewAuthService(guardRepo, adminRepo, superAdminRepo, credentialService, jwtService, cfg.JWT.TokenExpiry)
	visitService := services.NewVisitService(db, visitRepo, visitorRepo, employeeRepo, cfg.Visits.AutoApprove)
	employeeService := services.NewEmployeeService(employeeRepo)
	reportService := services.NewReportService(visitRepo)
	auditService := services.NewAuditService(auditLogRepo, cfg.Security.EnableAuditLog)

	storageService, err := services.NewStorageService(cfg.Storage.PhotoDir)
	if err != nil {
		logger.Fatalf("Failed to initialize photo storage: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, auditService)
	photoURLService := services.NewPhotoURLService(cfg.JWT.Secret, cfg.Storage.PhotoURLTTL)
	visitHandler := handlers.NewVisitHandler(visitService, visitorRepo, storageService, photoURLService, auditService)
	guardHandler := handlers.NewGuardHandler(guardRepo, credentialService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService, employeeRepo)
	tenantHandler := handlers.NewTenantHandler(tenantRepo, adminRepo, credentialService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	resolveTenant := middleware.TenantMiddleware(tenantRepo)
	authenticate := middleware.AuthMiddleware(jwtService, identityStore)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public tenant directory for the login screens
		v1.GET("/tenants/active", tenantHandler.ListActive)

		// Authentication routes (public, tenant-scoped except superadmin)
		auth := v1.Group("/auth")
		{
			auth.POST("/guard/login", resolveTenant, authHandler.GuardLogin)
			auth.POST("/admin/login", resolveTenant, authHandler.AdminLogin)
			auth.POST("/superadmin/login", authHandler.SuperAdminLogin)
		}

		// Guard console routes
		visits := v1.Group("/visits")
		visits.Use(resolveTenant, authenticate, middleware.RequireRole(models.RoleGuard))
		{
			visits.POST("/check-in", visitHandler.CheckIn)
			visits.POST("/:id/check-out", visitHandler.CheckOut)
			visits.GET("/active", visitHandler.Active)
			visits.GET("/:id", visitHandler.Detail)
		}

		visitors := v1.Group("/visitors")
		visitors.Use(resolveTenant, authenticate, middleware.RequireRole(models.RoleGuard))
		{
			visitors.GET("/search", visitHandler.SearchVisitors)
		}

		photos := v1.Group("/photos")
		photos.Use(resolveTenant, authenticate, middleware.RequireRole(models.RoleGuard, models.RoleAdmin))
		{
			photos.GET("/*key", visitHandler.Photo)
		}

		// Approval webhook: tenant-scoped, called by the host notification
		// integration, idempotent on replay.
		webhooks := v1.Group("/webhooks")
		webhooks.Use(resolveTenant)
		{
			webhooks.POST("/visits/:id/approval", visitHandler.ApprovalCallback)
		}

		// Tenant admin routes
		manage := v1.Group("")
		manage.Use(resolveTenant, authenticate, middleware.RequireRole(models.RoleAdmin))
		{
			guards := manage.Group("/guards")
			{
				guards.GET("", guardHandler.List)
				guards.GET("/:id", guardHandler.Get)
				guards.POST("", guardHandler.Create)
				guards.PUT("/:id", guardHandler.Update)
				guards.DELETE("/:id", guardHandler.Delete)
			}

			employees := manage.Group("/employees")
			{
				employees.GET("", employeeHandler.List)
				employees.GET("/:id", employeeHandler.Get)
				employees.POST("", employeeHandler.Create)
				employees.PUT("/:id", employeeHandler.Update)
				employees.DELETE("/:id", employeeHandler.Delete)
				employees.POST("/bulk-upload", employeeHandler.BulkUpload)
			}

			reports := manage.Group("/reports")
			{
				reports.GET("/end-of-day", visitHandler.EndOfDay)
				reports.GET("/employee/:id", reportHandler.ByEmployee)
				reports.GET("/export", reportHandler.Export)
			}
		}

		// Super admin provisioning routes (not tenant-scoped)
		admin := v1.Group("/admin")
		admin.Use(authenticate, middleware.RequireRole(models.RoleSuperAdmin))
		{
			tenants := admin.Group("/tenants")
			{
				tenants.GET("", tenantHandler.List)
				tenants.GET("/:tenantId", tenantHandler.Get)
				tenants.POST("", tenantHandler.Create)
				tenants.PUT("/:tenantId", tenantHandler.Update)
				tenants.DELETE("/:tenantId", tenantHandler.Delete)

				tenants.GET("/:tenantId/admins", tenantHandler.ListAdmins)
				tenants.POST("/:tenantId/admins", tenantHandler.CreateAdmin)
				tenants.PUT("/:tenantId/admins/:id", tenantHandler.UpdateAdmin)
				tenants.DELETE("/:tenantId/admins/:id", tenantHandler.DeleteAdmin)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if principal, exists := middleware.GetPrincipal(c); exists {
			fields["principal_id"] = principal.ID
			fields["role"] = principal.Role
		}
		if tenant, exists := middleware.GetTenant(c); exists {
			fields["tenant"] = tenant.Subdomain
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
