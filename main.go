package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/clinic-landing-api/config"
	"github.com/kendall-kelly/clinic-landing-api/controllers"
	"github.com/kendall-kelly/clinic-landing-api/logging"
	"github.com/kendall-kelly/clinic-landing-api/mapscript"
	"github.com/kendall-kelly/clinic-landing-api/middleware"
	"github.com/kendall-kelly/clinic-landing-api/services"
	"github.com/kendall-kelly/clinic-landing-api/storage"
	"golang.org/x/crypto/bcrypt"
)

// dependencies is everything the router needs, built once at startup
type dependencies struct {
	cfg         *config.Config
	logger      *slog.Logger
	loc         *time.Location
	store       storage.Storage
	credentials services.CredentialProvider
	naver       *services.NaverService
	loader      controllers.MapScriptLoader
	scripts     controllers.ScriptStore
	limiter     *middleware.RateLimiter
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}
	logger := logging.Setup(cfg.LogLevel)
	logger.Info("starting clinic landing API server", "env", cfg.GoEnv)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		logging.Fatal("failed to initialize", "error", err)
	}
	go deps.limiter.Run(ctx)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server is running", "addr", "http://localhost:"+cfg.Port, "storage", deps.store.Kind())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildDependencies selects the storage backend and credential provider and wires the
// map provider client and script loader
func buildDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if cfg.SeedServiceTypes {
		if err := storage.SeedServiceTypes(ctx, store, storage.DefaultServiceTypes()); err != nil {
			return nil, err
		}
	}

	credentials, err := newCredentialProvider(ctx, cfg, store)
	if err != nil {
		return nil, err
	}

	// The loader reads the client id from this server's own public endpoint
	host := mapscript.NewHTTPHost(nil)
	loader := mapscript.NewLoader(
		&mapscript.HTTPConfigSource{BaseURL: "http://127.0.0.1:" + cfg.Port},
		host,
		cfg.NaverMapsScriptURL,
	)

	return &dependencies{
		cfg:         cfg,
		logger:      logger,
		loc:         loc,
		store:       store,
		credentials: credentials,
		naver:       services.NewNaverService(cfg),
		loader:      loader,
		scripts:     host,
		limiter:     middleware.NewRateLimiter(cfg.ProxyRateLimitRPS, cfg.ProxyRateLimitBurst),
	}, nil
}

func newCredentialProvider(ctx context.Context, cfg *config.Config, store storage.Storage) (services.CredentialProvider, error) {
	if cfg.AdminAuthProvider != config.AuthProviderTable {
		return services.NewMemoryCredentialProvider(cfg.AdminUsername, cfg.AdminPassword), nil
	}

	admins, ok := store.(storage.AdminUserStore)
	if !ok {
		return nil, fmt.Errorf("ADMIN_AUTH_PROVIDER=%s needs database storage, got %s", config.AuthProviderTable, store.Kind())
	}
	return services.NewTableCredentialProvider(ctx, admins, cfg.AdminUsername, cfg.AdminPassword, bcrypt.DefaultCost)
}

// setupRouter registers every route on a new engine
func setupRouter(deps *dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(deps.logger))

	if len(deps.cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	adminController := controllers.NewAdminController(deps.credentials)
	inquiryController := controllers.NewInquiryController(deps.store)
	serviceTypeController := controllers.NewServiceTypeController(deps.store)
	appointmentController := controllers.NewAppointmentController(deps.store, deps.loc)
	userController := controllers.NewUserController(deps.store)
	naverController := controllers.NewNaverController(deps.naver, deps.loader, deps.scripts)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)
		api.GET("/database/status", databaseStatus(deps.store))

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminController.Login)
			admin.GET("/me", adminController.Me)
			admin.POST("/logout", adminController.Logout)
			admin.POST("/change-password", adminController.ChangePassword)

			protected := admin.Group("", middleware.RequireAdmin())
			protected.GET("/users/:id", userController.GetUser)
			protected.PUT("/users/:id", userController.UpsertUser)
			protected.GET("/map-script", naverController.MapScriptStatus)
			protected.POST("/map-script/reset", naverController.ResetMapScript)
		}

		api.POST("/inquiries", inquiryController.CreateInquiry)
		api.GET("/inquiries", inquiryController.ListInquiries)
		api.PATCH("/inquiries/:id/status", inquiryController.UpdateInquiryStatus)

		api.GET("/service-types", serviceTypeController.ListServiceTypes)
		api.POST("/service-types", serviceTypeController.CreateServiceType)

		api.POST("/appointments", appointmentController.CreateAppointment)
		api.GET("/appointments", appointmentController.ListAppointments)
		api.GET("/appointments/date/:date", appointmentController.ListAppointmentsByDate)
		api.PATCH("/appointments/:id/status", appointmentController.UpdateAppointmentStatus)

		naver := api.Group("/naver")
		{
			limited := middleware.RateLimit(deps.limiter)
			naver.GET("/client-id", naverController.ClientID)
			naver.GET("/reverse-geocode", limited, naverController.ReverseGeocode)
			naver.GET("/geocoding", limited, naverController.Geocode)
			naver.GET("/maps.js", naverController.MapsScript)
		}
	}

	router.NoRoute(spaFallback(deps.cfg.StaticDir))

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Clinic landing API is running",
	})
}

// databaseStatus reports the active backend and, for the database backend, its tables
func databaseStatus(store storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"storage": store.Kind(),
				"message": "Database connection failed: " + err.Error(),
			})
			return
		}

		db, ok := store.(*storage.DatabaseStorage)
		if !ok {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"storage": store.Kind(),
				"message": "Using in-memory storage, data is lost on restart",
			})
			return
		}

		tables, err := db.DB().WithContext(c.Request.Context()).Migrator().GetTables()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"storage": store.Kind(),
				"message": "Failed to query tables",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"storage": store.Kind(),
			"message": "Database connected",
			"tables":  tables,
		})
	}
}

// spaFallback serves files from dir and index.html for client-side routes. Unknown API
// paths, or any path when dir is empty, get a JSON 404.
func spaFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if dir == "" || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
