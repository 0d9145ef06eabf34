package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sfsf02/AcceessHealth/pkg/common/config"
	"github.com/sfsf02/AcceessHealth/pkg/common/database"
	"github.com/sfsf02/AcceessHealth/pkg/common/kafka"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/consultation"
	"github.com/sfsf02/AcceessHealth/pkg/directory"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/auth"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/middleware"
	"github.com/sfsf02/AcceessHealth/pkg/gateway/routes"
	"github.com/sfsf02/AcceessHealth/pkg/hospital"
	"github.com/sfsf02/AcceessHealth/pkg/identity"
	"github.com/sfsf02/AcceessHealth/pkg/notification"
	"github.com/sfsf02/AcceessHealth/pkg/observability/metrics"
	"github.com/sfsf02/AcceessHealth/pkg/records"
	"github.com/sfsf02/AcceessHealth/pkg/review"
	"github.com/sfsf02/AcceessHealth/pkg/scheduling"
	"github.com/sfsf02/AcceessHealth/pkg/storage"
	"github.com/sfsf02/AcceessHealth/pkg/terminology"
	"github.com/sfsf02/AcceessHealth/pkg/wearable"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer database.ClosePostgres()

	catalog, err := terminology.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.Fatalf("Failed to load terminology catalog: %v", err)
	}

	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Log.Fatalf("Failed to initialise upload store: %v", err)
	}

	// Repositories and migrations.
	identityRepo := identity.NewRepository(db)
	hospitalRepo := hospital.NewRepository(db)
	schedulingRepo := scheduling.NewRepository(db)
	consultationRepo := consultation.NewRepository(db)
	recordsRepo := records.NewRepository(db)
	wearableRepo := wearable.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	directoryRepo := directory.NewRepository(db)

	type migrator interface{ AutoMigrate() error }
	for _, repo := range []migrator{
		hospitalRepo, identityRepo, schedulingRepo, consultationRepo,
		recordsRepo, wearableRepo, reviewRepo, notificationRepo,
	} {
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.Fatalf("Migration failed: %v", err)
		}
	}

	producer := kafka.NewProducer(cfg.PortalTopic)
	defer producer.Close()

	// Services.
	notificationService := notification.NewService(notificationRepo)
	identityService := identity.NewService(identityRepo, catalog)
	hospitalService := hospital.NewService(hospitalRepo)
	schedulingService := scheduling.NewService(schedulingRepo, catalog, producer, notificationService)
	consultationService := consultation.NewService(consultationRepo, catalog)
	recordsService := records.NewService(recordsRepo, files)
	wearableService := wearable.NewService(wearableRepo, catalog, producer)
	reviewService := review.NewService(reviewRepo)
	directoryService := directory.NewService(directoryRepo)

	// Auth.
	tokens, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	if err != nil {
		logger.Log.Fatalf("Failed to initialise token manager: %v", err)
	}
	sessions := auth.NewSessionStore(database.GetRedis(), cfg.SessionTTL)
	defer database.CloseRedis()

	authHandler := routes.NewAuthHandler(identityService, tokens, sessions, cfg.SessionCookie)

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))
	router.Use(middleware.NewRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	hospitalHandler := hospital.NewHandler(hospitalService, cfg.ListPageSize)

	// Public surface first: signup, login and hospital reads.
	// Registration order gives these precedence over the
	// authenticated subrouter below.
	authHandler.RegisterPublicRoutes(api)
	hospitalHandler.RegisterPublicRoutes(api)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(tokens, sessions, cfg.SessionCookie))
	authHandler.RegisterRoutes(protected)
	identity.NewHandler(identityService, files, cfg.ListPageSize).RegisterRoutes(protected)
	hospitalHandler.RegisterRoutes(protected)
	scheduling.NewHandler(schedulingService, cfg.ListPageSize).RegisterRoutes(protected)
	consultation.NewHandler(consultationService, cfg.ListPageSize).RegisterRoutes(protected)
	records.NewHandler(recordsService, cfg.ListPageSize).RegisterRoutes(protected)
	wearable.NewHandler(wearableService, cfg.ListPageSize).RegisterRoutes(protected)
	review.NewHandler(reviewService, cfg.ListPageSize).RegisterRoutes(protected)
	notification.NewHandler(notificationService, cfg.ListPageSize).RegisterRoutes(protected)
	directory.NewHandler(directoryService, cfg.DirectoryPageSize).RegisterRoutes(protected)

	server := &http.Server{
		Addr:         cfg.ServerHost + ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("Portal server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Graceful shutdown failed: %v", err)
	}
}
