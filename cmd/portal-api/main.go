package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-portal-api/api/swagger"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/internal/router"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/pkg/cache"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/database"
	"github.com/noah-isme/school-portal-api/pkg/logger"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

// @title School Portal API
// @version 1.0.0
// @description Student and guardian profile aggregation for the school portal.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	os.Exit(serve(cfg, logr))
}

// serve runs the server and returns the process exit code. The logger is
// flushed before returning on every path.
func serve(cfg *config.Config, logr *zap.Logger) int {
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Error("server failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	metrics := service.NewMetricsService()
	validate := validator.New()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	gateway := database.NewGateway(db, metrics)

	checks := map[string]handler.Pinger{"database": gateway}

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		cacheRepo = repository.NewCacheRepository(client, logr)
		defer cacheRepo.Close() //nolint:errcheck
		checks["redis"] = cacheRepo
	}
	var refCache *service.CacheService
	if cacheRepo != nil {
		refCache = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}

	backend, files, err := buildStorage(cfg, prefix, logr)
	if err != nil {
		return err
	}
	links := service.NewLinkService(backend, service.LinkConfig{
		ImagesBucket:    cfg.Storage.ImagesBucket,
		DocumentsBucket: cfg.Storage.DocumentsBucket,
		TTL:             cfg.Storage.LinkTTL,
		Timeout:         cfg.Storage.SignTimeout,
	}, metrics, logr)

	students := repository.NewStudentRepository(gateway)
	guardians := repository.NewGuardianRepository(gateway)
	academic := repository.NewAcademicRepository(gateway)
	reports := repository.NewReportRepository(gateway)

	authSvc := service.NewAuthService(guardians, validate, metrics, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	profileSvc := service.NewProfileService(students, guardians, academic, reports, links, refCache, metrics, logr)
	studentSvc := service.NewStudentService(students, validate, logr)
	guardianSvc := service.NewGuardianService(guardians, authSvc, validate, logr)
	exportSvc := service.NewExportService(students, reports, logr)

	engine := router.New(router.Options{
		APIPrefix:      prefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthRequired:   cfg.Auth.Required,
		EnableDocs:     cfg.Env != config.EnvProduction,
	}, router.Handlers{
		Profile:   handler.NewProfileHandler(profileSvc),
		Auth:      handler.NewAuthHandler(authSvc),
		Students:  handler.NewStudentHandler(studentSvc),
		Guardians: handler.NewGuardianHandler(guardianSvc),
		Exports:   handler.NewExportHandler(exportSvc, cfg.Exports.Enabled),
		Files:     files,
		Metrics:   handler.NewMetricsHandler(metrics.Handler(), checks),
	}, authSvc, metrics, logr)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.Storage.Backend),
			zap.Bool("reference_cache", refCache != nil),
			zap.Bool("auth_required", cfg.Auth.Required),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-signals:
		logr.Info("shutdown requested", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logr.Info("server stopped")
	return nil
}

// buildStorage returns the signing backend and, for the local backend, the
// handler that serves the files it signs.
func buildStorage(cfg *config.Config, prefix string, logr *zap.Logger) (storage.Backend, *handler.FilesHandler, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendLocal:
		store, err := storage.NewLocalStorage(cfg.Storage.LocalDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init local storage: %w", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Storage.LocalSecret, cfg.Storage.LinkTTL)
		backend := storage.NewLocalBackend(signer, store, cfg.Storage.PublicBaseURL+prefix+"/files")
		return backend, handler.NewFilesHandler(backend, backend.Store(), logr), nil
	case config.StorageBackendSupabase:
		if cfg.Storage.URL == "" || cfg.Storage.ServiceKey == "" {
			logr.Warn("storage credentials missing; every signed link will be null")
		}
		return storage.NewSupabaseBackend(cfg.Storage.URL, cfg.Storage.ServiceKey), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
