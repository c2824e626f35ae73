package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/javierbuenopatience/patience-backend/config"
	"github.com/javierbuenopatience/patience-backend/internal/container"
	"github.com/javierbuenopatience/patience-backend/internal/infrastructure/blob"
	pginfra "github.com/javierbuenopatience/patience-backend/internal/infrastructure/postgres"
	"github.com/javierbuenopatience/patience-backend/internal/interface/middleware"
	"github.com/javierbuenopatience/patience-backend/internal/router"
	"github.com/javierbuenopatience/patience-backend/pkg/helpers"
	"github.com/javierbuenopatience/patience-backend/pkg/password"
	"github.com/javierbuenopatience/patience-backend/pkg/queue"
	"github.com/javierbuenopatience/patience-backend/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Initialize Postgres pool
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis is optional; the rate limiter fails open without it
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	// Blob storage, selected by configuration. An incomplete setup is
	// logged here and surfaces as "storage unavailable" at upload time.
	storage := buildStorage(ctx, cfg, logger)

	// Activity queue is optional; without it activities go straight to
	// the store.
	if cfg.RabbitMQURL != "" {
		pub, pErr := queue.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQActivityQueue)
		if pErr != nil {
			logger.WithError(pErr).Warn("rabbitmq unavailable, activities will be appended directly")
		} else {
			defer pub.Close()
			container.SetPublisher(pub)
		}
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetStorage(storage)
	container.SetHasher(password.NewHasher(cfg.BcryptCost))

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Locally stored files are served back under the configured prefix
	if cfg.StorageDriver == "local" {
		r.Static(cfg.LocalStorageBaseURL, cfg.LocalStorageDir)
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func buildStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) blob.Storage {
	switch cfg.StorageDriver {
	case "gcs":
		client, err := blob.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs client init failed, uploads disabled")
			return nil
		}
		s, err := blob.NewGCS(client, cfg.GCSBucket)
		if err != nil {
			logger.WithError(err).Warn("gcs storage not configured, uploads disabled")
			return nil
		}
		return s
	case "local":
		s, err := blob.NewLocal(cfg.LocalStorageDir, cfg.LocalStorageBaseURL)
		if err != nil {
			logger.WithError(err).Warn("local storage not configured, uploads disabled")
			return nil
		}
		return s
	default:
		logger.WithField("driver", cfg.StorageDriver).Warn("unknown storage driver, uploads disabled")
		return nil
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
