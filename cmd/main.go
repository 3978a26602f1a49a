package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shenikar/accident_response/internal/config"
	v1 "github.com/shenikar/accident_response/internal/handler/http/v1"
	"github.com/shenikar/accident_response/internal/metrics"
	"github.com/shenikar/accident_response/internal/models"
	"github.com/shenikar/accident_response/internal/repository"
	"github.com/shenikar/accident_response/internal/service"
	"github.com/shenikar/accident_response/internal/webhook"
	"github.com/shenikar/accident_response/pkg/logger"
	"github.com/shenikar/accident_response/pkg/postgres"
	redisclient "github.com/shenikar/accident_response/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/accident_response/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Accident Response API
// @version 1.0
// @description Live accident reports, responder actions and device notifications.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func waitStopped(ctx context.Context, log *logrus.Logger, name string, done <-chan struct{}) {
	select {
	case <-done:
	case <-ctx.Done():
		log.Warnf("%s did not stop in time", name)
	}
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	metrics.Register()

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// События для устройств уходят в очередь, воркер доставляет их вебхуком
	notifier := webhook.NewDeviceNotifier(webhook.NewRedisPublisher(redisClient))
	deliveryWorker := webhook.NewWorker(redisClient, log, cfg)
	deliveryWorker.Start(ctx)

	// Одно соединение LISTEN на все подписки, запросы идут через пул
	changeHub := repository.NewChangeHub(dbpool.Config().ConnConfig, log, cfg.StreamRetryDelay)
	go changeHub.Run(ctx)

	// Инициализация репозиториев
	documents := repository.NewDocumentRepository(dbpool, changeHub, log)
	locations := repository.NewDeviceLocationRepository(redisClient)

	// Общий поток сообщений о ДТП для REST-запросов. После обрыва подписки
	// поток перезапускается, /system/health в это время отвечает 503.
	reporter := service.NewLogErrorReporter(log)
	reportStream := service.NewReportStream(documents, reporter, log)
	reportsDone := make(chan struct{})
	go func() {
		defer close(reportsDone)
		service.SuperviseReportStream(ctx, reportStream, func(reports []models.AccidentReport) {
			log.WithField("count", len(reports)).Debug("Accident report list updated")
		}, cfg.StreamRetryDelay, log)
	}()

	// Инициализация сервисов
	responseService := service.NewResponseService(documents, notifier, notifier, log, cfg.MapsSearchURL)
	locationService := service.NewLocationService(locations, locations, notifier, log)
	liveFeeds := service.NewLiveFeeds(documents, reporter, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(reportStream, responseService, locationService, liveFeeds, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
		// Открытые websocket-потоки закрываются вместе с базовым контекстом
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	// Останавливаем подписки и ждем, пока воркер и хаб освободят соединения
	cancel()
	waitStopped(shutdownCtx, log, "report stream", reportsDone)
	waitStopped(shutdownCtx, log, "change hub", changeHub.Done())
	waitStopped(shutdownCtx, log, "webhook worker", deliveryWorker.Done())

	log.Info("Server gracefully stopped")
}
