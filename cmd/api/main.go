package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobportal/internal/app"
	"jobportal/internal/config"
	"jobportal/internal/database"
	apphttp "jobportal/internal/http"
	"jobportal/internal/http/handlers"
	"jobportal/internal/http/metrics"
	httpmw "jobportal/internal/http/middleware"
	"jobportal/internal/http/response"
	"jobportal/internal/observability"
	"jobportal/internal/realtime"
	"jobportal/internal/repository/postgres"
	"jobportal/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	rdb, err := database.NewRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal(err)
	}

	jobRepo := postgres.NewJobRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	userRepo := postgres.NewUserRepository(db)

	var broker realtime.Broker
	if rdb != nil {
		broker = realtime.NewRedisBroker(context.Background(), rdb, logger)
	} else {
		broker = realtime.NewMemoryBroker()
	}
	defer broker.Close()

	hub := realtime.NewHub(cfg.WSWriteTimeout)
	go realtime.Dispatch(hub, broker)

	chatService := app.NewChatService(chatRepo, applicationRepo, userRepo, broker, logger)
	applicationService := app.NewApplicationService(applicationRepo, jobRepo, chatService, logger)
	jobService := app.NewJobService(jobRepo)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	middleware := httpmw.NewAuthMiddleware(jwtProvider)

	var limiter httpmw.Limiter
	if rdb != nil {
		limiter = httpmw.NewRedisLimiter(rdb)
	} else {
		limiter = httpmw.NewRateLimiter()
	}

	jobHandler := handlers.NewJobHandler(jobService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, limiter)
	chatHandler := handlers.NewChatHandler(chatService, limiter)
	wsHandler := handlers.NewWSHandler(hub, middleware, cfg.AllowedWSOrigin)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		JobHandler:         jobHandler,
		ApplicationHandler: applicationHandler,
		ChatHandler:        chatHandler,
		WSHandler:          wsHandler,
		MetricsHandler:     handlers.NewMetricsHandler(collector),
		AuthMiddleware:     middleware,
		Metrics:            collector,
		Logger:             logger,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
