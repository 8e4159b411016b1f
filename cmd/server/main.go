package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gcaccess/door-gateway/config"
	"github.com/gcaccess/door-gateway/internal/access"
	"github.com/gcaccess/door-gateway/internal/health"
	"github.com/gcaccess/door-gateway/internal/infrastructure/mqtt"
	"github.com/gcaccess/door-gateway/internal/infrastructure/postgres"
	ctxlog "github.com/gcaccess/door-gateway/internal/log"
	"github.com/gcaccess/door-gateway/internal/metrics"
	"github.com/gcaccess/door-gateway/internal/token"
	httptransport "github.com/gcaccess/door-gateway/internal/transport/http"
	"github.com/gcaccess/door-gateway/internal/transport/http/handler"
	"github.com/gcaccess/door-gateway/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	location, err := time.LoadLocation(cfg.AccessTimezone)
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	mqttCfg := mqtt.Config{
		Host:     cfg.MQTTHost,
		Port:     cfg.MQTTPort,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
		ClientID: cfg.MQTTClientID,
	}

	// Status client registers the last will before connecting, so the
	// broker announces "offline" on its own if we drop ungracefully.
	statusClient, err := mqtt.ConnectStatus(mqttCfg, logger)
	if err != nil {
		stop()
		log.Fatalf("mqtt status client: %v", err)
	}
	defer statusClient.Close()

	actionClient, err := mqtt.ConnectAction(mqttCfg, logger)
	if err != nil {
		stop()
		log.Fatalf("mqtt action client: %v", err)
	}
	defer actionClient.Close()

	tokens := token.NewIssuer([]byte(cfg.JWTSecret))

	// Users
	userRepo := postgres.NewUserRepository(pool)
	userUsecase := usecase.NewUserUsecase(userRepo)
	userHandler := handler.NewUserHandler(userUsecase, logger)

	// Access windows
	accessRepo := postgres.NewAccessRepository(pool)
	accessUsecase := usecase.NewAccessUsecase(accessRepo, userRepo)
	accessHandler := handler.NewAccessHandler(accessUsecase, logger)
	evaluator := access.NewEvaluator(accessRepo, location)

	// Auth and door
	authUsecase := usecase.NewAuthUsecase(userRepo, tokens)
	authHandler := handler.NewAuthHandler(authUsecase, logger)
	doorUsecase := usecase.NewDoorUsecase(userRepo, evaluator, actionClient, authUsecase, logger)
	doorHandler := handler.NewDoorHandler(doorUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, statusClient, actionClient, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, tokens, authHandler, doorHandler, userHandler, accessHandler),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "timezone", cfg.AccessTimezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
