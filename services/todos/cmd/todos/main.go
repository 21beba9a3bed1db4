package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/config"
	handlers "github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/http"
	metricsMiddleware "github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/middleware"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/repository"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/service"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/validation"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/shared/logger"
)

func main() {
	logrusLogger := logger.Init("todos", os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load(os.Args[1:])
	if config.IsHelp(err) {
		fmt.Println(err)
		return
	}
	if err != nil {
		logrusLogger.WithError(err).Fatal("failed to load config")
	}
	logrusLogger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	// Хранилище живёт только в памяти процесса
	repo := repository.NewMemoryTodoRepository()
	todoService := service.NewTodoService(repo)

	validator, err := validation.New()
	if err != nil {
		logrusLogger.WithError(err).Fatal("failed to compile request schemas")
	}

	if cfg.MetricsEnabled {
		err := metricsMiddleware.RegisterStoreGauge(prometheus.DefaultRegisterer, func() float64 {
			n, _ := todoService.Count(context.Background())
			return float64(n)
		})
		if err != nil {
			logrusLogger.WithError(err).Fatal("failed to register store metrics")
		}
	}

	todoHandler := handlers.NewTodoHandler(todoService, validator, logrusLogger)
	handler := handlers.NewRouter(todoHandler, handlers.RouterOptions{
		Logger:         logrusLogger,
		CORSOrigins:    cfg.CORSOrigins,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrusLogger.WithField("addr", cfg.Addr()).Info("todo service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrusLogger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrusLogger.Info("shutting down todo service...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrusLogger.WithError(err).Error("graceful shutdown failed")
	}
}
