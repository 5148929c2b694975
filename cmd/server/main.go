package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"cemetery_api/internal/config"
	"cemetery_api/internal/events"
	"cemetery_api/internal/logger"
	"cemetery_api/internal/middleware"
	"cemetery_api/internal/routes"
	"cemetery_api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	// Structured logging to stdout and a rotating file
	accessLog := logger.Setup(cfg.LogFile, cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("database handle")
	}
	defer sqlDB.Close()

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		p, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			logrus.WithError(err).Warn("rabbitmq unavailable, change events disabled")
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	var limiter redis.Scripter
	if rdb := config.InitRedis(cfg); rdb != nil {
		limiter = rdb
		defer rdb.Close()
	}

	r := routes.SetupRouter(routes.Deps{
		Stores:          store.New(db),
		Signer:          middleware.NewTokenSigner(cfg.TokenSecret),
		Events:          publisher,
		DB:              sqlDB,
		Limiter:         limiter,
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow,
		TrustedProxies:  cfg.TrustedProxies,
		AccessLog:       accessLog,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Server running at :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
