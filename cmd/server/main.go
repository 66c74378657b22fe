package main

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"medicine-verify/internal/api"
	"medicine-verify/internal/app"
	"medicine-verify/internal/config"
	"medicine-verify/internal/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug(".env not found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	cfg.Server.ConfigureLogging()
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	if cfg.Server.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Server.SentryDSN}); err != nil {
			logrus.WithError(err).Warn("init sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	metrics.Register()

	runtime, err := app.Build(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("build runtime: %v", err)
	}
	defer func() {
		if cerr := runtime.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close runtime")
		}
	}()

	server, err := api.NewServer(api.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StoreBackend:   string(runtime.Backend),
		Classifiers:    runtime.Classifiers,
	}, api.Deps{
		Engine:    runtime.Engine,
		Directory: runtime.Registry,
		Sinks:     runtime.Sinks,
	})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	logrus.Infof("starting medicine verification backend on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logrus.Errorf("server exited: %v", err)
	}
}
