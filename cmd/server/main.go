package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"parcel-dispatch-service/internal/adapters/cache"
	"parcel-dispatch-service/internal/api"
	"parcel-dispatch-service/internal/app"
	"parcel-dispatch-service/internal/config"
	"parcel-dispatch-service/internal/platform/obs"
	"parcel-dispatch-service/internal/ports"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It loads the day's data, runs the simulation once and serves reports over it.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}
	if err := obs.SetupLogging(config.Get("LOG_LEVEL", "info")); err != nil {
		logrus.Fatal(err)
	}
	log := logrus.WithField("module", "server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.Simulate(ctx, app.SourcesFromEnv())
	if err != nil {
		log.WithError(err).Fatal("simulation failed")
	}

	// The report cache is optional; without REDIS_URL every report is built per request.
	var reportCache ports.ReportCache
	if redisURL := config.Get("REDIS_URL", ""); redisURL != "" {
		c, err := cache.NewRedisReportCache(ctx, redisURL, "parcel:report:", cache.DefaultReportTTL)
		if err != nil {
			log.WithError(err).Fatal("report cache unavailable")
		}
		defer c.Close()
		reportCache = c
	}

	var origins []string
	if v := config.Get("CORS_ORIGINS", ""); v != "" {
		origins = strings.Split(v, ",")
	}

	port := config.Get("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           api.NewRouter(result, reportCache, origins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{"addr": srv.Addr, "run_id": result.RunID}).Info("server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server stopped")
	}
}
