package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/adapters/rest"
	"github.com/paarad/03-coincerto/internal/config"
	"github.com/paarad/03-coincerto/internal/scheduler"
	"github.com/paarad/03-coincerto/internal/worker"
	"github.com/paarad/03-coincerto/internal/wiring"
)

func main() {
	// 1. Configuration (Environment Variables)
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// 2. Initialize "Driven" Adapters (The Tools)
	app, err := wiring.Build(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize adapters")
	}
	defer app.Close()

	// 3. Background run pool and daily scheduler
	pool := worker.NewPool(app.Pipeline, log, cfg.Workers, cfg.QueueSize)
	defer pool.Stop()

	daily, err := scheduler.New(pool, cfg.ScheduleHour, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize scheduler")
	}
	daily.Start()
	defer daily.Stop()

	// 4. Initialize "Driving" Adapter (The Interface)
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	rest.NewHandler(app.Repo, app.Media, pool, log).Register(engine)

	// 5. Start the Server
	log.WithField("addr", cfg.HTTPAddr).Info("🎶 Coincerto API is running")

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Fatal("server failed")
		}
	case <-ctx.Done():
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown error")
		}
	}
}
