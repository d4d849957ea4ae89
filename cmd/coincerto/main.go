package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/config"
	"github.com/paarad/03-coincerto/internal/core/services"
	"github.com/paarad/03-coincerto/internal/scheduler"
	"github.com/paarad/03-coincerto/internal/worker"
	"github.com/paarad/03-coincerto/internal/wiring"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func main() {
	var (
		date   = flag.String("date", "", "run date as YYYY-MM-DD, today UTC when empty")
		dryRun = flag.Bool("dry", false, "skip providers and record placeholder assets")
		daemon = flag.Bool("daemon", false, "keep running and fire the daily schedule")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *date != "" && !dateRe.MatchString(*date) {
		log.WithField("date", *date).Fatal("date must be YYYY-MM-DD")
	}

	cfg := config.Load()
	app, err := wiring.Build(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize adapters")
	}
	defer app.Close()

	if *daemon {
		runDaemon(app, cfg, log)
		return
	}

	result, err := app.Pipeline.Run(context.Background(), services.RunOptions{
		Date:   *date,
		DryRun: *dryRun,
	})
	if err != nil {
		log.WithError(err).Fatal("pipeline run failed")
	}
	log.WithFields(logrus.Fields{
		"run_id":    result.RunID,
		"date":      result.Track.Date,
		"has_audio": result.HasAudio,
		"has_image": result.HasImage,
		"has_mint":  result.HasMint,
	}).Info("pipeline run finished")
}

func runDaemon(app *wiring.App, cfg *config.Config, log *logrus.Logger) {
	pool := worker.NewPool(app.Pipeline, log, cfg.Workers, cfg.QueueSize)
	defer pool.Stop()

	daily, err := scheduler.New(pool, cfg.ScheduleHour, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize scheduler")
	}
	daily.Start()
	defer daily.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("hour_utc", cfg.ScheduleHour).Info("daemon running, waiting for schedule")
	<-ctx.Done()
	log.Info("shutting down")
}
