// Package wiring assembles the pipeline and its adapters from configuration.
// Both binaries share this so a CLI run and a daemon run behave identically.
package wiring

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/adapters/elevenlabs"
	"github.com/paarad/03-coincerto/internal/adapters/feed"
	"github.com/paarad/03-coincerto/internal/adapters/fsstore"
	"github.com/paarad/03-coincerto/internal/adapters/openai"
	"github.com/paarad/03-coincerto/internal/adapters/overlay"
	"github.com/paarad/03-coincerto/internal/adapters/replicate"
	"github.com/paarad/03-coincerto/internal/adapters/sqlite"
	"github.com/paarad/03-coincerto/internal/adapters/zora"
	"github.com/paarad/03-coincerto/internal/config"
	"github.com/paarad/03-coincerto/internal/core/ports"
	"github.com/paarad/03-coincerto/internal/core/services"
	"github.com/paarad/03-coincerto/internal/worker"
)

// App bundles the assembled pipeline with the stores the HTTP layer needs.
type App struct {
	Pipeline *services.Pipeline
	Repo     ports.TrackRepository
	Media    ports.MediaStore

	closers []func() error
}

// Close releases adapter resources, last-opened first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// Build constructs every adapter the configuration enables and injects them
// into the pipeline. Unconfigured providers stay nil and their assets are
// simply absent from generated tracks.
func Build(cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{}

	// Media always lives on disk; the overlay composites are plain files.
	store, err := fsstore.NewStore(cfg.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("wiring: init file store: %w", err)
	}
	app.Media = store

	switch cfg.StorageDriver {
	case "file":
		app.Repo = store
	case "sqlite":
		db, err := sqlite.NewAdapter(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("wiring: init sqlite: %w", err)
		}
		app.Repo = db
		app.closers = append(app.closers, db.Close)
	default:
		return nil, fmt.Errorf("wiring: unknown storage driver %q", cfg.StorageDriver)
	}

	deps := services.Deps{
		Feed:    feed.NewClient(cfg.FeedURL, log),
		Overlay: overlay.NewCompositor(log),
		Probe:   worker.NewProbe(),
		Repo:    app.Repo,
		Media:   app.Media,
		Log:     log,
	}

	// Assign provider clients only when configured. A nil *Client stored in
	// the interface field would read as non-nil inside the pipeline.
	switch cfg.MusicProvider {
	case "elevenlabs":
		if c := elevenlabs.NewClient(cfg.ElevenLabsAPIKey, log); c != nil {
			deps.Music = c
		}
	case "musicgen":
		if c := replicate.NewClient(cfg.ReplicateAPIToken, log); c != nil {
			deps.Music = c
		}
	case "none":
	default:
		return nil, fmt.Errorf("wiring: unknown music provider %q", cfg.MusicProvider)
	}
	if deps.Music == nil {
		log.Info("music generation not configured, tracks will have no audio")
	}

	if c := openai.NewClient(cfg.ImageAPIURL, cfg.ImageAPIKey, log); c != nil {
		deps.Image = c
	} else {
		log.Info("image generation not configured, tracks will have no cover")
	}

	// The mint client is always present; it no-ops while disabled.
	deps.Minter = zora.NewClient(cfg.Zora.Enabled, cfg.Zora.APIURL, cfg.Zora.APIKey, log)

	app.Pipeline = services.NewPipeline(deps)
	return app, nil
}
