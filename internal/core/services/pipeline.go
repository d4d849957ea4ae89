// Package services contains the pipeline orchestrator that turns one day's
// market sentiment into a persisted track.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/core/domain"
	"github.com/paarad/03-coincerto/internal/core/ports"
)

// Deps wires the pipeline's collaborators. Repo is the only required
// dependency; every nil provider degrades to the corresponding asset being
// absent on the track.
type Deps struct {
	Feed    ports.IndicatorSource
	Music   ports.MusicGenerator
	Image   ports.ImageGenerator
	Overlay ports.Overlayer
	Minter  ports.Minter
	Probe   ports.AudioProbe
	Repo    ports.TrackRepository
	Media   ports.MediaStore
	Log     *logrus.Logger
}

// Pipeline sequences one daily run: fetch indicators, map parameters,
// generate prompts, invoke providers, composite the overlay, and persist.
type Pipeline struct {
	deps Deps
}

// RunOptions configures a single pipeline invocation.
type RunOptions struct {
	// Date in YYYY-MM-DD; defaults to today (UTC).
	Date string
	// DryRun substitutes placeholder asset URLs instead of calling providers.
	DryRun bool
}

// RunResult reports what a run produced. The pipeline never fails because a
// provider did; only an unsaved track is a hard failure.
type RunResult struct {
	RunID    string
	Track    domain.Track
	HasAudio bool
	HasImage bool
	HasMint  bool
}

// NewPipeline constructs a Pipeline.
func NewPipeline(deps Deps) *Pipeline {
	if deps.Log == nil {
		deps.Log = logrus.New()
	}
	return &Pipeline{deps: deps}
}

// Run executes the pipeline for one date. Re-running for the same date
// overwrites the prior record.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	date := opts.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	seed := domain.SeedForDate(date)
	runID := uuid.NewString()

	log := p.deps.Log.WithFields(logrus.Fields{
		"run_id": runID,
		"date":   date,
		"seed":   seed,
		"dry":    opts.DryRun,
	})
	log.Info("starting pipeline run")

	// 1. Fetch the market snapshot. A feed failure is recoverable: log it
	// and continue with the demo snapshot, never crash the run.
	indicators := p.fetchIndicators(ctx, log)

	// 2. Map indicators onto music parameters (pure, total).
	params := domain.ToMusicParams(indicators)

	// 3. Build the generation prompts from the already-rounded parameters.
	prompts := domain.Prompts{
		Music: domain.MusicPrompt(params),
		Image: domain.ImagePrompt(indicators, params),
	}

	track := domain.Track{
		ID:          domain.TrackID(date),
		Date:        date,
		Title:       domain.TrackTitle(date),
		Indicators:  indicators,
		MusicParams: params,
		Prompts:     prompts,
		Seed:        seed,
	}

	if opts.DryRun {
		log.Info("dry run: substituting placeholder assets")
		audio := fmt.Sprintf("https://placeholder-audio-%d.wav", seed)
		image := fmt.Sprintf("https://placeholder-image-%d.jpg", seed)
		track.AudioURL = &audio
		track.ImageURL = &image
	} else {
		p.generateAssets(ctx, log, &track)
	}

	// Persist always runs last and is the one hard failure: a track that
	// cannot be saved has no value.
	if err := p.deps.Repo.Save(ctx, track); err != nil {
		return RunResult{}, fmt.Errorf("pipeline: save track: %w", err)
	}

	result := RunResult{
		RunID:    runID,
		Track:    track,
		HasAudio: track.AudioURL != nil,
		HasImage: track.ImageURL != nil,
		HasMint:  track.MintURL != nil,
	}
	log.WithFields(logrus.Fields{
		"audio": result.HasAudio,
		"image": result.HasImage,
		"mint":  result.HasMint,
	}).Info("pipeline run complete")
	return result, nil
}

func (p *Pipeline) fetchIndicators(ctx context.Context, log *logrus.Entry) domain.Indicators {
	if p.deps.Feed == nil {
		log.Warn("no indicator source configured, using demo snapshot")
		return domain.DemoIndicators()
	}
	indicators, err := p.deps.Feed.FetchIndicators(ctx)
	if err != nil {
		log.WithError(err).Warn("indicator feed unavailable, using demo snapshot")
		return domain.DemoIndicators()
	}
	return indicators
}

// generateAssets runs music and image generation concurrently, then the
// overlay, audio probe, and mint steps. Every failure here degrades to an
// absent field, logged but never fatal.
func (p *Pipeline) generateAssets(ctx context.Context, log *logrus.Entry, track *domain.Track) {
	var (
		wg       sync.WaitGroup
		audioURL string
		imageURL string
	)

	if p.deps.Music != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url, err := p.deps.Music.GenerateMusic(ctx, track.Prompts.Music, track.Seed)
			if err != nil {
				log.WithError(err).Warn("music generation failed")
				return
			}
			audioURL = url
		}()
	} else {
		log.Info("no music provider configured, skipping music generation")
	}

	if p.deps.Image != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url, err := p.deps.Image.GenerateImage(ctx, track.Prompts.Image, track.Seed)
			if err != nil {
				log.WithError(err).Warn("image generation failed")
				return
			}
			imageURL = url
		}()
	} else {
		log.Info("no image provider configured, skipping image generation")
	}

	// Overlay, mint, and persist happen only after both generations join.
	wg.Wait()

	if audioURL != "" {
		track.AudioURL = &audioURL
	}
	if imageURL != "" {
		final := p.applyOverlay(ctx, log, track, imageURL)
		track.ImageURL = &final
	}

	if track.AudioURL != nil && p.deps.Probe != nil {
		if energy, err := p.deps.Probe.Energy(ctx, *track.AudioURL); err != nil {
			log.WithError(err).Debug("audio energy probe skipped")
		} else {
			track.AudioEnergy = &energy
		}
	}

	if track.AudioURL == nil || track.ImageURL == nil {
		log.Info("skipping mint: audio or image missing")
		return
	}
	if p.deps.Minter == nil {
		return
	}
	mint, err := p.deps.Minter.CreateMint(ctx, *track)
	if err != nil {
		log.WithError(err).Warn("mint failed")
		return
	}
	if mint.MintURL != "" {
		track.MintURL = &mint.MintURL
	}
	if mint.TokenID != "" {
		track.TokenID = &mint.TokenID
	}
}

// applyOverlay composites the metadata band onto the generated cover and
// stores it in the media store. Any failure falls back to the raw image URL.
func (p *Pipeline) applyOverlay(ctx context.Context, log *logrus.Entry, track *domain.Track, imageURL string) string {
	if p.deps.Overlay == nil || p.deps.Media == nil {
		return imageURL
	}

	data, err := p.deps.Overlay.ApplyOverlay(ctx, ports.OverlayRequest{
		BaseImageURL: imageURL,
		Title:        "Coincerto",
		Date:         track.Date,
		FearGreed:    track.Indicators.FearGreed,
		Format:       "png",
	})
	if err != nil {
		log.WithError(err).Warn("overlay failed, keeping raw image")
		return imageURL
	}

	name := track.ID + "-overlay.png"
	if err := p.deps.Media.SaveMedia(ctx, name, data); err != nil {
		log.WithError(err).Warn("failed to store overlay, keeping raw image")
		return imageURL
	}
	return "/api/media/" + name
}
