package ports

import (
	"context"

	"github.com/paarad/03-coincerto/internal/core/domain"
)

// IndicatorSource pulls the market-sentiment snapshot for today.
type IndicatorSource interface {
	FetchIndicators(ctx context.Context) (domain.Indicators, error)
}

// MusicGenerator produces an audio reference for a prompt and seed.
// A nil MusicGenerator means no provider is configured; a returned error
// means the provider was tried and failed. Both degrade to an absent
// audio reference on the track.
type MusicGenerator interface {
	GenerateMusic(ctx context.Context, prompt string, seed int) (string, error)
}

// ImageGenerator produces a cover image reference for a prompt and seed,
// with the same nil/error semantics as MusicGenerator.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, seed int) (string, error)
}

// MintResult carries the optional outputs of a mint attempt.
type MintResult struct {
	MintURL string
	TokenID string
}

// Minter publishes a finished track as an NFT. Implementations may be a
// no-op returning an empty result.
type Minter interface {
	CreateMint(ctx context.Context, t domain.Track) (MintResult, error)
}

// OverlayRequest describes a metadata overlay to composite onto a base image.
type OverlayRequest struct {
	BaseImageURL string
	Title        string
	Date         string
	FearGreed    int
	Prices       []float64 // optional sparkline series
	Format       string    // "png" or "jpeg", png by default
}

// Overlayer composites title, date, and sentiment metadata onto a cover image.
type Overlayer interface {
	ApplyOverlay(ctx context.Context, req OverlayRequest) ([]byte, error)
}

// AudioProbe estimates the normalized energy of a generated audio asset.
type AudioProbe interface {
	Energy(ctx context.Context, audioURL string) (float64, error)
}
