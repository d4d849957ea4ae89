package ports

import (
	"context"

	"github.com/paarad/03-coincerto/internal/core/domain"
)

// TrackRepository persists full track records keyed by date and maintains
// the derived summary index. Save is an idempotent upsert: re-running the
// pipeline for a date replaces the prior record and its index entry.
type TrackRepository interface {
	Save(ctx context.Context, t domain.Track) error
	Load(ctx context.Context, date string) (domain.Track, error)
	Index(ctx context.Context) (domain.TrackIndex, error)
}

// MediaStore persists generated media files (overlaid covers) by name.
type MediaStore interface {
	SaveMedia(ctx context.Context, name string, data []byte) error
	Media(ctx context.Context, name string) ([]byte, error)
}
