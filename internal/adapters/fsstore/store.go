// Package fsstore persists track records as one JSON document per date,
// with a derived summary index and a media directory for overlaid covers.
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/core/domain"
)

const indexFile = "index.json"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Store implements the track repository and media store over the local
// file system. Single-writer: concurrent pipeline runs for the same date
// are excluded by the external scheduler, not in-process.
type Store struct {
	dataDir  string
	mediaDir string
	log      *logrus.Logger
}

// NewStore prepares the data and media directories.
func NewStore(dataDir string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.New()
	}
	mediaDir := filepath.Join(dataDir, "media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("fsstore: create data directory: %w", err)
	}
	return &Store{dataDir: dataDir, mediaDir: mediaDir, log: log}, nil
}

// Save writes the full record for its date and rebuilds the index entry.
// Saving twice for one date replaces both the record and the entry.
func (s *Store) Save(ctx context.Context, t domain.Track) error {
	if !dateRe.MatchString(t.Date) {
		return fmt.Errorf("fsstore: invalid date %q", t.Date)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("fsstore: marshal track: %w", err)
	}
	path := filepath.Join(s.dataDir, t.Date+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("fsstore: write track: %w", err)
	}
	s.log.WithField("path", path).Info("saved track")

	return s.updateIndex(t)
}

// Load reads the record for a date; domain.ErrNotFound when absent.
func (s *Store) Load(ctx context.Context, date string) (domain.Track, error) {
	if !dateRe.MatchString(date) {
		return domain.Track{}, fmt.Errorf("fsstore: invalid date %q", date)
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, date+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Track{}, domain.ErrNotFound
		}
		return domain.Track{}, fmt.Errorf("fsstore: read track: %w", err)
	}

	var t domain.Track
	if err := json.Unmarshal(data, &t); err != nil {
		return domain.Track{}, fmt.Errorf("fsstore: decode track: %w", err)
	}
	return t, nil
}

// Index returns the summary index, newest first. A missing index file is an
// empty index, not an error.
func (s *Store) Index(ctx context.Context) (domain.TrackIndex, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.TrackIndex{Tracks: []domain.TrackSummary{}}, nil
		}
		return domain.TrackIndex{}, fmt.Errorf("fsstore: read index: %w", err)
	}

	var idx domain.TrackIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return domain.TrackIndex{}, fmt.Errorf("fsstore: decode index: %w", err)
	}
	if idx.Tracks == nil {
		idx.Tracks = []domain.TrackSummary{}
	}
	return idx, nil
}

// updateIndex removes any entry for the track's date, re-inserts the new
// summary, and re-sorts by date descending.
func (s *Store) updateIndex(t domain.Track) error {
	idx, err := s.Index(context.Background())
	if err != nil {
		return err
	}

	kept := idx.Tracks[:0]
	for _, entry := range idx.Tracks {
		if entry.Date != t.Date {
			kept = append(kept, entry)
		}
	}
	kept = append(kept, t.Summary())

	// ISO dates sort lexicographically in chronological order.
	sort.Slice(kept, func(i, j int) bool { return kept[i].Date > kept[j].Date })

	data, err := json.MarshalIndent(domain.TrackIndex{Tracks: kept}, "", "  ")
	if err != nil {
		return fmt.Errorf("fsstore: marshal index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, indexFile), data, 0o644); err != nil {
		return fmt.Errorf("fsstore: write index: %w", err)
	}
	s.log.WithField("tracks", len(kept)).Info("updated index")
	return nil
}

// SaveMedia stores a media file under the media directory. The name is
// flattened to its base to keep writes inside the directory.
func (s *Store) SaveMedia(ctx context.Context, name string, data []byte) error {
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.mediaDir, name), data, 0o644); err != nil {
		return fmt.Errorf("fsstore: write media %s: %w", name, err)
	}
	return nil
}

// Media reads a stored media file; domain.ErrNotFound when absent.
func (s *Store) Media(ctx context.Context, name string) ([]byte, error) {
	name = filepath.Base(name)
	data, err := os.ReadFile(filepath.Join(s.mediaDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fsstore: read media %s: %w", name, err)
	}
	return data, nil
}
