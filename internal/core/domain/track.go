package domain

import "errors"

// ErrNotFound is returned by repositories when no record exists for a date.
var ErrNotFound = errors.New("domain: track not found")

// Track is the persisted unit: one per calendar day, overwritten in full
// when the pipeline re-runs for the same date.
type Track struct {
	ID    string `json:"id"`
	Date  string `json:"date"` // YYYY-MM-DD
	Title string `json:"title"`

	// Asset references are independently optional: a nil pointer means the
	// corresponding provider was not configured or its call failed.
	AudioURL *string `json:"audioUrl,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	MintURL  *string `json:"mintUrl,omitempty"`
	TokenID  *string `json:"tokenId,omitempty"`

	Indicators  Indicators  `json:"indicators"`
	MusicParams MusicParams `json:"musicParams"`
	Prompts     Prompts     `json:"prompts"`
	Seed        int         `json:"seed"`

	// AudioEnergy is the normalized RMS energy of the generated audio,
	// filled in best-effort when the audio was decodable.
	AudioEnergy *float64 `json:"audioEnergy,omitempty"`
}

// TrackSummary is the index projection of a track.
type TrackSummary struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Title    string  `json:"title"`
	AudioURL *string `json:"audioUrl,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	MintURL  *string `json:"mintUrl,omitempty"`
}

// TrackIndex lists summaries sorted by date, newest first.
type TrackIndex struct {
	Tracks []TrackSummary `json:"tracks"`
}

// Summary projects a track into its index entry.
func (t Track) Summary() TrackSummary {
	return TrackSummary{
		ID:       t.ID,
		Date:     t.Date,
		Title:    t.Title,
		AudioURL: t.AudioURL,
		ImageURL: t.ImageURL,
		MintURL:  t.MintURL,
	}
}

// TrackID derives the record identity for a date.
func TrackID(date string) string {
	return "coincerto-" + date
}

// TrackTitle derives the display title for a date.
func TrackTitle(date string) string {
	return "Coincerto — " + date
}
