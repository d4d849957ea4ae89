// Package sqlite provides a SQLite-backed implementation of the track
// repository port, for deployments that prefer one database file over a
// directory of JSON documents.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/paarad/03-coincerto/internal/core/domain"
)

// Adapter implements the repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	// Auto-migrate on startup for local dev
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Save upserts the full record keyed by date; a re-run for the same date
// replaces the prior row.
func (a *Adapter) Save(ctx context.Context, t domain.Track) error {
	indicators, err := json.Marshal(t.Indicators)
	if err != nil {
		return fmt.Errorf("failed to encode indicators: %w", err)
	}
	params, err := json.Marshal(t.MusicParams)
	if err != nil {
		return fmt.Errorf("failed to encode music params: %w", err)
	}

	query := `
		INSERT INTO tracks (
			date, id, title, audio_url, image_url, mint_url, token_id,
			indicators, music_params, music_prompt, image_prompt, seed, audio_energy
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			id=excluded.id,
			title=excluded.title,
			audio_url=excluded.audio_url,
			image_url=excluded.image_url,
			mint_url=excluded.mint_url,
			token_id=excluded.token_id,
			indicators=excluded.indicators,
			music_params=excluded.music_params,
			music_prompt=excluded.music_prompt,
			image_prompt=excluded.image_prompt,
			seed=excluded.seed,
			audio_energy=excluded.audio_energy;
	`
	if _, err := a.db.ExecContext(
		ctx,
		query,
		t.Date,
		t.ID,
		t.Title,
		t.AudioURL,
		t.ImageURL,
		t.MintURL,
		t.TokenID,
		string(indicators),
		string(params),
		t.Prompts.Music,
		t.Prompts.Image,
		t.Seed,
		t.AudioEnergy,
	); err != nil {
		return fmt.Errorf("failed to save track %s: %w", t.Date, err)
	}

	return nil
}

// Load reads the record for a date; domain.ErrNotFound when absent.
func (a *Adapter) Load(ctx context.Context, date string) (domain.Track, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT date, id, title, audio_url, image_url, mint_url, token_id,
			indicators, music_params, music_prompt, image_prompt, seed, audio_energy
		FROM tracks
		WHERE date = ?
	`, date)

	var (
		t           domain.Track
		audioURL    sql.NullString
		imageURL    sql.NullString
		mintURL     sql.NullString
		tokenID     sql.NullString
		indicators  string
		params      string
		audioEnergy sql.NullFloat64
	)
	if err := row.Scan(
		&t.Date,
		&t.ID,
		&t.Title,
		&audioURL,
		&imageURL,
		&mintURL,
		&tokenID,
		&indicators,
		&params,
		&t.Prompts.Music,
		&t.Prompts.Image,
		&t.Seed,
		&audioEnergy,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Track{}, domain.ErrNotFound
		}
		return domain.Track{}, fmt.Errorf("failed to load track: %w", err)
	}

	if audioURL.Valid {
		t.AudioURL = &audioURL.String
	}
	if imageURL.Valid {
		t.ImageURL = &imageURL.String
	}
	if mintURL.Valid {
		t.MintURL = &mintURL.String
	}
	if tokenID.Valid {
		t.TokenID = &tokenID.String
	}
	if audioEnergy.Valid {
		t.AudioEnergy = &audioEnergy.Float64
	}
	if err := json.Unmarshal([]byte(indicators), &t.Indicators); err != nil {
		return domain.Track{}, fmt.Errorf("failed to decode indicators: %w", err)
	}
	if err := json.Unmarshal([]byte(params), &t.MusicParams); err != nil {
		return domain.Track{}, fmt.Errorf("failed to decode music params: %w", err)
	}

	return t, nil
}

// Index returns the summary projection, newest first.
func (a *Adapter) Index(ctx context.Context) (domain.TrackIndex, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, date, title, audio_url, image_url, mint_url
		FROM tracks
		ORDER BY date DESC
	`)
	if err != nil {
		return domain.TrackIndex{}, fmt.Errorf("failed to load index: %w", err)
	}
	defer rows.Close()

	idx := domain.TrackIndex{Tracks: []domain.TrackSummary{}}
	for rows.Next() {
		var (
			entry    domain.TrackSummary
			audioURL sql.NullString
			imageURL sql.NullString
			mintURL  sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Title, &audioURL, &imageURL, &mintURL); err != nil {
			return domain.TrackIndex{}, fmt.Errorf("failed to scan index entry: %w", err)
		}
		if audioURL.Valid {
			entry.AudioURL = &audioURL.String
		}
		if imageURL.Valid {
			entry.ImageURL = &imageURL.String
		}
		if mintURL.Valid {
			entry.MintURL = &mintURL.String
		}
		idx.Tracks = append(idx.Tracks, entry)
	}
	if err := rows.Err(); err != nil {
		return domain.TrackIndex{}, fmt.Errorf("failed to iterate index: %w", err)
	}

	return idx, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		date TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		audio_url TEXT,
		image_url TEXT,
		mint_url TEXT,
		token_id TEXT,
		indicators TEXT NOT NULL,
		music_params TEXT NOT NULL,
		music_prompt TEXT NOT NULL,
		image_prompt TEXT NOT NULL,
		seed INTEGER NOT NULL,
		audio_energy REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}
