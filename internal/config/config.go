// Package config loads application configuration from environment variables.
// A .env file is honored when present so local runs need no exported shell state.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every setting the pipeline and API need.
// Load it once at startup with Load().
type Config struct {
	// HTTPAddr is the API listen address.
	HTTPAddr string

	// DataDir is the root for track records, the index, and media files.
	DataDir string

	// StorageDriver selects the track repository: "file" or "sqlite".
	StorageDriver string

	// SQLitePath is the database file used when StorageDriver is "sqlite".
	SQLitePath string

	// FeedURL is the market-sentiment feed endpoint.
	FeedURL string

	// MusicProvider selects music generation: "elevenlabs", "musicgen", "none".
	MusicProvider string

	ElevenLabsAPIKey  string
	ReplicateAPIToken string

	// ImageAPIURL and ImageAPIKey configure the image generation endpoint.
	ImageAPIURL string
	ImageAPIKey string

	// Zora holds mint settings; minting stays disabled unless Enabled is set.
	Zora ZoraConfig

	// ScheduleHour is the UTC hour (0-23) for the daemon's daily run.
	ScheduleHour int

	// Workers and QueueSize size the background run pool.
	Workers   int
	QueueSize int
}

// ZoraConfig holds NFT mint settings.
type ZoraConfig struct {
	Enabled bool
	APIURL  string
	APIKey  string
}

const defaultFeedURL = "https://paarad.github.io/02-market-sentiment-feed/feed.json"

// Load reads all configuration from the environment.
// It attempts to load a .env file first (for local development).
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DataDir:           getEnv("DATA_DIR", "data/tracks"),
		StorageDriver:     getEnv("STORAGE_DRIVER", "file"),
		SQLitePath:        getEnv("SQLITE_PATH", "coincerto.db"),
		FeedURL:           getEnv("FEED_URL", defaultFeedURL),
		MusicProvider:     getEnv("MUSIC_PROVIDER", "elevenlabs"),
		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ReplicateAPIToken: getEnv("REPLICATE_API_TOKEN", ""),
		ImageAPIURL:       getEnv("IMAGE_API_URL", ""),
		ImageAPIKey:       getEnv("IMAGE_API_KEY", ""),
		Zora: ZoraConfig{
			Enabled: getEnvBool("ZORA_ENABLED", false),
			APIURL:  getEnv("ZORA_API_URL", ""),
			APIKey:  getEnv("ZORA_API_KEY", ""),
		},
		ScheduleHour: clampHour(getEnvInt("SCHEDULE_HOUR", 9)),
		Workers:      getEnvInt("PIPELINE_WORKERS", 1),
		QueueSize:    getEnvInt("PIPELINE_QUEUE_SIZE", 4),
	}
}

func clampHour(h int) int {
	if h < 0 || h > 23 {
		return 9
	}
	return h
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvBool returns the environment variable as bool or a default.
func getEnvBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
