// Package elevenlabs generates music through the ElevenLabs compose API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/adapters/httpx"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	requestTimeout = 2 * time.Minute
	trackLengthMs  = 20000
)

// Client implements the music generation capability against ElevenLabs.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *httpx.Client
	log        *logrus.Logger
}

type composeRequest struct {
	Prompt        string `json:"prompt"`
	MusicLengthMs int    `json:"music_length_ms"`
}

// NewClient constructs a client. Returns nil when no API key is configured,
// which the pipeline treats as "provider not configured".
func NewClient(apiKey string, log *logrus.Logger) *Client {
	if apiKey == "" {
		return nil
	}
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: httpx.NewClient(requestTimeout, log),
		log:        log,
	}
}

// GenerateMusic composes a 20-second instrumental for the prompt and returns
// the audio as a data URL. ElevenLabs takes no seed; the parameter is part of
// the capability contract and is ignored here.
func (c *Client) GenerateMusic(ctx context.Context, prompt string, seed int) (string, error) {
	payload := composeRequest{
		Prompt:        prompt + ". Instrumental only, no vocals, no lyrics.",
		MusicLengthMs: trackLengthMs,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/music", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("elevenlabs: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("elevenlabs: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("elevenlabs: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("elevenlabs: read audio: %w", err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("elevenlabs: empty audio response")
	}

	c.log.WithField("bytes", len(audio)).Info("generated music with elevenlabs")
	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio), nil
}
