// Package replicate generates music with the MusicGen model hosted on
// Replicate: create a prediction, then poll it until it settles.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/adapters/httpx"
)

const (
	defaultBaseURL = "https://api.replicate.com"
	// musicGenVersion pins the MusicGen model build.
	musicGenVersion = "b05b1dff1d8c6dc63d14b0cdb42135378dcb87f6373b0d3d341ede46e59e2dbe"

	requestTimeout     = 30 * time.Second
	defaultPollEvery   = 3 * time.Second
	defaultPollTimeout = 4 * time.Minute
	trackDuration      = 20
)

// Client implements the music generation capability against Replicate.
type Client struct {
	baseURL     string
	token       string
	httpClient  *httpx.Client
	pollEvery   time.Duration
	pollTimeout time.Duration
	log         *logrus.Logger
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt   string `json:"prompt"`
	Duration int    `json:"duration"`
	Seed     int    `json:"seed"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error,omitempty"`
}

// NewClient constructs a client, or nil when no API token is configured.
func NewClient(token string, log *logrus.Logger) *Client {
	if token == "" {
		return nil
	}
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		baseURL:     defaultBaseURL,
		token:       token,
		httpClient:  httpx.NewClient(requestTimeout, log),
		pollEvery:   defaultPollEvery,
		pollTimeout: defaultPollTimeout,
		log:         log,
	}
}

// GenerateMusic submits a MusicGen prediction and polls until it succeeds,
// fails, or the poll window closes. The result is the output audio URL.
func (c *Client) GenerateMusic(ctx context.Context, prompt string, seed int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	created, err := c.createPrediction(ctx, prompt, seed)
	if err != nil {
		return "", err
	}

	ticker := time.NewTicker(c.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("replicate: prediction %s abandoned: %w", created.ID, ctx.Err())
		case <-ticker.C:
		}

		p, err := c.getPrediction(ctx, created.ID)
		if err != nil {
			return "", err
		}

		switch p.Status {
		case "succeeded":
			return outputURL(p.Output)
		case "failed", "canceled":
			return "", fmt.Errorf("replicate: prediction %s %s: %s", p.ID, p.Status, p.Error)
		}
		// starting / processing: keep polling
	}
}

func (c *Client) createPrediction(ctx context.Context, prompt string, seed int) (prediction, error) {
	body, err := json.Marshal(predictionRequest{
		Version: musicGenVersion,
		Input:   predictionInput{Prompt: prompt, Duration: trackDuration, Seed: seed},
	})
	if err != nil {
		return prediction{}, fmt.Errorf("replicate: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return prediction{}, fmt.Errorf("replicate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return prediction{}, fmt.Errorf("replicate: create prediction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return prediction{}, fmt.Errorf("replicate: unexpected status %d", resp.StatusCode)
	}

	var p prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return prediction{}, fmt.Errorf("replicate: decode prediction: %w", err)
	}
	if p.ID == "" {
		return prediction{}, fmt.Errorf("replicate: prediction without id")
	}
	return p, nil
}

func (c *Client) getPrediction(ctx context.Context, id string) (prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/predictions/"+id, nil)
	if err != nil {
		return prediction{}, fmt.Errorf("replicate: build poll request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return prediction{}, fmt.Errorf("replicate: poll prediction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return prediction{}, fmt.Errorf("replicate: poll status %d", resp.StatusCode)
	}

	var p prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return prediction{}, fmt.Errorf("replicate: decode poll response: %w", err)
	}
	return p, nil
}

// outputURL extracts the audio URL; MusicGen returns either a bare string or
// a list of URLs depending on model version.
func outputURL(raw json.RawMessage) (string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[len(many)-1], nil
	}
	return "", fmt.Errorf("replicate: prediction succeeded without usable output")
}
