// Package openai generates cover art through an OpenAI-compatible image API.
package openai

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

const requestTimeout = 60 * time.Second

// Client implements the image generation capability.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *httpx.Client
	log        *logrus.Logger
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// NewClient constructs a client, or nil when URL or key is missing.
func NewClient(apiURL, apiKey string, log *logrus.Logger) *Client {
	if apiURL == "" || apiKey == "" {
		return nil
	}
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: httpx.NewClient(requestTimeout, log),
		log:        log,
	}
}

// GenerateImage requests one square cover image for the prompt and returns
// its URL. The API offers no seed parameter; reproducibility rests on the
// deterministic prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string, seed int) (string, error) {
	body, err := json.Marshal(imageRequest{
		Model:   "dall-e-3",
		Prompt:  prompt,
		N:       1,
		Size:    "1024x1024",
		Quality: "standard",
		Style:   "natural",
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}

	var parsed imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", fmt.Errorf("openai: response without image url")
	}

	c.log.Info("generated cover image")
	return parsed.Data[0].URL, nil
}
