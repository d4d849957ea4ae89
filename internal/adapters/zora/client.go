// Package zora publishes finished tracks as NFTs through the Zora API.
// Minting stays disabled unless explicitly configured; the disabled client
// satisfies the capability with an empty result.
package zora

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/adapters/httpx"
	"github.com/paarad/03-coincerto/internal/core/domain"
	"github.com/paarad/03-coincerto/internal/core/ports"
)

const requestTimeout = 60 * time.Second

// Client implements the mint capability.
type Client struct {
	enabled    bool
	apiURL     string
	apiKey     string
	httpClient *httpx.Client
	log        *logrus.Logger
}

type mintRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url,omitempty"`
	AnimationURL string `json:"animation_url,omitempty"`
	ExternalID   string `json:"external_id"`
}

type mintResponse struct {
	MintURL string `json:"mintUrl"`
	TokenID string `json:"tokenId"`
}

// NewClient constructs a mint client. A client built without enabled=true
// (or without URL/key) is a no-op.
func NewClient(enabled bool, apiURL, apiKey string, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		enabled:    enabled && apiURL != "" && apiKey != "",
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: httpx.NewClient(requestTimeout, log),
		log:        log,
	}
}

// CreateMint publishes the track. Disabled clients return an empty result.
func (c *Client) CreateMint(ctx context.Context, t domain.Track) (ports.MintResult, error) {
	if !c.enabled {
		c.log.Info("zora minting disabled")
		return ports.MintResult{}, nil
	}

	payload := mintRequest{
		Name:        t.Title,
		Description: "Daily market-sentiment composition for " + t.Date,
		ExternalID:  t.ID,
	}
	if t.ImageURL != nil {
		payload.ImageURL = *t.ImageURL
	}
	if t.AudioURL != nil {
		payload.AnimationURL = *t.AudioURL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.MintResult{}, fmt.Errorf("zora: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return ports.MintResult{}, fmt.Errorf("zora: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.MintResult{}, fmt.Errorf("zora: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ports.MintResult{}, fmt.Errorf("zora: unexpected status %d", resp.StatusCode)
	}

	var parsed mintResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ports.MintResult{}, fmt.Errorf("zora: decode response: %w", err)
	}

	c.log.WithField("token_id", parsed.TokenID).Info("created zora mint")
	return ports.MintResult{MintURL: parsed.MintURL, TokenID: parsed.TokenID}, nil
}
