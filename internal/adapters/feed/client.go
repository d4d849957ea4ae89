// Package feed pulls the daily market-sentiment snapshot from the published
// sentiment feed and transforms it into domain indicators.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Client fetches and transforms the sentiment feed.
type Client struct {
	feedURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

type feedPayload struct {
	Summary feedSummary `json:"summary"`
}

// Pointer fields distinguish absent values, which default to neutral 0.5.
type feedSummary struct {
	CryptoSentiment   *float64 `json:"crypto_sentiment"`
	GlobalSentiment   *float64 `json:"global_sentiment"`
	CombinedSentiment *float64 `json:"combined_sentiment"`
	Confidence        *float64 `json:"confidence"`
}

// NewClient constructs a feed client for the given URL.
func NewClient(feedURL string, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		feedURL:    strings.TrimSpace(feedURL),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log,
	}
}

// FetchIndicators pulls the feed and returns validated indicators.
// Any failure (network, decode, out-of-range values) is returned to the
// caller; the pipeline decides how to recover.
func (c *Client) FetchIndicators(ctx context.Context) (domain.Indicators, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return domain.Indicators{}, fmt.Errorf("feed: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Indicators{}, fmt.Errorf("feed: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Indicators{}, fmt.Errorf("feed: unexpected status %d", resp.StatusCode)
	}

	var payload feedPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Indicators{}, fmt.Errorf("feed: decode response: %w", err)
	}

	indicators := transformSummary(payload.Summary)
	if err := indicators.Validate(); err != nil {
		return domain.Indicators{}, fmt.Errorf("feed: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"regime":    indicators.Regime,
		"fearGreed": indicators.FearGreed,
	}).Info("fetched market indicators")
	return indicators, nil
}

// transformSummary maps the feed's sentiment scores onto market indicators.
// Higher crypto sentiment reads bullish; the spread between global and crypto
// sentiment decides dominance.
func transformSummary(s feedSummary) domain.Indicators {
	crypto := orNeutral(s.CryptoSentiment)
	global := orNeutral(s.GlobalSentiment)
	combined := orNeutral(s.CombinedSentiment)
	confidence := orNeutral(s.Confidence)

	var regime domain.Regime
	switch {
	case crypto > 0.6:
		regime = domain.RegimeBull
	case crypto < 0.4:
		regime = domain.RegimeBear
	default:
		regime = domain.RegimeChop
	}

	var dominance domain.Dominance
	switch {
	case global > crypto+0.1:
		dominance = domain.DominanceBTC
	case crypto > 0.6:
		dominance = domain.DominanceETH
	default:
		dominance = domain.DominanceMixed
	}

	return domain.Indicators{
		Change24h:  (crypto - 0.5) * 1.6,
		Volatility: math.Abs(crypto-0.5) * 2,
		FearGreed:  int(math.Floor(crypto * 100)),
		Momentum:   (combined - 0.5) * 2,
		Regime:     regime,
		Activity:   confidence,
		Dominance:  dominance,
	}
}

func orNeutral(v *float64) float64 {
	if v == nil {
		return 0.5
	}
	return *v
}
