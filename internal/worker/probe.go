package worker

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// Probe estimates the loudness of a generated audio asset by decoding it
// and computing its normalized RMS energy. The value is informational and
// stored alongside the track when the audio is decodable.
type Probe struct {
	client *http.Client
}

// NewProbe creates an audio probe with a bounded fetch timeout.
func NewProbe() *Probe {
	return &Probe{client: &http.Client{Timeout: 30 * time.Second}}
}

const dataURLPrefix = "data:audio/mpeg;base64,"

// Energy returns a value in [0, 1], or an error when the audio reference
// cannot be fetched or decoded.
func (p *Probe) Energy(ctx context.Context, audioURL string) (float64, error) {
	reader, err := p.open(ctx, audioURL)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	decoder, err := mp3.NewDecoder(reader)
	if err != nil {
		return 0, fmt.Errorf("worker: audio decode failed: %w", err)
	}

	buf := make([]byte, 4096)
	var sumSquares float64
	var count float64

	for {
		n, err := decoder.Read(buf)
		if n > 0 {
			for i := 0; i+1 < n; i += 2 {
				sample := int16(buf[i]) | int16(buf[i+1])<<8
				val := float64(sample)
				sumSquares += val * val
				count++
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("worker: audio read failed: %w", err)
		}
	}

	if count == 0 {
		return 0, fmt.Errorf("worker: audio contains no samples")
	}

	rms := math.Sqrt(sumSquares / count)
	energy := rms / 32768.0
	if energy < 0 {
		energy = 0
	}
	if energy > 1 {
		energy = 1
	}

	return energy, nil
}

func (p *Probe) open(ctx context.Context, audioURL string) (io.ReadCloser, error) {
	if strings.HasPrefix(audioURL, dataURLPrefix) {
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(audioURL, dataURLPrefix))
		if err != nil {
			return nil, fmt.Errorf("worker: audio data url decode failed: %w", err)
		}
		return io.NopCloser(bytes.NewReader(raw)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("worker: audio fetch request failed: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("worker: audio fetch failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("worker: audio fetch status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
