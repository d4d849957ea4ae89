package domain

import (
	"fmt"
	"strings"
)

// Prompts holds the generation prompts persisted with a track.
type Prompts struct {
	Music string `json:"music"`
	Image string `json:"image"`
}

// MusicPrompt renders the music generation prompt. All numeric values are
// interpolated verbatim from the already-rounded parameters.
func MusicPrompt(p MusicParams) string {
	return fmt.Sprintf(`Create an instrumental track with the following characteristics:
- Key: %s %s
- Tempo: %d BPM
- Mood: %s
- Brightness level: %v/10
- Density: %v/10
- Rhythm complexity: %v/10
- Harmony movement: %v/10
- Instrumentation: %s
- Style: Electronic, ambient, cinematic
- Duration: 20 seconds
- No vocals, no lyrics, instrumental only
- High quality audio production`,
		p.Key, p.Mode, p.BPM, strings.Join(p.MoodWords, ", "),
		p.Brightness, p.Density, p.RhythmComplexity, p.HarmonyMovement,
		p.InstrumentHints)
}

// ImagePrompt renders the cover art prompt from the snapshot and its
// derived parameters.
func ImagePrompt(in Indicators, p MusicParams) string {
	var colorPalette string
	switch in.Regime {
	case RegimeBull:
		colorPalette = "warm greens, golden yellows, bright blues"
	case RegimeBear:
		colorPalette = "deep reds, dark purples, muted oranges"
	case RegimeChop:
		colorPalette = "neutral grays, soft blues, balanced tones"
	}

	visualStyle := "smooth, flowing, organic shapes"
	if in.Volatility > 0.6 {
		visualStyle = "dynamic, energetic, sharp angles"
	}

	var complexity string
	switch {
	case in.FearGreed > 70:
		complexity = "complex, detailed, intricate patterns"
	case in.FearGreed < 30:
		complexity = "minimal, simple, clean composition"
	default:
		complexity = "balanced complexity, moderate detail"
	}

	var thematicElements string
	switch in.Dominance {
	case DominanceBTC:
		thematicElements = "geometric patterns, crystalline structures, digital currency symbols"
	case DominanceETH:
		thematicElements = "network nodes, interconnected web, flowing energy"
	case DominanceMixed:
		thematicElements = "abstract financial charts, market dynamics, economic flow"
	}

	return fmt.Sprintf(`Abstract digital art representing cryptocurrency market sentiment:
- Color palette: %s
- Visual style: %s
- Complexity: %s
- Thematic elements: %s
- Mood: %s
- Style: Modern digital art, abstract, financial visualization
- Composition: Square format (1:1 aspect ratio)
- No text, no letters, no numbers in the image
- High quality, artistic, suitable for album cover`,
		colorPalette, visualStyle, complexity, thematicElements,
		strings.Join(p.MoodWords, ", "))
}
