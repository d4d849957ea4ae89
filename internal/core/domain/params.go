package domain

import "math"

// Keys is the chromatic scale used for key selection, ordered from C.
var Keys = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MusicParams are the generation parameters derived from one Indicators
// snapshot. All values are already rounded and clamped; consumers must not
// re-derive them.
type MusicParams struct {
	BPM              int      `json:"bpm"`              // 90..160
	Mode             string   `json:"mode"`             // major/minor/dorian/aeolian
	Brightness       float64  `json:"brightness"`       // 2..7, one decimal
	Density          float64  `json:"density"`          // 1..10, one decimal
	RhythmComplexity float64  `json:"rhythmComplexity"` // 1..10, one decimal
	HarmonyMovement  float64  `json:"harmonyMovement"`  // 1..10, one decimal
	Key              string   `json:"key"`
	InstrumentHints  string   `json:"instrumentHints"`
	MoodWords        []string `json:"moodWords"` // regime word, energy word, direction word
}

// ToMusicParams maps a validated snapshot onto music parameters.
// Pure and total: no I/O, no failure path.
func ToMusicParams(in Indicators) MusicParams {
	bpm := clamp(120+in.Change24h*25+in.Volatility*15, 90, 160)

	var mode string
	switch in.Regime {
	case RegimeBear:
		mode = "minor"
	case RegimeBull:
		mode = "major"
	case RegimeChop:
		mode = "dorian"
	default:
		mode = "aeolian" // unreachable for validated input
	}

	bullBoost := 0.0
	if in.Regime == RegimeBull {
		bullBoost = 0.5
	}
	// Reduced intensity to avoid overly bright, shrill output.
	brightness := clamp(float64(in.FearGreed)/20+in.Momentum*1.5+bullBoost+2, 2, 7)

	density := clamp(3+in.Volatility*5+in.Activity*2, 1, 10)

	chopBoost := 0.0
	if in.Regime == RegimeChop {
		chopBoost = 1
	}
	rhythmComplexity := clamp(2+in.Volatility*6+chopBoost, 1, 10)

	harmonyMovement := clamp(2+(in.Momentum+1)*3, 1, 10)

	keyIndex := in.FearGreed * len(Keys) / 100
	if keyIndex > len(Keys)-1 {
		keyIndex = len(Keys) - 1 // fearGreed == 100
	}

	var instrumentHints string
	switch in.Dominance {
	case DominanceBTC:
		instrumentHints = "mono lead synthesizer, focused bass, tight arrangement"
	case DominanceETH:
		instrumentHints = "polyphonic pads, atmospheric textures, layered harmonies"
	case DominanceMixed:
		instrumentHints = "balanced ensemble, varied textures, dynamic interplay"
	default:
		panic("domain: unmapped dominance " + string(in.Dominance))
	}

	moodWords := make([]string, 0, 3)
	switch in.Regime {
	case RegimeBull:
		moodWords = append(moodWords, "optimistic")
	case RegimeBear:
		moodWords = append(moodWords, "brooding")
	case RegimeChop:
		moodWords = append(moodWords, "neutral")
	}
	if in.Volatility > 0.6 {
		moodWords = append(moodWords, "energetic")
	} else {
		moodWords = append(moodWords, "calm")
	}
	if in.Momentum > 0 {
		moodWords = append(moodWords, "ascending")
	} else {
		moodWords = append(moodWords, "weighty")
	}

	return MusicParams{
		BPM:              int(math.Round(bpm)),
		Mode:             mode,
		Brightness:       round1(brightness),
		Density:          round1(density),
		RhythmComplexity: round1(rhythmComplexity),
		HarmonyMovement:  round1(harmonyMovement),
		Key:              Keys[keyIndex],
		InstrumentHints:  instrumentHints,
		MoodWords:        moodWords,
	}
}

func clamp(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
