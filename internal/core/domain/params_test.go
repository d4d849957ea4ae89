package domain

import (
	"reflect"
	"testing"
)

func validSnapshot() Indicators {
	return Indicators{
		Change24h:  0.0,
		Volatility: 0.5,
		FearGreed:  50,
		Momentum:   0.0,
		Regime:     RegimeChop,
		Activity:   0.5,
		Dominance:  DominanceMixed,
	}
}

func TestToMusicParams_Mode(t *testing.T) {
	tests := []struct {
		regime   Regime
		wantMode string
	}{
		{RegimeBear, "minor"},
		{RegimeBull, "major"},
		{RegimeChop, "dorian"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(string(tc.regime), func(t *testing.T) {
			in := validSnapshot()
			in.Regime = tc.regime
			if got := ToMusicParams(in).Mode; got != tc.wantMode {
				t.Fatalf("mode for %s: want %q, got %q", tc.regime, tc.wantMode, got)
			}
		})
	}
}

func TestToMusicParams_Key(t *testing.T) {
	tests := []struct {
		fearGreed int
		wantKey   string
	}{
		{0, "C"},
		{50, "F#"},
		{100, "B"}, // last index, not out of bounds
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.wantKey, func(t *testing.T) {
			in := validSnapshot()
			in.FearGreed = tc.fearGreed
			if got := ToMusicParams(in).Key; got != tc.wantKey {
				t.Fatalf("key for fearGreed=%d: want %q, got %q", tc.fearGreed, tc.wantKey, got)
			}
		})
	}
}

func TestToMusicParams_MoodWordOrder(t *testing.T) {
	in := validSnapshot()
	in.Regime = RegimeBull
	in.Volatility = 0.8
	in.Momentum = 0.2

	got := ToMusicParams(in).MoodWords
	want := []string{"optimistic", "energetic", "ascending"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mood words: want %v, got %v", want, got)
	}
}

// TestToMusicParams_BullishScenario pins the full mapping for the demo snapshot.
func TestToMusicParams_BullishScenario(t *testing.T) {
	got := ToMusicParams(DemoIndicators())

	if got.BPM != 133 {
		t.Errorf("bpm: want 133, got %d", got.BPM)
	}
	if got.Mode != "major" {
		t.Errorf("mode: want major, got %s", got.Mode)
	}
	if got.Key != "A" {
		t.Errorf("key: want A, got %s", got.Key)
	}
	if got.Brightness != 6.3 {
		t.Errorf("brightness: want 6.3, got %v", got.Brightness)
	}
	if got.InstrumentHints != "polyphonic pads, atmospheric textures, layered harmonies" {
		t.Errorf("unexpected instrument hints: %q", got.InstrumentHints)
	}
	want := []string{"optimistic", "energetic", "ascending"}
	if !reflect.DeepEqual(got.MoodWords, want) {
		t.Errorf("mood words: want %v, got %v", want, got.MoodWords)
	}
}

// TestToMusicParams_Ranges sweeps extreme inputs and checks every output
// stays within its documented clamp.
func TestToMusicParams_Ranges(t *testing.T) {
	regimes := []Regime{RegimeBull, RegimeBear, RegimeChop}
	dominances := []Dominance{DominanceBTC, DominanceETH, DominanceMixed}

	for _, regime := range regimes {
		for _, dominance := range dominances {
			for _, change := range []float64{-1, 0, 1} {
				for _, vol := range []float64{0, 0.6, 1} {
					for _, fg := range []int{0, 30, 70, 100} {
						for _, mom := range []float64{-1, 0, 1} {
							in := Indicators{
								Change24h:  change,
								Volatility: vol,
								FearGreed:  fg,
								Momentum:   mom,
								Regime:     regime,
								Activity:   1,
								Dominance:  dominance,
							}
							if err := in.Validate(); err != nil {
								t.Fatalf("test input should be valid: %v", err)
							}
							p := ToMusicParams(in)
							if p.BPM < 90 || p.BPM > 160 {
								t.Fatalf("bpm %d out of [90,160] for %+v", p.BPM, in)
							}
							if p.Brightness < 2 || p.Brightness > 7 {
								t.Fatalf("brightness %v out of [2,7] for %+v", p.Brightness, in)
							}
							for name, v := range map[string]float64{
								"density":          p.Density,
								"rhythmComplexity": p.RhythmComplexity,
								"harmonyMovement":  p.HarmonyMovement,
							} {
								if v < 1 || v > 10 {
									t.Fatalf("%s %v out of [1,10] for %+v", name, v, in)
								}
							}
							if p.Key == "" || len(p.MoodWords) != 3 {
								t.Fatalf("incomplete params for %+v: %+v", in, p)
							}
						}
					}
				}
			}
		}
	}
}
