package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/core/domain"
	"github.com/paarad/03-coincerto/internal/core/ports"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestPipeline_Run(t *testing.T) {
	tests := []struct {
		name      string
		deps      func(*mockRepo) Deps
		opts      RunOptions
		wantErr   bool
		wantAudio bool
		wantImage bool
		wantMint  bool
		check     func(*testing.T, domain.Track)
	}{
		{
			name: "happy path with overlay and mint",
			deps: func(repo *mockRepo) Deps {
				return Deps{
					Feed:    &mockFeed{indicators: domain.DemoIndicators()},
					Music:   &mockMusic{url: "https://cdn.example/audio.mp3"},
					Image:   &mockImage{url: "https://cdn.example/cover.png"},
					Overlay: &mockOverlay{data: []byte("png-bytes")},
					Minter:  &mockMinter{result: ports.MintResult{MintURL: "https://zora.co/x", TokenID: "42"}},
					Media:   &mockMedia{},
					Repo:    repo,
				}
			},
			opts:      RunOptions{Date: "2025-08-22"},
			wantAudio: true,
			wantImage: true,
			wantMint:  true,
			check: func(t *testing.T, tr domain.Track) {
				if tr.ImageURL == nil || *tr.ImageURL != "/api/media/coincerto-2025-08-22-overlay.png" {
					t.Fatalf("expected overlay media URL, got %v", tr.ImageURL)
				}
				if tr.Seed != domain.SeedForDate("2025-08-22") {
					t.Fatalf("seed mismatch: %d", tr.Seed)
				}
				if tr.ID != "coincerto-2025-08-22" || tr.Title != "Coincerto — 2025-08-22" {
					t.Fatalf("identity mismatch: %q / %q", tr.ID, tr.Title)
				}
			},
		},
		{
			name: "no providers configured",
			deps: func(repo *mockRepo) Deps {
				return Deps{
					Feed: &mockFeed{indicators: domain.DemoIndicators()},
					Repo: repo,
				}
			},
			opts: RunOptions{Date: "2025-08-22"},
		},
		{
			name: "provider failures degrade to absent assets",
			deps: func(repo *mockRepo) Deps {
				return Deps{
					Feed:   &mockFeed{indicators: domain.DemoIndicators()},
					Music:  &mockMusic{err: errors.New("provider down")},
					Image:  &mockImage{err: errors.New("provider down")},
					Minter: &mockMinter{},
					Repo:   repo,
				}
			},
			opts: RunOptions{Date: "2025-08-22"},
		},
		{
			name: "overlay failure falls back to raw image",
			deps: func(repo *mockRepo) Deps {
				return Deps{
					Feed:    &mockFeed{indicators: domain.DemoIndicators()},
					Image:   &mockImage{url: "https://cdn.example/cover.png"},
					Overlay: &mockOverlay{err: errors.New("composite failed")},
					Media:   &mockMedia{},
					Repo:    repo,
				}
			},
			opts:      RunOptions{Date: "2025-08-22"},
			wantImage: true,
			check: func(t *testing.T, tr domain.Track) {
				if tr.ImageURL == nil || *tr.ImageURL != "https://cdn.example/cover.png" {
					t.Fatalf("expected raw image fallback, got %v", tr.ImageURL)
				}
			},
		},
		{
			name: "feed failure substitutes demo snapshot",
			deps: func(repo *mockRepo) Deps {
				return Deps{
					Feed: &mockFeed{err: errors.New("timeout")},
					Repo: repo,
				}
			},
			opts: RunOptions{Date: "2025-08-22"},
			check: func(t *testing.T, tr domain.Track) {
				if tr.Indicators != domain.DemoIndicators() {
					t.Fatalf("expected demo indicators, got %+v", tr.Indicators)
				}
			},
		},
		{
			name: "dry run substitutes placeholders and skips providers",
			deps: func(repo *mockRepo) Deps {
				return Deps{
					Feed:  &mockFeed{indicators: domain.DemoIndicators()},
					Music: &mockMusic{url: "should-not-be-called"},
					Image: &mockImage{url: "should-not-be-called"},
					Repo:  repo,
				}
			},
			opts:      RunOptions{Date: "2025-08-22", DryRun: true},
			wantAudio: true,
			wantImage: true,
			check: func(t *testing.T, tr domain.Track) {
				if !strings.HasPrefix(*tr.AudioURL, "https://placeholder-audio-") {
					t.Fatalf("expected audio placeholder, got %s", *tr.AudioURL)
				}
				if !strings.HasPrefix(*tr.ImageURL, "https://placeholder-image-") {
					t.Fatalf("expected image placeholder, got %s", *tr.ImageURL)
				}
			},
		},
		{
			name: "persistence failure aborts the run",
			deps: func(repo *mockRepo) Deps {
				repo.saveErr = errors.New("disk full")
				return Deps{
					Feed: &mockFeed{indicators: domain.DemoIndicators()},
					Repo: repo,
				}
			},
			opts:    RunOptions{Date: "2025-08-22"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRepo{}
			deps := tc.deps(repo)
			deps.Log = quietLogger()
			p := NewPipeline(deps)

			res, err := p.Run(context.Background(), tc.opts)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error state: err=%v wantErr=%v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}

			if repo.saved == nil {
				t.Fatal("expected track to be saved")
			}
			if res.HasAudio != tc.wantAudio || res.HasImage != tc.wantImage || res.HasMint != tc.wantMint {
				t.Fatalf("flags mismatch: got audio=%v image=%v mint=%v, want audio=%v image=%v mint=%v",
					res.HasAudio, res.HasImage, res.HasMint, tc.wantAudio, tc.wantImage, tc.wantMint)
			}
			if tc.check != nil {
				tc.check(t, *repo.saved)
			}
		})
	}
}

// Dry run must call no provider.
func TestPipeline_DryRunCallsNoProviders(t *testing.T) {
	music := &mockMusic{url: "x"}
	image := &mockImage{url: "x"}
	repo := &mockRepo{}
	p := NewPipeline(Deps{
		Feed:  &mockFeed{indicators: domain.DemoIndicators()},
		Music: music,
		Image: image,
		Repo:  repo,
		Log:   quietLogger(),
	})

	if _, err := p.Run(context.Background(), RunOptions{Date: "2025-08-22", DryRun: true}); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if music.calls != 0 || image.calls != 0 {
		t.Fatalf("providers were called during dry run: music=%d image=%d", music.calls, image.calls)
	}
}

// --- Mocks ---

type mockFeed struct {
	indicators domain.Indicators
	err        error
}

func (m *mockFeed) FetchIndicators(ctx context.Context) (domain.Indicators, error) {
	if m.err != nil {
		return domain.Indicators{}, m.err
	}
	return m.indicators, nil
}

type mockMusic struct {
	url   string
	err   error
	calls int
}

func (m *mockMusic) GenerateMusic(ctx context.Context, prompt string, seed int) (string, error) {
	m.calls++
	return m.url, m.err
}

type mockImage struct {
	url   string
	err   error
	calls int
}

func (m *mockImage) GenerateImage(ctx context.Context, prompt string, seed int) (string, error) {
	m.calls++
	return m.url, m.err
}

type mockOverlay struct {
	data []byte
	err  error
}

func (m *mockOverlay) ApplyOverlay(ctx context.Context, req ports.OverlayRequest) ([]byte, error) {
	return m.data, m.err
}

type mockMinter struct {
	result ports.MintResult
	err    error
}

func (m *mockMinter) CreateMint(ctx context.Context, t domain.Track) (ports.MintResult, error) {
	return m.result, m.err
}

type mockMedia struct {
	files map[string][]byte
}

func (m *mockMedia) SaveMedia(ctx context.Context, name string, data []byte) error {
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[name] = data
	return nil
}

func (m *mockMedia) Media(ctx context.Context, name string) ([]byte, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

type mockRepo struct {
	saveErr error
	saved   *domain.Track
}

func (m *mockRepo) Save(ctx context.Context, t domain.Track) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &t
	return nil
}

func (m *mockRepo) Load(ctx context.Context, date string) (domain.Track, error) {
	if m.saved != nil && m.saved.Date == date {
		return *m.saved, nil
	}
	return domain.Track{}, domain.ErrNotFound
}

func (m *mockRepo) Index(ctx context.Context) (domain.TrackIndex, error) {
	return domain.TrackIndex{}, nil
}
