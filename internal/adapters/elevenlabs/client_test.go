package elevenlabs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewClient_NilWithoutKey(t *testing.T) {
	if c := NewClient("", testLogger()); c != nil {
		t.Fatal("expected nil client without an API key")
	}
}

func TestGenerateMusic(t *testing.T) {
	var gotAuth string
	var gotBody composeRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/music" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("xi-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer ts.Close()

	c := NewClient("test-key", testLogger())
	c.baseURL = ts.URL

	got, err := c.GenerateMusic(context.Background(), "Create an instrumental track", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "test-key" {
		t.Errorf("api key header: got %q", gotAuth)
	}
	if !strings.HasSuffix(gotBody.Prompt, "Instrumental only, no vocals, no lyrics.") {
		t.Errorf("prompt missing instrumental directive: %q", gotBody.Prompt)
	}
	if gotBody.MusicLengthMs != 20000 {
		t.Errorf("music_length_ms: got %d", gotBody.MusicLengthMs)
	}
	if !strings.HasPrefix(got, "data:audio/mpeg;base64,") {
		t.Errorf("expected data URL, got %q", got)
	}
}

func TestGenerateMusic_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name: "empty audio",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()

			c := NewClient("test-key", testLogger())
			c.baseURL = ts.URL

			if _, err := c.GenerateMusic(context.Background(), "prompt", 1); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
