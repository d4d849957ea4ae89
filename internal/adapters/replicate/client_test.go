package replicate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testClient(baseURL string) *Client {
	c := NewClient("test-token", testLogger())
	c.baseURL = baseURL
	c.pollEvery = 5 * time.Millisecond
	c.pollTimeout = time.Second
	return c
}

func TestGenerateMusic_PollsUntilSucceeded(t *testing.T) {
	var polls int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token test-token" {
			t.Errorf("missing token header")
		}
		var req predictionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Input.Duration != 20 || req.Input.Seed != 42 {
			t.Errorf("unexpected input: %+v", req.Input)
		}
		_ = json.NewEncoder(w).Encode(prediction{ID: "p1", Status: "starting"})
	})
	mux.HandleFunc("GET /v1/predictions/p1", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&polls, 1)
		p := prediction{ID: "p1", Status: "processing"}
		if n >= 3 {
			p.Status = "succeeded"
			p.Output = json.RawMessage(`"https://replicate.delivery/out.mp3"`)
		}
		_ = json.NewEncoder(w).Encode(p)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	got, err := testClient(ts.URL).GenerateMusic(context.Background(), "prompt", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://replicate.delivery/out.mp3" {
		t.Fatalf("unexpected output URL: %q", got)
	}
	if atomic.LoadInt32(&polls) < 3 {
		t.Fatalf("expected at least 3 polls, got %d", polls)
	}
}

func TestGenerateMusic_FailedPrediction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(prediction{ID: "p2", Status: "starting"})
	})
	mux.HandleFunc("GET /v1/predictions/p2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(prediction{ID: "p2", Status: "failed", Error: "NSFW content"})
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	if _, err := testClient(ts.URL).GenerateMusic(context.Background(), "prompt", 1); err == nil {
		t.Fatal("expected error for failed prediction")
	}
}

func TestGenerateMusic_AbandonedOnTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(prediction{ID: "p3", Status: "starting"})
	})
	mux.HandleFunc("GET /v1/predictions/p3", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(prediction{ID: "p3", Status: "processing"})
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(ts.URL)
	c.pollTimeout = 30 * time.Millisecond

	if _, err := c.GenerateMusic(context.Background(), "prompt", 1); err == nil {
		t.Fatal("expected timeout error for a prediction that never settles")
	}
}

func TestOutputURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare string", raw: `"https://x/a.mp3"`, want: "https://x/a.mp3"},
		{name: "list takes last", raw: `["https://x/a.mp3","https://x/b.mp3"]`, want: "https://x/b.mp3"},
		{name: "null output", raw: `null`, wantErr: true},
		{name: "empty list", raw: `[]`, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := outputURL(json.RawMessage(tc.raw))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}
