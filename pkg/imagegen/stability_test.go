package imagegen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestStabilityGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != stabilityCorePath {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "image/*" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		if got := r.FormValue("prompt"); got != testRequest().Prompt {
			t.Errorf("prompt = %q", got)
		}
		if got := r.FormValue("aspect_ratio"); got != "1:1" {
			t.Errorf("aspect_ratio = %q", got)
		}
		if got := r.FormValue("negative_prompt"); got != "blurry" {
			t.Errorf("negative_prompt = %q", got)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngMagic)
	}))
	defer srv.Close()

	s := NewStability(StabilityOptions{APIKey: "sk-test", BaseURL: srv.URL, Timeout: 5 * time.Second})
	img, err := s.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if string(img.Data) != string(pngMagic) {
		t.Errorf("Data = %v", img.Data)
	}
	if img.MediaType != "image/png" || img.Provider != ProviderStability || img.ID == "" {
		t.Errorf("unexpected image: %+v", img)
	}
}

func TestStabilityEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	}))
	defer srv.Close()

	s := NewStability(StabilityOptions{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := s.Generate(context.Background(), testRequest())
	if !herrors.Is(err, herrors.ErrCodeEmptyOutput) {
		t.Errorf("error = %v, want PROVIDER_EMPTY_OUTPUT", err)
	}
}

func TestStabilityRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "10")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewStability(StabilityOptions{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := s.Generate(context.Background(), testRequest())
	if !herrors.Is(err, herrors.ErrCodeRateLimited) {
		t.Errorf("error = %v, want RATE_LIMITED", err)
	}
}

func TestAspectRatio(t *testing.T) {
	tests := []struct {
		w, h int
		want string
	}{
		{1024, 1024, "1:1"},
		{1920, 1080, "16:9"},
		{1080, 1920, "9:16"},
		{1200, 800, "3:2"},
		{2560, 1080, "21:9"},
		{800, 1000, "4:5"},
		{0, 100, "1:1"},
	}
	for _, tt := range tests {
		if got := AspectRatio(tt.w, tt.h); got != tt.want {
			t.Errorf("AspectRatio(%d, %d) = %q, want %q", tt.w, tt.h, got, tt.want)
		}
	}
}
