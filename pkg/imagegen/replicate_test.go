package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
)

func testRequest() Request {
	return Request{
		Prompt:         "Architectural sketch of a 10 x 20 m house with 2 floors",
		NegativePrompt: "blurry",
		Width:          1024,
		Height:         1024,
		Steps:          30,
		Guidance:       7.5,
	}
}

// replicateServer answers the create call with "starting" and then walks
// through the given statuses on each GET.
func replicateServer(t *testing.T, statuses []string, final map[string]any) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var gets atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer r8_test" {
			t.Errorf("Authorization = %q", got)
		}
		var body predictionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		if body.Version != "v123" {
			t.Errorf("version = %q, want v123", body.Version)
		}
		if body.Input.Width != 1024 || body.Input.Steps != 30 || body.Input.Guidance != 7.5 {
			t.Errorf("unexpected input: %+v", body.Input)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "pred-1", "status": statusStarting})
	})
	mux.HandleFunc("GET /v1/predictions/pred-1", func(w http.ResponseWriter, r *http.Request) {
		i := int(gets.Add(1)) - 1
		status := statuses[min(i, len(statuses)-1)]
		resp := map[string]any{"id": "pred-1", "status": status}
		if status == statuses[len(statuses)-1] {
			for k, v := range final {
				resp[k] = v
			}
		}
		json.NewEncoder(w).Encode(resp)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &gets
}

func newTestReplicate(url string) *Replicate {
	return NewReplicate(ReplicateOptions{
		Token:        "r8_test",
		Version:      "v123",
		BaseURL:      url,
		PollInterval: time.Millisecond,
		Timeout:      5 * time.Second,
	})
}

func TestReplicateGenerate(t *testing.T) {
	srv, gets := replicateServer(t,
		[]string{statusProcessing, statusProcessing, statusSucceeded},
		map[string]any{"output": []string{"https://replicate.delivery/out-0.png"}})

	img, err := newTestReplicate(srv.URL).Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if img.URL != "https://replicate.delivery/out-0.png" {
		t.Errorf("URL = %q", img.URL)
	}
	if img.ID != "pred-1" || img.Provider != ProviderReplicate {
		t.Errorf("unexpected image: %+v", img)
	}
	if n := gets.Load(); n != 3 {
		t.Errorf("polled %d times, want 3", n)
	}
}

func TestReplicateGenerateSingleStringOutput(t *testing.T) {
	srv, _ := replicateServer(t, []string{statusSucceeded},
		map[string]any{"output": "https://replicate.delivery/single.png"})

	img, err := newTestReplicate(srv.URL).Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if img.URL != "https://replicate.delivery/single.png" {
		t.Errorf("URL = %q", img.URL)
	}
}

func TestReplicateGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		final    map[string]any
		wantCode herrors.Code
		wantMsg  string
	}{
		{"failed", statusFailed, map[string]any{"error": "CUDA out of memory"}, herrors.ErrCodeProviderFailed, "image generation failed: CUDA out of memory"},
		{"canceled", statusCanceled, nil, herrors.ErrCodeProviderFailed, "image generation was canceled"},
		{"empty list", statusSucceeded, map[string]any{"output": []string{}}, herrors.ErrCodeEmptyOutput, "image generation returned no output"},
		{"null output", statusSucceeded, map[string]any{"output": nil}, herrors.ErrCodeEmptyOutput, "image generation returned no output"},
		{"script url", statusSucceeded, map[string]any{"output": []string{"javascript:alert(1)"}}, herrors.ErrCodeProviderFailed, "image generation returned an unusable URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := replicateServer(t, []string{statusProcessing, tt.status}, tt.final)
			_, err := newTestReplicate(srv.URL).Generate(context.Background(), testRequest())
			if got := herrors.GetCode(err); got != tt.wantCode {
				t.Fatalf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
			if got := herrors.UserMessage(err); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestReplicateWaitsBeforeFirstPoll(t *testing.T) {
	const interval = 40 * time.Millisecond

	var created, firstGet atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		created.Store(time.Now().UnixNano())
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "pred-1", "status": statusStarting})
	})
	mux.HandleFunc("GET /v1/predictions/pred-1", func(w http.ResponseWriter, r *http.Request) {
		firstGet.CompareAndSwap(0, time.Now().UnixNano())
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pred-1",
			"status": statusSucceeded,
			"output": []string{"https://replicate.delivery/out-0.png"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := newTestReplicate(srv.URL)
	r.poll = interval
	if _, err := r.Generate(context.Background(), testRequest()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if gap := time.Duration(firstGet.Load() - created.Load()); gap < interval {
		t.Errorf("first poll after %v, want at least %v", gap, interval)
	}
}

func TestReplicateCompletedOnCreate(t *testing.T) {
	var gets atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pred-1",
			"status": statusSucceeded,
			"output": []string{"https://replicate.delivery/out-0.png"},
		})
	})
	mux.HandleFunc("GET /v1/predictions/pred-1", func(w http.ResponseWriter, r *http.Request) {
		gets.Add(1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	if _, err := newTestReplicate(srv.URL).Generate(context.Background(), testRequest()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if n := gets.Load(); n != 0 {
		t.Errorf("polled %d times, want 0", n)
	}
}

func TestReplicateUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	defer srv.Close()

	_, err := newTestReplicate(srv.URL).Generate(context.Background(), testRequest())
	if !herrors.Is(err, herrors.ErrCodeUnauthorized) {
		t.Errorf("error = %v, want UNAUTHORIZED", err)
	}
}

func TestReplicatePollHonorsContext(t *testing.T) {
	srv, _ := replicateServer(t, []string{statusProcessing}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := newTestReplicate(srv.URL).Generate(ctx, testRequest())
	if err == nil {
		t.Fatal("expected an error once the context expires")
	}
	if ctx.Err() == nil {
		t.Error("Generate returned before the context expired")
	}
}

func TestReplicateRejectsEmptyPrompt(t *testing.T) {
	r := NewReplicate(ReplicateOptions{Token: "x", BaseURL: "http://127.0.0.1:1"})
	req := testRequest()
	req.Prompt = "   "
	if _, err := r.Generate(context.Background(), req); !herrors.Is(err, herrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}
