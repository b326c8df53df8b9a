package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/imagegen"
	"github.com/matzehuels/housesketch/pkg/pipeline"
	"github.com/matzehuels/housesketch/pkg/prompt"
)

const scenarioQuery = "width=10&length=20&floors=2&features=garden,parking"

type fakeGenerator struct {
	calls int
	err   error
	url   string
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) Generate(_ context.Context, req imagegen.Request) (*imagegen.Image, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	src := g.url
	if src == "" {
		src = "https://example.com/img.png"
	}
	return &imagegen.Image{ID: "img-1", Provider: "fake", URL: src}, nil
}

func newTestServer(t *testing.T, gen imagegen.Generator, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	runner.Generator = gen
	ts := httptest.NewServer(New(runner, logger, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func post(t *testing.T, url, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func decodeError(t *testing.T, body []byte) errorDetail {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("error body %q: %v", body, err)
	}
	return e.Error
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestPlanJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name string
		do   func() (*http.Response, []byte)
	}{
		{"query", func() (*http.Response, []byte) { return get(t, ts.URL+"/api/plan?"+scenarioQuery) }},
		{"body", func() (*http.Response, []byte) {
			return post(t, ts.URL+"/api/plan", "application/json",
				`{"width":10,"length":20,"floors":2,"features":["garden","parking"]}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := tt.do()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var doc struct {
				Footprint struct {
					AreaM2 float64 `json:"area_m2"`
				} `json:"footprint"`
				Floors []json.RawMessage `json:"floors"`
				Prompt string            `json:"prompt"`
			}
			if err := json.Unmarshal(body, &doc); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if doc.Footprint.AreaM2 < 133.99 || doc.Footprint.AreaM2 > 134.01 {
				t.Errorf("footprint = %v, want 134", doc.Footprint.AreaM2)
			}
			if len(doc.Floors) != 2 {
				t.Errorf("floors = %d, want 2", len(doc.Floors))
			}
			if !strings.HasSuffix(doc.Prompt, prompt.Tail) {
				t.Errorf("prompt = %q", doc.Prompt)
			}
		})
	}
}

func TestPlanRejectsUnknownJSONFields(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, body := post(t, ts.URL+"/api/plan", "application/json", `{"width":10,"length":20,"colour":"red"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if e := decodeError(t, body); e.Code != herrors.ErrCodeInvalidInput {
		t.Errorf("code = %s", e.Code)
	}
}

func TestBadInput(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		query string
		code  herrors.Code
	}{
		{"width=0&length=20", herrors.ErrCodeInvalidLot},
		{"width=abc&length=20", herrors.ErrCodeInvalidLot},
		{"width=10&length=20&floors=11", herrors.ErrCodeInvalidFloors},
		{"width=10&length=20&floors=two", herrors.ErrCodeInvalidFloors},
		{"width=10&length=20&features=moat", herrors.ErrCodeInvalidFeature},
		{"width=10&length=20&unit=ft", herrors.ErrCodeInvalidUnit},
		{"width=10&length=20&detail=101", herrors.ErrCodeInvalidDetail},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/api/plan?"+tt.query)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if e := decodeError(t, body); e.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", e.Code, tt.code, e.Message)
			}
		})
	}
}

func TestDrawings(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/plan/site.svg", http.StatusOK},
		{"/api/plan/floors/1.svg", http.StatusOK},
		{"/api/plan/floors/2.svg", http.StatusOK},
		{"/api/plan/floors/3.svg", http.StatusNotFound},
		{"/api/plan/floors/0.svg", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path+"?"+scenarioQuery)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			if tt.status != http.StatusOK {
				return
			}
			if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
				t.Errorf("Content-Type = %q", ct)
			}
			if !bytes.HasPrefix(body, []byte("<svg")) {
				t.Errorf("body does not start with <svg: %.40s", body)
			}
		})
	}
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		format    string
		mediaType string
		fileName  string
	}{
		{"pdf", "application/pdf", "house-plan_10x20m.pdf"},
		{"json", "application/json", "house-plan_10x20m.json"},
		{"xlsx", pipeline.MediaTypes[pipeline.FormatXLSX], "house-plan_10x20m.xlsx"},
		{"svg", "image/svg+xml", "site-plan_10x20m.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/api/plan/export."+tt.format+"?"+scenarioQuery)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.mediaType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.mediaType)
			}
			cd := resp.Header.Get("Content-Disposition")
			if !strings.Contains(cd, "attachment") || !strings.Contains(cd, tt.fileName) {
				t.Errorf("Content-Disposition = %q, want %s", cd, tt.fileName)
			}
			if len(body) == 0 {
				t.Error("empty body")
			}
		})
	}
}

func TestExportUnknownFormat(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, body := get(t, ts.URL+"/api/plan/export.gif?"+scenarioQuery)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if e := decodeError(t, body); e.Code != herrors.ErrCodeInvalidFormat {
		t.Errorf("code = %s", e.Code)
	}
}

func TestPrompt(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, body := post(t, ts.URL+"/api/prompt", "application/json",
		`{"width":10,"length":20,"floors":2,"features":["garden","parking"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var got promptResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	want := "Architectural sketch of a 10 x 20 m house with 2 floors, including: Front Yard Garden, Parking Area" + prompt.Tail
	if got.Prompt != want {
		t.Errorf("prompt = %q\nwant %q", got.Prompt, want)
	}
	if got.NegativePrompt != prompt.NegativePrompt {
		t.Errorf("negative prompt = %q", got.NegativePrompt)
	}
}

func TestGenerate(t *testing.T) {
	gen := &fakeGenerator{}
	ts := newTestServer(t, gen)

	resp, body := post(t, ts.URL+"/api/generate", "application/json", `{"width":10,"length":20}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var g pipeline.Generation
	if err := json.Unmarshal(body, &g); err != nil {
		t.Fatal(err)
	}
	if g.Image == nil || g.Image.URL != "https://example.com/img.png" {
		t.Errorf("image = %+v", g.Image)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times", gen.calls)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		gen    imagegen.Generator
		status int
		code   herrors.Code
	}{
		{"not configured", nil, http.StatusServiceUnavailable, herrors.ErrCodeUnsupported},
		{"provider failed", &fakeGenerator{err: herrors.New(herrors.ErrCodeProviderFailed, "model exploded")},
			http.StatusBadGateway, herrors.ErrCodeProviderFailed},
		{"timeout", &fakeGenerator{err: herrors.New(herrors.ErrCodeTimeout, "too slow")},
			http.StatusGatewayTimeout, herrors.ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.gen)
			resp, body := post(t, ts.URL+"/api/generate", "application/json", `{"width":10,"length":20}`)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			if e := decodeError(t, body); e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
		})
	}
}

func TestGenerateRateLimit(t *testing.T) {
	gen := &fakeGenerator{}
	ts := newTestServer(t, gen, WithRateLimit(0.001, 1))

	resp, _ := post(t, ts.URL+"/api/generate", "application/json", `{"width":10,"length":20}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first request status = %d", resp.StatusCode)
	}
	resp, body := post(t, ts.URL+"/api/generate", "application/json", `{"width":10,"length":20}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d", resp.StatusCode)
	}
	if e := decodeError(t, body); e.Code != herrors.ErrCodeRateLimited {
		t.Errorf("code = %s", e.Code)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, _ := get(t, ts.URL+"/healthz")
	if id := resp.Header.Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request ID = %q", id)
	}

	const id = "6f1c7d2e-8a5b-4c3d-9e0f-1a2b3c4d5e6f"
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	r2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	r2.Body.Close()
	if got := r2.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request ID = %q, want %q", got, id)
	}
}

func TestFormPage(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	page := string(body)
	for _, want := range []string{`<form method="post"`, `name="features" value="pool"`, "Outdoor Toilet"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestFormSubmit(t *testing.T) {
	ts := newTestServer(t, nil)
	form := url.Values{
		"width":    {"10"},
		"length":   {"20"},
		"floors":   {"2"},
		"features": {"garden", "parking"},
	}
	resp, body := post(t, ts.URL+"/", "application/x-www-form-urlencoded", form.Encode())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	page := string(body)
	for _, want := range []string{
		"<svg",
		"Room estimate",
		"kitchen",
		"/api/plan/export.pdf?",
		"Front Yard Garden, Parking Area",
		`value="garden" checked`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestFormSubmitError(t *testing.T) {
	ts := newTestServer(t, nil)
	form := url.Values{"width": {"10"}, "length": {"-5"}}
	resp, body := post(t, ts.URL+"/", "application/x-www-form-urlencoded", form.Encode())
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `class="error"`) {
		t.Error("error message not rendered")
	}
}

func TestFormGenerate(t *testing.T) {
	gen := &fakeGenerator{}
	ts := newTestServer(t, gen)
	form := url.Values{"width": {"10"}, "length": {"20"}, "action": {"generate"}}
	resp, body := post(t, ts.URL+"/", "application/x-www-form-urlencoded", form.Encode())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `src="https://example.com/img.png"`) {
		t.Error("generated image not shown")
	}
}

func TestFormGenerateRejectsUnsafeURL(t *testing.T) {
	gen := &fakeGenerator{url: "javascript:alert(1)"}
	ts := newTestServer(t, gen)
	form := url.Values{"width": {"10"}, "length": {"20"}, "action": {"generate"}}
	resp, body := post(t, ts.URL+"/", "application/x-www-form-urlencoded", form.Encode())
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadGateway)
	}
	page := string(body)
	if strings.Contains(page, "javascript:") {
		t.Error("unsafe image URL reached the page")
	}
	if !strings.Contains(page, "image generation returned an unusable URL") {
		t.Error("error message not shown")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{herrors.New(herrors.ErrCodeInvalidLot, "x"), http.StatusBadRequest},
		{herrors.New(herrors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{herrors.New(herrors.ErrCodeMissingCredentials, "x"), http.StatusServiceUnavailable},
		{herrors.New(herrors.ErrCodeNetwork, "x"), http.StatusBadGateway},
		{context.Canceled, 499},
		{herrors.New(herrors.ErrCodeInternal, "x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPublicErrorHidesInternals(t *testing.T) {
	e := publicError(herrors.New(herrors.ErrCodeInternal, "db password is hunter2"))
	if strings.Contains(e.Message, "hunter2") {
		t.Errorf("internal message leaked: %q", e.Message)
	}
}
