package imagegen

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/housesketch/pkg/cache"
)

type countingGenerator struct {
	calls int
	err   error
}

func (g *countingGenerator) Name() string { return "fake" }

func (g *countingGenerator) Generate(_ context.Context, req Request) (*Image, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &Image{ID: "img-1", Provider: "fake", URL: "https://example.com/" + req.Prompt}, nil
}

func TestCachedGenerate(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	gen := &countingGenerator{}
	c := NewCached(gen, fc, nil, 0)
	ctx := context.Background()

	first, err := c.Generate(ctx, testRequest())
	if err != nil {
		t.Fatalf("first Generate() error: %v", err)
	}
	if first.Cached {
		t.Error("first result should not be marked cached")
	}

	second, err := c.Generate(ctx, testRequest())
	if err != nil {
		t.Fatalf("second Generate() error: %v", err)
	}
	if !second.Cached || second.URL != first.URL {
		t.Errorf("second result = %+v, want cached copy of %+v", second, first)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}

	other := testRequest()
	other.Width = 512
	if _, err := c.Generate(ctx, other); err != nil {
		t.Fatal(err)
	}
	if gen.calls != 2 {
		t.Errorf("different size should miss the cache, calls = %d", gen.calls)
	}
}

func TestCachedDoesNotStoreErrors(t *testing.T) {
	fc, _ := cache.NewFileCache(t.TempDir())
	boom := errors.New("boom")
	gen := &countingGenerator{err: boom}
	c := NewCached(gen, fc, nil, 0)

	for range 2 {
		if _, err := c.Generate(context.Background(), testRequest()); !errors.Is(err, boom) {
			t.Fatalf("error = %v, want boom", err)
		}
	}
	if gen.calls != 2 {
		t.Errorf("errors must not be cached, calls = %d", gen.calls)
	}
}

func TestCachedKeyIncludesModel(t *testing.T) {
	a := NewCached(NewReplicate(ReplicateOptions{Version: "v1"}), cache.NewNullCache(), nil, 0)
	b := NewCached(NewReplicate(ReplicateOptions{Version: "v2"}), cache.NewNullCache(), nil, 0)
	if a.Key(testRequest()) == b.Key(testRequest()) {
		t.Error("model version should change the cache key")
	}
}
