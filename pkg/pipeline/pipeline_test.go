package pipeline

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/cache"
	"github.com/matzehuels/ringavatar/pkg/errors"
	"github.com/matzehuels/ringavatar/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"gif", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"ring", false},
		{"transitions", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Seed: "314"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	if opts.VizType != DefaultVizType {
		t.Errorf("VizType = %q, want %q", opts.VizType, DefaultVizType)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Width != DefaultSize || opts.Height != DefaultSize {
		t.Errorf("size = %dx%d, want %dx%d", opts.Width, opts.Height, DefaultSize, DefaultSize)
	}
	if opts.Scale != 1 {
		t.Errorf("Scale = %v, want 1", opts.Scale)
	}
	if len(opts.Config.Palette) != avatar.Digits {
		t.Errorf("Config.Palette has %d colors, want %d", len(opts.Config.Palette), avatar.Digits)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsTransitionsScale(t *testing.T) {
	opts := Options{Seed: "314", VizType: "transitions"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Scale != DefaultTransitionsScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultTransitionsScale)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad digits", Options{Seed: "3.14"}, errors.ErrCodeInvalidDigits},
		{"bad type", Options{Seed: "1", VizType: "tower"}, errors.ErrCodeInvalidVizType},
		{"bad format", Options{Seed: "1", Formats: []string{"bmp"}}, errors.ErrCodeInvalidFormat},
		{"gif transitions", Options{Seed: "1", VizType: "transitions", Formats: []string{"gif"}}, errors.ErrCodeUnsupported},
		{"too wide", Options{Seed: "1", Width: MaxSize + 1}, errors.ErrCodeInvalidInput},
		{"negative size", Options{Seed: "1", Height: -4}, errors.ErrCodeInvalidInput},
		{"negative scale", Options{Seed: "1", Scale: -1}, errors.ErrCodeInvalidInput},
		{"too many frames", Options{Seed: "1", Frames: 10000}, errors.ErrCodeInvalidInput},
		{"bad config", Options{Seed: "1", Config: avatar.Config{Palette: []string{"red"}}}, errors.ErrCodeInvalidConfig},
		{"unknown font", Options{Seed: "1", Font: "comic"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsEmptySeed(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("empty seed should be valid: %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Seed: "2718"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.ArtifactKeyOpts(FormatSVG)

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if got := opts.ArtifactKeyOpts(FormatSVG); got != first {
		t.Errorf("key opts changed: %+v vs %+v", got, first)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Seed: "1", Scale: 2, Frames: 10, FrameDelay: 40 * time.Millisecond}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Scale != 0 || svg.Frames != 0 {
		t.Errorf("svg key carries raster options: %+v", svg)
	}
	if svg.ConfigHash == "" {
		t.Error("ConfigHash should be set")
	}
	gif := opts.ArtifactKeyOpts(FormatGIF)
	if gif.Scale != 2 || gif.Frames != 10 || gif.FrameDelay != 40 {
		t.Errorf("gif key = %+v", gif)
	}

	other := Options{Seed: "1", Config: avatar.DefaultConfig()}
	other.Config.Bezier = !other.Config.Bezier
	if err := other.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if other.ArtifactKeyOpts(FormatSVG).ConfigHash == svg.ConfigHash {
		t.Error("different configs should hash differently")
	}
}

func TestArtifactKeyOptsFont(t *testing.T) {
	ring := Options{Seed: "1", Font: "bold"}
	if got := ring.ArtifactKeyOpts(FormatSVG).Font; got != "bold" {
		t.Errorf("ring Font = %q, want bold", got)
	}
	tr := Options{Seed: "1", VizType: "transitions", Font: "bold"}
	if got := tr.ArtifactKeyOpts(FormatSVG).Font; got != "" {
		t.Errorf("transitions Font = %q, want empty", got)
	}
}

func TestOptionsIsRing(t *testing.T) {
	tests := []struct {
		vizType string
		ring    bool
	}{
		{"", true},
		{"ring", true},
		{"transitions", false},
	}
	for _, tt := range tests {
		opts := Options{VizType: tt.vizType}
		if opts.IsRing() != tt.ring {
			t.Errorf("IsRing(%q) = %v, want %v", tt.vizType, opts.IsRing(), tt.ring)
		}
		if opts.IsTransitions() == tt.ring {
			t.Errorf("IsTransitions(%q) = %v, want %v", tt.vizType, opts.IsTransitions(), !tt.ring)
		}
	}
}

func TestRender(t *testing.T) {
	artifacts, err := Render(context.Background(), Options{
		Seed:    "31415926",
		Formats: []string{FormatSVG, FormatPNG, FormatJSON},
		Width:   64,
		Height:  64,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Contains(artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact is not an SVG document")
	}
	if !bytes.HasPrefix(artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	if !bytes.Contains(artifacts[FormatJSON], []byte(`"viz_type"`)) {
		t.Error("json artifact is not a layout")
	}
}

func TestRenderTransitionsJSON(t *testing.T) {
	artifacts, err := Render(context.Background(), Options{
		Seed:    "1213",
		VizType: "transitions",
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(artifacts[FormatJSON], []byte("digraph")) {
		t.Error("transitions layout should embed DOT")
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Render(ctx, Options{Seed: "1", Formats: []string{FormatSVG}})
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}

// =============================================================================
// Runner
// =============================================================================

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

type recordingHooks struct {
	observability.NoopCacheHooks
	mu           sync.Mutex
	hits, misses int
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func TestRunnerCaches(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Seed: "1618", Formats: []string{FormatSVG, FormatJSON}, Width: 32, Height: 32}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.CacheInfo.Hits) != 0 || first.CacheInfo.AllHit {
		t.Errorf("first run CacheInfo = %+v, want no hits", first.CacheInfo)
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.AllHit {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
	if hooks.hits != 2 || hooks.misses != 2 {
		t.Errorf("hooks hits=%d misses=%d, want 2 and 2", hooks.hits, hooks.misses)
	}

	if second.Stats.Digits != 4 || second.Stats.Distinct != 3 {
		t.Errorf("Stats = %+v, want 4 digits, 3 distinct", second.Stats)
	}
}

func TestRunnerPartialHit(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Seed: "42", Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Seed: "42", Formats: []string{FormatSVG, FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.CacheInfo.Hits) != 1 || res.CacheInfo.Hits[0] != FormatSVG {
		t.Errorf("Hits = %v, want [svg]", res.CacheInfo.Hits)
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(res.Artifacts))
	}
}

func TestRunnerRefresh(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Seed: "42", Formats: []string{FormatSVG}}

	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = true
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.CacheInfo.Hits) != 0 {
		t.Errorf("Refresh should bypass the cache, got hits %v", res.CacheInfo.Hits)
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}
}

func TestRunnerScopedKeys(t *testing.T) {
	c := newMemCache()
	ctx := context.Background()
	opts := Options{Seed: "7", Formats: []string{FormatSVG}}

	if _, err := NewRunner(c, cache.NewScopedKeyer(nil, "v1:"), nil).Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	res, err := NewRunner(c, cache.NewScopedKeyer(nil, "v2:"), nil).Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.CacheInfo.Hits) != 0 {
		t.Error("entries from another scope should not be served")
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()
	if _, err := r.Execute(context.Background(), Options{Seed: "abc"}); !errors.Is(err, errors.ErrCodeInvalidDigits) {
		t.Errorf("err = %v, want INVALID_DIGITS", err)
	}
}
