package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/sizemap/pkg/errors"
)

const sampleTree = `{
  "name": "root",
  "children": [
    {"name": "A", "children": [{"name": "a1", "size": 60}, {"name": "a2", "size": 40}]},
    {"name": "B", "size": 50}
  ]
}`

// memCache is a map-backed cache.Cache for tests.
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

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"txt", false},
		{"dot", false},
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

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: []byte(sampleTree)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %vx%v, want defaults", opts.Width, opts.Height)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing input", Options{}, errors.ErrCodeInvalidInput},
		{"negative width", Options{Input: []byte("{}"), Width: -1}, errors.ErrCodeInvalidViewport},
		{"bad format", Options{Input: []byte("{}"), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLayoutOptions(t *testing.T) {
	padded := (&Options{}).LayoutOptions()
	if padded.PaddingTop == 0 || padded.PaddingInner == 0 {
		t.Errorf("default layout options should be padded: %+v", padded)
	}
	flat := (&Options{NoPadding: true}).LayoutOptions()
	if flat.PaddingTop != 0 || flat.PaddingInner != 0 || !flat.Round {
		t.Errorf("NoPadding options = %+v", flat)
	}
	if (&Options{}).LayoutKeyOpts() == (&Options{NoPadding: true}).LayoutKeyOpts() {
		t.Error("padding should change the layout cache key")
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	root, hash, err := Load(ctx, Options{Input: []byte(sampleTree)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if root.Name() != "root" || root.Count() != 5 {
		t.Errorf("root = %s with %d entries", root.Name(), root.Count())
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}

	_, _, err = Load(ctx, Options{Input: []byte("{not json")})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("malformed input error = %v", err)
	}
	_, _, err = Load(ctx, Options{Input: []byte(`{"name":"x","size":-1}`)})
	if !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("negative size error = %v", err)
	}
}

func TestComputeFrameAddress(t *testing.T) {
	ctx := context.Background()
	root, _, err := Load(ctx, Options{Input: []byte(sampleTree)})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"none", "", ""},
		{"zoomed", "#root#A", "#root#A"},
		{"unknown falls back", "#root#zzz", ""},
		{"wrong root falls back", "#other#A", ""},
		{"malformed falls back", "#root#A\x00", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ComputeFrame(ctx, root, Options{Width: 150, Height: 100, Address: tt.address})
			if err != nil {
				t.Fatalf("ComputeFrame: %v", err)
			}
			if f.Address != tt.want {
				t.Errorf("Address = %q, want %q", f.Address, tt.want)
			}
			if len(f.Items) != 5 {
				t.Errorf("items = %d, want 5", len(f.Items))
			}
			if f.Width != 150 || f.Height != 100 {
				t.Errorf("frame size = %vx%v", f.Width, f.Height)
			}
		})
	}
}

func TestComputeFrameZoomHidesSiblings(t *testing.T) {
	ctx := context.Background()
	root, _, _ := Load(ctx, Options{Input: []byte(sampleTree)})
	f, err := ComputeFrame(ctx, root, Options{Width: 150, Height: 100, Address: "#root#A"})
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range f.Items {
		switch it.Label {
		case "B":
			if it.Width*it.Height != 0 {
				t.Errorf("B should have zero area when zoomed into A, got %vx%v", it.Width, it.Height)
			}
		case "A":
			if it.Width != 150 {
				t.Errorf("A width = %v, want 150", it.Width)
			}
		}
	}
}

func TestRenderFormats(t *testing.T) {
	ctx := context.Background()
	root, _, _ := Load(ctx, Options{Input: []byte(sampleTree)})
	opts := Options{Width: 160, Height: 96, Formats: []string{FormatSVG, FormatJSON, FormatTXT, FormatDOT}, Interactive: true}
	f, err := ComputeFrame(ctx, root, opts)
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(ctx, root, f, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	svg := string(artifacts[FormatSVG])
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "sizemap:activate") {
		t.Errorf("interactive svg missing script: %.80s", svg)
	}
	if !strings.Contains(string(artifacts[FormatJSON]), `"items"`) {
		t.Error("json artifact missing items")
	}
	lines := strings.Split(strings.TrimSuffix(string(artifacts[FormatTXT]), "\n"), "\n")
	if len(lines) != 6 {
		t.Errorf("txt rows = %d, want 6", len(lines))
	}
	if !strings.HasPrefix(string(artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact should be a digraph")
	}
}

func TestRenderDOTStartsAtAddress(t *testing.T) {
	ctx := context.Background()
	root, _, _ := Load(ctx, Options{Input: []byte(sampleTree)})
	opts := Options{Width: 150, Height: 100, Address: "#root#A", Formats: []string{FormatDOT}}
	f, _ := ComputeFrame(ctx, root, opts)
	artifacts, err := Render(ctx, root, f, opts)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(artifacts[FormatDOT])
	if strings.Contains(dot, `"B`) {
		t.Errorf("outline of A should not contain sibling B:\n%s", dot)
	}
	if !strings.Contains(dot, "a1") {
		t.Errorf("outline of A should contain a1:\n%s", dot)
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Input: []byte(sampleTree), Width: 150, Height: 100, Formats: []string{FormatJSON, FormatTXT}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Stats.Entries != 5 || first.Stats.Leaves != 3 {
		t.Errorf("stats = %+v", first.Stats)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if string(second.Artifacts[FormatJSON]) != string(first.Artifacts[FormatJSON]) {
		t.Error("cached json differs from rendered json")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass cache reads: %+v", third.CacheInfo)
	}
}

func TestRunnerLoadByHash(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	root, hash, err := r.Load(ctx, Options{Input: []byte(sampleTree)})
	if err != nil {
		t.Fatal(err)
	}
	again, err := r.LoadByHash(ctx, hash)
	if err != nil {
		t.Fatalf("LoadByHash: %v", err)
	}
	if again.Count() != root.Count() || again.Child("A").Child("a1").Size() != 60 {
		t.Error("reloaded tree differs")
	}

	if _, err := r.LoadByHash(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing hash error = %v", err)
	}
}

func TestRunnerNullCache(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()
	res, err := r.Execute(context.Background(), Options{Input: []byte(sampleTree), Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit || res.TreeHash == "" {
		t.Errorf("result = %+v", res.CacheInfo)
	}
}
