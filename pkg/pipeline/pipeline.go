// Package pipeline provides the one-shot render pipeline for sizemap.
//
// This package implements the load → layout → render sequence used by the
// CLI and the viewer server. By centralizing it, every entry point produces
// identical frames and artifacts for identical inputs.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode a tree JSON document into an entry tree
//  2. Layout: Resolve the address, compute the treemap frame
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, TXT, DOT)
//
// The layout and render stages are cached by content hash, so re-rendering
// an unchanged tree at the same size is a cache read.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   data,
//	    Width:   1280,
//	    Height:  720,
//	    Address: "#root#src",
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sizemap/pkg/cache"
	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/errors"
	"github.com/matzehuels/sizemap/pkg/treemap"
	"github.com/matzehuels/sizemap/pkg/treemap/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 1280.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 720.0

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatTXT  = "txt"
	FormatDOT  = "dot"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatTXT, FormatDOT}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input     []byte `json:"-"`               // raw tree JSON
	InputName string `json:"input,omitempty"` // for logs and errors

	// Layout options
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Address   string  `json:"address,omitempty"`
	NoPadding bool    `json:"no_padding,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	OutlineMax  int      `json:"outline_depth,omitempty"` // MaxDepth for DOT output

	// Runtime options (not serialized)
	Logger  *log.Logger `json:"-"`
	Refresh bool        `json:"-"` // bypass cache reads
}

// Frame is a laid out, colored treemap ready for rendering.
type Frame struct {
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Address string         `json:"address"`
	Items   []treemap.Item `json:"items"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Root is the loaded tree.
	Root *entry.Entry

	// TreeHash is the content hash of the input document.
	TreeHash string

	// Frame is the computed treemap.
	Frame Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entries    int
	Leaves     int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the frame came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if len(o.Input) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tree input is required")
	}
	if o.InputName == "" {
		o.InputName = "<input>"
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
// The address is not validated: a malformed one renders the whole tree.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return errors.ValidateViewport(o.Width, o.Height)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions returns the treemap padding for these options.
func (o *Options) LayoutOptions() layout.Options {
	if o.NoPadding {
		return layout.Options{Round: true}
	}
	return layout.DefaultOptions()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	lo := o.LayoutOptions()
	return cache.LayoutKeyOpts{
		Width:        o.Width,
		Height:       o.Height,
		Address:      o.Address,
		PaddingInner: lo.PaddingInner,
		PaddingTop:   lo.PaddingTop,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Interactive: o.Interactive,
		Scale:       o.Scale,
		OutlineMax:  o.OutlineMax,
	}
}
