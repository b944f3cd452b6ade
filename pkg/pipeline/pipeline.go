// Package pipeline renders avatar artifacts for the CLI.
//
// It validates render requests, dispatches every requested format to the
// matching renderer and caches the results. Formats of one request are
// rendered concurrently; each gets its own avatar and surface, so the core
// never shares state between goroutines.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Seed:    "31415926535",
//	    Formats: []string{"svg", "gif"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"bytes"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/cache"
	"github.com/matzehuels/ringavatar/pkg/errors"
	"github.com/matzehuels/ringavatar/pkg/fonts"
	"github.com/matzehuels/ringavatar/pkg/layout"
	"github.com/matzehuels/ringavatar/pkg/render/ring"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSize is the default width and height in pixels.
	DefaultSize = ring.DefaultSize

	// MaxSize bounds width and height.
	MaxSize = 8192

	// DefaultTransitionsScale is the PNG scale of Graphviz output, which is
	// laid out in points and looks soft at 1x.
	DefaultTransitionsScale = 2.0
)

// DefaultVizType is the default visualization type.
const DefaultVizType = layout.VizTypeRing

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatGIF  = "gif"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatGIF:  true,
}

// animatedFormats cannot be produced for transitions diagrams.
var animatedFormats = map[string]bool{FormatGIF: true}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one render request.
type Options struct {
	Seed    string   `json:"seed"`
	VizType string   `json:"viz_type,omitempty"`
	Formats []string `json:"formats,omitempty"`

	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Scale  float64 `json:"scale,omitempty"`

	// GIF options
	Frames     int           `json:"frames,omitempty"`
	FrameDelay time.Duration `json:"frame_delay,omitempty"`

	// Detailed labels transitions diagrams with counts.
	Detailed bool `json:"detailed,omitempty"`

	// Font is the title typeface of ring output.
	Font string `json:"font,omitempty"`

	Config avatar.Config `json:"config"`

	// Refresh re-renders even when artifacts are cached.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated  bool
	configHash string
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains execution statistics.
type Stats struct {
	Digits     int // seed length
	Distinct   int // digit values that occur
	RenderTime time.Duration
}

// CacheInfo records which formats came from the cache.
type CacheInfo struct {
	Hits   []string
	AllHit bool
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

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !layout.ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: ring, transitions)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultSize
	}
	if o.Height == 0 {
		o.Height = DefaultSize
	}
	if o.Scale == 0 {
		o.Scale = ring.DefaultScale
		if o.IsTransitions() {
			o.Scale = DefaultTransitionsScale
		}
	}
	if o.FrameDelay == 0 {
		o.FrameDelay = ring.DefaultFrameDelay
	}
	if o.Config.Palette == nil {
		o.Config = avatar.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks the whole request.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if err := errors.ValidateDigits(o.Seed); err != nil {
		return err
	}
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.IsTransitions() {
		for _, f := range o.Formats {
			if animatedFormats[f] {
				return errors.New(errors.ErrCodeUnsupported, "format %q is not available for transitions diagrams", f)
			}
		}
	}
	if o.Width < 1 || o.Height < 1 || o.Width > MaxSize || o.Height > MaxSize {
		return errors.New(errors.ErrCodeInvalidInput, "size must be within 1..%d, got %dx%d", MaxSize, o.Width, o.Height)
	}
	if o.Scale < 0 || o.Frames < 0 || o.FrameDelay < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale, frames and frame delay must not be negative")
	}
	if o.Frames > ring.MaxFrames {
		return errors.New(errors.ErrCodeInvalidInput, "at most %d frames, got %d", ring.MaxFrames, o.Frames)
	}
	if err := fonts.Validate(o.Font); err != nil {
		return err
	}
	if _, err := o.Config.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := o.Config.WriteTOML(&buf); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	o.configHash = cache.Hash(buf.Bytes())
	o.validated = true
	return nil
}

// IsRing returns true if this is a ring visualization.
func (o *Options) IsRing() bool {
	return o.VizType == "" || o.VizType == layout.VizTypeRing
}

// IsTransitions returns true if this is a transitions visualization.
func (o *Options) IsTransitions() bool {
	return o.VizType == layout.VizTypeTransitions
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		VizType:    o.VizType,
		Format:     format,
		Width:      o.Width,
		Height:     o.Height,
		Detailed:   o.Detailed,
		ConfigHash: o.configHash,
	}
	if o.IsRing() {
		k.Font = o.Font
	}
	if format == FormatPNG || format == FormatGIF {
		k.Scale = o.Scale
	}
	if format == FormatGIF {
		k.Frames = o.Frames
		k.FrameDelay = o.FrameDelay.Milliseconds()
	}
	return k
}

func (o *Options) ringOptions() ring.Options {
	return ring.Options{
		Width:      o.Width,
		Height:     o.Height,
		Config:     o.Config,
		Scale:      o.Scale,
		Frames:     o.Frames,
		FrameDelay: o.FrameDelay,
		Font:       o.Font,
		Logger:     o.Logger,
	}
}
