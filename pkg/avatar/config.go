package avatar

import (
	"image/color"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/ringavatar/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultColorRing  = 0.8
	DefaultDotRing    = 0.85
	DefaultLineRing   = 0.7
	DefaultBendMax    = 2.0
	DefaultBackground = "white"
	DefaultTitleFill  = "#AAA"
	DefaultTitleLine  = "#888"
)

// DefaultPalette is the digit palette, violet for 0 through magenta for 9.
var DefaultPalette = []string{
	"#9200cc",
	"#1e00ff",
	"#0062cc",
	"#00b3a5",
	"#00cc3d",
	"#48ff00",
	"#ffff00",
	"#ff8400",
	"#ff1500",
	"#b3007d",
}

// namedColors are accepted next to hex notation.
var namedColors = map[string]color.NRGBA{
	"white":       {0xff, 0xff, 0xff, 0xff},
	"black":       {0x00, 0x00, 0x00, 0xff},
	"transparent": {0x00, 0x00, 0x00, 0x00},
	"none":        {0x00, 0x00, 0x00, 0x00},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
}

// =============================================================================
// Config
// =============================================================================

// Config is the user-facing avatar configuration. Colors are kept as strings
// so the struct round-trips through TOML; [Config.Validate] resolves them.
type Config struct {
	Animated bool `toml:"animated"`
	Bezier   bool `toml:"bezier"`

	Palette     []string `toml:"palette"`
	Title       string   `toml:"title"`
	TitleFill   string   `toml:"title_fill"`
	TitleStroke string   `toml:"title_stroke"`
	Background  string   `toml:"background"`

	// Ring sizes as fractions of the fitted radius.
	ColorRing float64 `toml:"color_ring"`
	DotRing   float64 `toml:"dot_ring"`
	LineRing  float64 `toml:"line_ring"`

	// Bend is the initial curve bend of an animation; zero starts at BendMax.
	Bend    float64 `toml:"bend,omitempty"`
	BendMax float64 `toml:"bend_max"`
}

// DefaultConfig returns the stock configuration: static, quadratic curves,
// no title.
func DefaultConfig() Config {
	return Config{
		Palette:     append([]string(nil), DefaultPalette...),
		TitleFill:   DefaultTitleFill,
		TitleStroke: DefaultTitleLine,
		Background:  DefaultBackground,
		ColorRing:   DefaultColorRing,
		DotRing:     DefaultDotRing,
		LineRing:    DefaultLineRing,
		BendMax:     DefaultBendMax,
	}
}

// LoadConfig reads a TOML file and overlays it on [DefaultConfig].
// Keys missing from the file keep their defaults; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig is [LoadConfig] for an already opened reader.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", keys[0].String())
	}
	if _, err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteTOML encodes the configuration as TOML.
func (c Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks the configuration and resolves it into a [Style].
func (c Config) Validate() (Style, error) {
	var s Style
	if len(c.Palette) != Digits {
		return s, errors.New(errors.ErrCodeInvalidConfig, "palette needs %d colors, got %d", Digits, len(c.Palette))
	}
	for i, p := range c.Palette {
		col, err := ParseColor(p)
		if err != nil {
			return s, errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette[%d]", i)
		}
		s.Palette[i] = col
	}

	var err error
	if s.TitleFill, err = ParseColor(c.TitleFill); err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidConfig, err, "title_fill")
	}
	if s.TitleStroke, err = ParseColor(c.TitleStroke); err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidConfig, err, "title_stroke")
	}
	if s.Background, err = ParseColor(c.Background); err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidConfig, err, "background")
	}

	for _, f := range []struct {
		name string
		v    float64
	}{
		{"color_ring", c.ColorRing},
		{"dot_ring", c.DotRing},
		{"line_ring", c.LineRing},
	} {
		if err := errors.ValidateFraction(f.name, f.v); err != nil {
			return s, err
		}
	}

	if math.IsNaN(c.BendMax) || math.IsInf(c.BendMax, 0) || c.BendMax <= 0 {
		return s, errors.New(errors.ErrCodeInvalidConfig, "bend_max must be a positive number, got %g", c.BendMax)
	}
	if math.IsNaN(c.Bend) || c.Bend < 0 || c.Bend > c.BendMax {
		return s, errors.New(errors.ErrCodeInvalidConfig, "bend must be in [0, bend_max=%g], got %g", c.BendMax, c.Bend)
	}

	s.Title = c.Title
	s.Animated = c.Animated
	s.Bezier = c.Bezier
	s.ColorRing = c.ColorRing
	s.DotRing = c.DotRing
	s.LineRing = c.LineRing
	s.BendMax = c.BendMax
	s.Bend = c.Bend
	if s.Bend == 0 {
		s.Bend = c.BendMax
	}
	return s, nil
}

// Style is a validated configuration with colors resolved. It is a plain
// value; copies are independent.
type Style struct {
	Palette     [Digits]color.NRGBA
	Title       string
	TitleFill   color.NRGBA
	TitleStroke color.NRGBA
	Background  color.NRGBA

	ColorRing float64
	DotRing   float64
	LineRing  float64

	Animated bool
	Bezier   bool
	Bend     float64 // initial animation bend
	BendMax  float64
}

// ParseColor parses "#rgb", "#rrggbb" or one of a few color names.
func ParseColor(s string) (color.NRGBA, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[key]; ok {
		return c, nil
	}
	if !strings.HasPrefix(key, "#") {
		key = "#" + key
	}
	if len(key) != 4 && len(key) != 7 {
		return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid color %q", s)
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// HexColor formats c as "#rrggbb", ignoring alpha.
func HexColor(c color.Color) string {
	col, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return col.Hex()
}
