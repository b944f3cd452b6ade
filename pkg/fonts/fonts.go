// Package fonts provides the title typefaces built into the binary.
//
// The fonts are the Go font family shipped with golang.org/x/image, so every
// surface draws titles the same way without system fonts. Parsed fonts are
// cached after first use.
package fonts

import (
	"sort"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"

	"github.com/matzehuels/ringavatar/pkg/errors"
)

// Typeface names.
const (
	Mono      = "mono"
	Sans      = "sans"
	Bold      = "bold"
	SmallCaps = "smallcaps"
)

// Default is the typeface used when none is selected.
const Default = Mono

type face struct {
	ttf    []byte
	family string // CSS font-family for SVG output
	weight string

	once sync.Once
	font *truetype.Font
	err  error
}

var faces = map[string]*face{
	Mono:      {ttf: gomono.TTF, family: "'Go Mono', monospace"},
	Sans:      {ttf: goregular.TTF, family: "'Go', sans-serif"},
	Bold:      {ttf: gobold.TTF, family: "'Go', sans-serif", weight: "bold"},
	SmallCaps: {ttf: gosmallcaps.TTF, family: "'Go Smallcaps', sans-serif"},
}

// Names returns the available typeface names, sorted.
func Names() []string {
	names := make([]string, 0, len(faces))
	for n := range faces {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks that name is a known typeface. The empty name is valid and
// selects [Default].
func Validate(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := faces[name]; !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown font %q (must be one of: %v)", name, Names())
	}
	return nil
}

func lookup(name string) (*face, error) {
	if name == "" {
		name = Default
	}
	f, ok := faces[name]
	if !ok {
		return nil, Validate(name)
	}
	return f, nil
}

// Parse returns the parsed TrueType font for name.
func Parse(name string) (*truetype.Font, error) {
	f, err := lookup(name)
	if err != nil {
		return nil, err
	}
	f.once.Do(func() {
		f.font, f.err = truetype.Parse(f.ttf)
		if f.err != nil {
			f.err = errors.Wrap(errors.ErrCodeInternal, f.err, "parse font %s", name)
		}
	})
	return f.font, f.err
}

// Family returns the CSS font-family of name, falling back to the default
// typeface for unknown names.
func Family(name string) string {
	f, err := lookup(name)
	if err != nil {
		f = faces[Default]
	}
	return f.family
}

// Weight returns the CSS font-weight of name, or "" for regular weight.
func Weight(name string) string {
	f, err := lookup(name)
	if err != nil {
		return ""
	}
	return f.weight
}
