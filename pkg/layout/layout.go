package layout

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/ringavatar/pkg/errors"
)

// Visualization types.
const (
	VizTypeRing        = "ring"
	VizTypeTransitions = "transitions"
)

// ValidVizTypes lists the accepted values of [Layout.VizType].
var ValidVizTypes = map[string]bool{
	VizTypeRing:        true,
	VizTypeTransitions: true,
}

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the serialization format for all visualizations.
//
// VizType decides which fields are populated:
//
//	Ring ("ring"):
//	  - Center, Radius: fitted geometry
//	  - Arcs: one colored ring segment per occurring digit
//	  - Segments: the connector curves in drawing order
//
//	Transitions ("transitions"):
//	  - DOT: Graphviz source of the adjacency digraph
//	  - Engine: Graphviz layout engine
//
// Shared fields: Seed, Width, Height, Coefficient and Edges.
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type"`

	Seed        string  `json:"seed"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Coefficient float64 `json:"coefficient"`
	Title       string  `json:"title,omitempty"`

	// Adjacency counts (shared)
	Edges []Edge `json:"edges,omitempty"`

	// Ring-specific
	Center   *Point    `json:"center,omitempty"`
	Radius   float64   `json:"radius,omitempty"`
	Arcs     []Arc     `json:"arcs,omitempty"`
	Segments []Segment `json:"segments,omitempty"`

	// Transitions-specific
	DOT    string `json:"dot,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// IsRing reports whether this is a ring layout.
func (l *Layout) IsRing() bool { return l.VizType == VizTypeRing }

// IsTransitions reports whether this is a transitions layout.
func (l *Layout) IsTransitions() bool { return l.VizType == VizTypeTransitions }

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Arc is the ring segment of one digit.
type Arc struct {
	Digit      int     `json:"digit"`
	Count      int     `json:"count"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Color      string  `json:"color"`
}

// Segment is one connector curve, from the occurrence slot of a later
// character to the slot of the character before it.
type Segment struct {
	Position int     `json:"position"` // index of the character the curve ends at
	Digit    int     `json:"digit"`
	FromSlot int     `json:"from_slot"`
	ToSlot   int     `json:"to_slot"`
	From     Point   `json:"from"`
	To       Point   `json:"to"`
	Width    float64 `json:"width"`
	Color    string  `json:"color"`
}

// Edge counts how often digit To directly follows digit From.
type Edge struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Count int `json:"count"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Layout and checks that the
// fields required by its viz type are present.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal layout")
	}

	if l.VizType == "" {
		l.VizType = VizTypeRing
	}
	if !ValidVizTypes[l.VizType] {
		return Layout{}, errors.New(errors.ErrCodeInvalidVizType, "unknown viz_type %q", l.VizType)
	}
	if err := errors.ValidateDigits(l.Seed); err != nil {
		return Layout{}, err
	}
	if l.IsRing() && l.Center == nil {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "ring layout must contain a center")
	}
	if l.IsTransitions() && l.DOT == "" {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "transitions layout must contain DOT string")
	}

	return l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return Unmarshal(data)
}
