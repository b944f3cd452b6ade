package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered output of a seed.
	ArtifactKey(seedHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every option that changes artifact bytes.
type ArtifactKeyOpts struct {
	VizType    string  `json:"viz_type"`
	Format     string  `json:"format"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Scale      float64 `json:"scale,omitempty"`
	Frames     int     `json:"frames,omitempty"`
	FrameDelay int64   `json:"frame_delay_ms,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
	Font       string  `json:"font,omitempty"`
	ConfigHash string  `json:"config_hash"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256>" over the seed hash and options.
func (DefaultKeyer) ArtifactKey(seedHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", seedHash, opts)
}
