package pbn

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Point is a 2D coordinate in the input image's pixel coordinate system:
// origin top-left, X increases right, Y increases down.
type Point struct {
	X, Y float64
}

// Ring is a closed sequence of points; by convention the first and last
// point are the same, matching the data model's "closed sequence" rule.
type Ring []Point

// Region is one maximal connected patch of a single palette index: one
// outer ring plus zero or more holes. Outer rings carry a positive signed
// shoelace area; holes carry a negative one — see shoelaceSigned.
type Region struct {
	Outer      Ring
	Holes      []Ring
	ColorIndex int
}

// Placement is the pole-of-inaccessibility point chosen for one region,
// tagged with the 1-based palette index used for on-canvas numbering.
type Placement struct {
	X, Y  float64
	Label int
}

// LabBuffer holds one Lab triple per pixel, row-major, W*H*3 floats.
type LabBuffer struct {
	W, H int
	Pix  []float32
}

// LabelMap holds one palette index per pixel, row-major. K never exceeds
// 50 (see Settings.Validate), so a byte per pixel is ample.
type LabelMap struct {
	W, H   int
	Labels []uint8
}

func newLabelMap(w, h int) LabelMap {
	return LabelMap{W: w, H: h, Labels: make([]uint8, w*h)}
}

func (m LabelMap) clone() LabelMap {
	out := newLabelMap(m.W, m.H)
	copy(out.Labels, m.Labels)
	return out
}

// Palette is an ordered sequence of representative colors. Entries are
// stored as colorful.Color the way the teacher's superpixel type stores
// Lab triples: L in R, a in G, b in B — never interpreted as sRGB until
// explicitly converted.
type Palette []colorful.Color

// Lab returns palette entry i's L, a, b components.
func (p Palette) Lab(i int) (l, a, b float64) {
	c := p[i]
	return c.R, c.G, c.B
}

// SeedingStrategy selects how Quantize picks its initial centroids.
type SeedingStrategy int

const (
	// SeedUniform samples K starting centroids uniformly at random, with
	// replacement, from the pixel set — the literal spec algorithm.
	SeedUniform SeedingStrategy = iota
	// SeedKMeansPP seeds with github.com/muesli/kmeans's k-means++
	// implementation instead. A documented deviation from the literal
	// spec algorithm; never selected by DefaultSettings.
	SeedKMeansPP
)

// Settings is the process-level configuration, mirroring the teacher's
// Options/DefaultOptions/OptionsFromSize trio.
type Settings struct {
	KColors       int
	MinRegionSize int
	Seeding       SeedingStrategy
	// RNGSeed makes SeedUniform and the k-means iteration reproducible.
	// Zero means "derive a seed from the input" (still deterministic).
	RNGSeed int64
}

// DefaultSettings returns sensible defaults for a typical photograph.
func DefaultSettings() Settings {
	return Settings{
		KColors:       16,
		MinRegionSize: 20,
	}
}

// SettingsFromImageSize scales MinRegionSize to the image area, the way
// the teacher's OptionsFromSize scales NumSuperpixels.
func SettingsFromImageSize(width, height int) Settings {
	if width <= 0 || height <= 0 {
		return DefaultSettings()
	}
	s := DefaultSettings()
	area := width * height
	min := area / 5000
	if min < 8 {
		min = 8
	}
	if min > 400 {
		min = 400
	}
	s.MinRegionSize = min
	return s
}

// Validate reports a ValidationError for any out-of-range setting.
func (s Settings) Validate() error {
	if s.KColors < 2 || s.KColors > 50 {
		return &ValidationError{Msg: "k_colors must be in [2,50]"}
	}
	if s.MinRegionSize < 0 {
		return &ValidationError{Msg: "min_region_size must be >= 0"}
	}
	return nil
}

// ProcessInput is the process operation's request envelope (§6).
type ProcessInput struct {
	Pixels   []byte
	Width    int
	Height   int
	Settings Settings
}

// Result is the process operation's response envelope (§6).
type Result struct {
	Width      int
	Height     int
	Palette    Palette
	Labels     LabelMap
	Regions    []Region
	Placements []Placement
}

// EventKind is the closed set of progress event kinds (§6).
type EventKind int

const (
	EventStatus EventKind = iota
	EventProgress
)

// ProgressEvent is an optional progress/status notification. Status
// strings are for humans only; callers must not parse them.
type ProgressEvent struct {
	Kind     EventKind
	Status   string
	Progress int
}

// ProgressFunc receives progress events synchronously at stage
// boundaries. May be nil.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) status(s string) {
	if f != nil {
		f(ProgressEvent{Kind: EventStatus, Status: s})
	}
}

func (f ProgressFunc) progress(pct int) {
	if f != nil {
		f(ProgressEvent{Kind: EventProgress, Progress: pct})
	}
}
