package layout

import (
	"fmt"
	"math"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

// Orientation selects the axis along which generations advance.
type Orientation string

const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// Direction selects which way generations advance along the orientation axis.
type Direction string

const (
	TopToBottom Direction = "top-to-bottom"
	BottomToTop Direction = "bottom-to-top"
	LeftToRight Direction = "left-to-right"
	RightToLeft Direction = "right-to-left"
)

// Default settings values.
const (
	DefaultCardWidth         = 200.0
	DefaultCardHeight        = 80.0
	DefaultHorizontalSpacing = 1.2
	DefaultVerticalSpacing   = 1.8
	DefaultMargin            = 40.0
)

// Settings controls the geometry of a layout. Dimensions are in layout units,
// which the renderer maps to pixels.
//
// HorizontalSpacing and VerticalSpacing are multipliers of the card extent:
// siblings sit HorizontalSpacing card widths apart (centre to centre) and
// generations VerticalSpacing card heights apart. In horizontal orientation
// the card extents swap roles.
type Settings struct {
	Orientation       Orientation `json:"orientation" toml:"orientation"`
	Direction         Direction   `json:"direction" toml:"direction"`
	CardWidth         float64     `json:"cardWidth" toml:"card_width"`
	CardHeight        float64     `json:"cardHeight" toml:"card_height"`
	HorizontalSpacing float64     `json:"horizontalSpacing" toml:"horizontal_spacing"`
	VerticalSpacing   float64     `json:"verticalSpacing" toml:"vertical_spacing"`
	Margin            float64     `json:"margin" toml:"margin"`
}

// DefaultSettings returns a vertical, top-to-bottom layout.
func DefaultSettings() Settings {
	return Settings{
		Orientation:       OrientationVertical,
		Direction:         TopToBottom,
		CardWidth:         DefaultCardWidth,
		CardHeight:        DefaultCardHeight,
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		Margin:            DefaultMargin,
	}
}

// WithDefaults returns s with every zero field replaced by its default. An
// empty direction becomes the forward direction of the orientation. A zero
// margin is kept, except in the zero Settings, which yields DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s == (Settings{}) {
		return d
	}
	if s.Orientation == "" {
		s.Orientation = d.Orientation
	}
	if s.Direction == "" {
		s.Direction = TopToBottom
		if s.Orientation == OrientationHorizontal {
			s.Direction = LeftToRight
		}
	}
	if s.CardWidth == 0 {
		s.CardWidth = d.CardWidth
	}
	if s.CardHeight == 0 {
		s.CardHeight = d.CardHeight
	}
	if s.HorizontalSpacing == 0 {
		s.HorizontalSpacing = d.HorizontalSpacing
	}
	if s.VerticalSpacing == 0 {
		s.VerticalSpacing = d.VerticalSpacing
	}
	return s
}

// Validate checks that the settings describe a usable layout.
func (s Settings) Validate() error {
	switch s.Orientation {
	case OrientationVertical:
		if s.Direction != TopToBottom && s.Direction != BottomToTop {
			return kerrors.New(kerrors.ErrCodeInvalidSettings, "direction %q does not match vertical orientation (use top-to-bottom or bottom-to-top)", s.Direction)
		}
	case OrientationHorizontal:
		if s.Direction != LeftToRight && s.Direction != RightToLeft {
			return kerrors.New(kerrors.ErrCodeInvalidSettings, "direction %q does not match horizontal orientation (use left-to-right or right-to-left)", s.Direction)
		}
	default:
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "invalid orientation %q (must be vertical or horizontal)", s.Orientation)
	}
	if !positive(s.CardWidth) || !positive(s.CardHeight) {
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "card dimensions must be positive")
	}
	if !positive(s.HorizontalSpacing) || !positive(s.VerticalSpacing) {
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "spacing multipliers must be positive")
	}
	if s.Margin < 0 || math.IsNaN(s.Margin) {
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "margin must not be negative")
	}
	return nil
}

func positive(f float64) bool { return f > 0 && !math.IsInf(f, 0) }

// Key returns a stable string identifying the settings, for memo keys.
func (s Settings) Key() string {
	return fmt.Sprintf("%s|%s|%g|%g|%g|%g|%g",
		s.Orientation, s.Direction, s.CardWidth, s.CardHeight,
		s.HorizontalSpacing, s.VerticalSpacing, s.Margin)
}

// Horizontal reports whether generations advance along the x axis.
func (s Settings) Horizontal() bool { return s.Orientation == OrientationHorizontal }

// SiblingExtent is the card size along the axis on which siblings line up.
func (s Settings) SiblingExtent() float64 {
	if s.Horizontal() {
		return s.CardHeight
	}
	return s.CardWidth
}

// GenerationExtent is the card size along the axis on which generations advance.
func (s Settings) GenerationExtent() float64 {
	if s.Horizontal() {
		return s.CardWidth
	}
	return s.CardHeight
}

// SiblingStep is the centre-to-centre distance between adjacent siblings.
func (s Settings) SiblingStep() float64 { return s.SiblingExtent() * s.HorizontalSpacing }

// GenerationStep is the centre-to-centre distance between generations.
func (s Settings) GenerationStep() float64 { return s.GenerationExtent() * s.VerticalSpacing }

// CousinStep is the minimum centre-to-centre distance between adjacent people
// with different parents. The wider of the two spacing rules wins.
func (s Settings) CousinStep() float64 {
	return math.Max(s.SiblingStep(), s.SiblingExtent()*s.VerticalSpacing)
}

// Vec is a screen-space direction.
type Vec struct{ X, Y float64 }

// GenerationDir is the unit vector pointing from parents toward children in
// screen space.
func (s Settings) GenerationDir() Vec {
	switch s.Direction {
	case BottomToTop:
		return Vec{0, -1}
	case LeftToRight:
		return Vec{1, 0}
	case RightToLeft:
		return Vec{-1, 0}
	}
	return Vec{0, 1}
}

// SiblingDir is the unit vector along which siblings are ordered, eldest
// first, in screen space.
func (s Settings) SiblingDir() Vec {
	if s.Horizontal() {
		return Vec{0, 1}
	}
	return Vec{1, 0}
}

// toScreen maps sibling-axis coordinate u and generation coordinate v to
// screen space, before normalisation.
func (s Settings) toScreen(u, v float64) (float64, float64) {
	g, b := s.GenerationDir(), s.SiblingDir()
	return u*b.X + v*g.X, u*b.Y + v*g.Y
}
