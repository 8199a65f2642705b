package banner

import (
	"fmt"
	"strings"
)

// Position is the screen edge the banner anchors to.
type Position int

const (
	PositionTop Position = iota
	PositionBottom
)

// String returns the config name of the position.
func (p Position) String() string {
	switch p {
	case PositionTop:
		return "top"
	case PositionBottom:
		return "bottom"
	default:
		return fmt.Sprintf("position(%d)", int(p))
	}
}

// ParsePosition parses "top" or "bottom".
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return PositionTop, nil
	case "bottom":
		return PositionBottom, nil
	default:
		return 0, fmt.Errorf("invalid position %q, must be one of: top, bottom", s)
	}
}

// Direction is the axis the banner slides along.
// Straight moves vertically; FromLeft and FromRight move horizontally
// regardless of position.
type Direction int

const (
	DirectionStraight Direction = iota
	// DirectionFromLeft parks the hidden banner at x = screenWidth.
	DirectionFromLeft
	// DirectionFromRight parks the hidden banner at x = -screenWidth.
	DirectionFromRight
)

// String returns the config name of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionStraight:
		return "straight"
	case DirectionFromLeft:
		return "from-left"
	case DirectionFromRight:
		return "from-right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Horizontal reports whether the direction animates along the x axis.
func (d Direction) Horizontal() bool {
	return d == DirectionFromLeft || d == DirectionFromRight
}

// ParseDirection parses "straight", "from-left" or "from-right".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "straight", "normal":
		return DirectionStraight, nil
	case "from-left", "left":
		return DirectionFromLeft, nil
	case "from-right", "right":
		return DirectionFromRight, nil
	default:
		return 0, fmt.Errorf("invalid direction %q, must be one of: straight, from-left, from-right", s)
	}
}

// State is a step of the show/hide lifecycle.
type State int

const (
	StateHidden State = iota
	StateAttaching
	StateShowing
	StateVisible
	StateHiding
	StateDetaching
)

func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateAttaching:
		return "attaching"
	case StateShowing:
		return "showing"
	case StateVisible:
		return "visible"
	case StateHiding:
		return "hiding"
	case StateDetaching:
		return "detaching"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Point is a position in surface units.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in surface units.
type Rect struct {
	X, Y, Width, Height float64
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// WithOrigin returns r moved to p.
func (r Rect) WithOrigin(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// Intersects reports whether r and o overlap with non-zero area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width && o.Y+o.Height <= r.Y+r.Height
}

// Lerp interpolates between r and to. t is clamped to [0, 1].
func (r Rect) Lerp(to Rect, t float64) Rect {
	if t <= 0 {
		return r
	}
	if t >= 1 {
		return to
	}
	return Rect{
		X:      r.X + (to.X-r.X)*t,
		Y:      r.Y + (to.Y-r.Y)*t,
		Width:  r.Width + (to.Width-r.Width)*t,
		Height: r.Height + (to.Height-r.Height)*t,
	}
}

// Font describes how a text region is drawn.
type Font struct {
	Name      string  `toml:"name" yaml:"name"`
	Size      float64 `toml:"size" yaml:"size"`
	Bold      bool    `toml:"bold" yaml:"bold"`
	Italic    bool    `toml:"italic" yaml:"italic"`
	Underline bool    `toml:"underline" yaml:"underline"`
}

// Label is one text region of the banner, in banner-local coordinates.
type Label struct {
	Text     string
	Frame    Rect
	Color    Color
	Font     Font
	MaxLines int
	Hidden   bool
}

// Metrics holds the fixed offsets used to lay out the text regions.
type Metrics struct {
	InsetX       float64 // left inset of both regions
	BottomInset  float64 // title offset when anchored to the bottom
	RegionHeight float64 // fixed height of each text region
	RegionGap    float64 // gap between title and message when anchored to the top
	MaxLines     int     // wrap limit before clipping
}

// DefaultMetrics returns point-based metrics for a pixel surface.
func DefaultMetrics() Metrics {
	return Metrics{
		InsetX:       10,
		BottomInset:  15,
		RegionHeight: 20,
		RegionGap:    5,
		MaxLines:     10,
	}
}
