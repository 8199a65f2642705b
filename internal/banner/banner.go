// Package banner implements a transient notification banner: a colored bar
// with a title and optional message that slides in from a screen edge,
// holds for a delay, then slides back out.
//
// A Banner is not safe for concurrent use. Every method and every callback
// it hands to its Surface and Scheduler must run on the host's event loop.
package banner

import (
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/dropalert/internal/clock"
)

// Default property values.
const (
	DefaultHeight            = 70.0
	DefaultAnimationDuration = 700 * time.Millisecond
	DefaultDismissDelay      = 2 * time.Second
)

// DefaultTitleFont and DefaultMessageFont are the initial region fonts.
var (
	DefaultTitleFont   = Font{Name: "system", Size: 16, Bold: true}
	DefaultMessageFont = Font{Name: "system", Size: 14}
)

// Banner is a drop-down alert bound to one host surface.
type Banner struct {
	surface   Surface
	scheduler clock.Scheduler
	logger    *slog.Logger

	position  Position
	direction Direction
	metrics   Metrics

	// Read once at construction.
	screenWidth    float64
	screenHeight   float64
	statusBarInset float64

	// Properties
	height            float64
	animationDuration time.Duration
	dismissDelay      time.Duration
	tapWhileShowing   bool
	onTap             func()

	titleColor      Color
	messageColor    Color
	backgroundColor Color

	// Live regions
	frame      Rect
	background Color
	title      Label
	message    Label

	// Lifecycle
	state    State
	hidden   Rect // off-screen frame of the current cycle
	attached Surface
	cycle    ulid.ULID
	timer    clock.Timer
	tapped   bool
}

// Option configures a Banner at construction.
type Option func(*Banner)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Banner) {
		b.logger = l
	}
}

// WithMetrics overrides the text region metrics.
func WithMetrics(m Metrics) Option {
	return func(b *Banner) {
		b.metrics = m
	}
}

// WithHeight sets the banner thickness before the initial frame is computed.
func WithHeight(h float64) Option {
	return func(b *Banner) {
		b.height = h
	}
}

// WithTapWhileShowing makes taps during the entry animation count.
func WithTapWhileShowing(enabled bool) Option {
	return func(b *Banner) {
		b.tapWhileShowing = enabled
	}
}

// New creates a banner anchored to position and sliding along direction.
// Screen size and status bar inset are read from surface once, here.
// The dismiss timer is armed on scheduler, whose callbacks must run on the
// same event loop as surface; it must not be nil.
func New(surface Surface, scheduler clock.Scheduler, position Position, direction Direction, opts ...Option) *Banner {
	if scheduler == nil {
		panic("banner: nil scheduler")
	}
	b := &Banner{
		surface:           surface,
		scheduler:         scheduler,
		position:          position,
		direction:         direction,
		metrics:           DefaultMetrics(),
		height:            DefaultHeight,
		animationDuration: DefaultAnimationDuration,
		dismissDelay:      DefaultDismissDelay,
		titleColor:        White,
		messageColor:      White,
		backgroundColor:   Green,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	b.screenWidth, b.screenHeight = surface.ScreenSize()
	if position == PositionTop {
		b.statusBarInset = surface.StatusBarInset()
	}

	b.frame = ComputeInitialFrame(position, direction, b.screenWidth, b.screenHeight, b.height)
	b.background = b.backgroundColor
	b.setDefaults()
	return b
}

// setDefaults lays out both regions with their default styling.
func (b *Banner) setDefaults() {
	titleFrame, messageFrame, _ := layoutLabels(b.position, b.frame.Width, b.height, b.statusBarInset, b.metrics, true)
	b.title = Label{
		Frame:    titleFrame,
		Color:    b.titleColor,
		Font:     DefaultTitleFont,
		MaxLines: b.metrics.MaxLines,
	}
	b.message = Label{
		Frame:    messageFrame,
		Color:    b.messageColor,
		Font:     DefaultMessageFont,
		MaxLines: b.metrics.MaxLines,
	}
}

// Position returns the anchored edge.
func (b *Banner) Position() Position { return b.position }

// Direction returns the animation axis.
func (b *Banner) Direction() Direction { return b.direction }

// State returns the current lifecycle state.
func (b *Banner) State() State { return b.state }

// Frame returns the model frame. During an animation this is the target.
func (b *Banner) Frame() Rect { return b.frame }

// Background returns the live background color.
func (b *Banner) Background() Color { return b.background }

// Title returns a copy of the title region.
func (b *Banner) Title() Label { return b.title }

// Message returns a copy of the message region.
func (b *Banner) Message() Label { return b.message }

// Attached returns the surface the banner is a child of, or nil.
func (b *Banner) Attached() Surface { return b.attached }

// Cycle identifies the current show cycle. It is zero while hidden.
func (b *Banner) Cycle() ulid.ULID { return b.cycle }

// Height returns the banner thickness.
func (b *Banner) Height() float64 { return b.height }

// AnimationDuration returns the slide duration.
func (b *Banner) AnimationDuration() time.Duration { return b.animationDuration }

// DismissDelay returns the default time visible before auto-dismiss.
func (b *Banner) DismissDelay() time.Duration { return b.dismissDelay }

// SetTitleFont sets the title font and updates the live title region.
func (b *Banner) SetTitleFont(f Font) {
	b.title.Font = f
}

// SetMessageFont sets the message font and updates the live message region.
func (b *Banner) SetMessageFont(f Font) {
	b.message.Font = f
}

// SetTitleColor sets the title color used by shows that do not override it.
// A banner on screen keeps its current color until the next cycle.
func (b *Banner) SetTitleColor(c Color) {
	b.titleColor = c
	if b.state == StateHidden {
		b.title.Color = c
	}
}

// SetMessageColor sets the default message color.
func (b *Banner) SetMessageColor(c Color) {
	b.messageColor = c
	if b.state == StateHidden {
		b.message.Color = c
	}
}

// SetBackgroundColor sets the default background color.
func (b *Banner) SetBackgroundColor(c Color) {
	b.backgroundColor = c
	if b.state == StateHidden {
		b.background = c
	}
}

// SetHeight sets the banner thickness. It applies from the next show.
// A cycle in progress keeps the height it was shown with.
func (b *Banner) SetHeight(h float64) {
	b.height = h
}

// SetAnimationDuration sets the slide duration for both directions.
func (b *Banner) SetAnimationDuration(d time.Duration) {
	b.animationDuration = d
}

// SetDismissDelay sets the default delay used by Show.
func (b *Banner) SetDismissDelay(d time.Duration) {
	b.dismissDelay = d
}

// SetOnTap sets the tap callback. It runs at most once per show cycle.
func (b *Banner) SetOnTap(f func()) {
	b.onTap = f
}

// SetTapWhileShowing makes taps during the entry animation count.
func (b *Banner) SetTapWhileShowing(enabled bool) {
	b.tapWhileShowing = enabled
}
