package banner

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// ShowOption customizes a single show cycle.
type ShowOption func(*showConfig)

type showConfig struct {
	message      string
	titleColor   *Color
	messageColor *Color
	background   *Color
}

// WithMessage adds a message under the title. An empty message is absent.
func WithMessage(msg string) ShowOption {
	return func(c *showConfig) {
		c.message = msg
	}
}

// WithTitleColor overrides the title color for this cycle.
func WithTitleColor(col Color) ShowOption {
	return func(c *showConfig) {
		c.titleColor = &col
	}
}

// WithMessageColor overrides the message color for this cycle.
func WithMessageColor(col Color) ShowOption {
	return func(c *showConfig) {
		c.messageColor = &col
	}
}

// WithBackgroundColor overrides the background color for this cycle.
func WithBackgroundColor(col Color) ShowOption {
	return func(c *showConfig) {
		c.background = &col
	}
}

// Show attaches the banner, slides it in and arms the dismiss timer with
// the banner's dismiss delay.
//
// Show returns ErrBusy unless the banner is hidden. When the surface has no
// eligible container the call is a silent no-op and the banner stays hidden.
func (b *Banner) Show(title string, opts ...ShowOption) error {
	return b.show(title, b.dismissDelay, opts)
}

// ShowWithDelay is Show with an explicit dismiss delay for this cycle only.
func (b *Banner) ShowWithDelay(title string, delay time.Duration, opts ...ShowOption) error {
	if delay < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDelay, delay)
	}
	return b.show(title, delay, opts)
}

func (b *Banner) show(title string, delay time.Duration, opts []ShowOption) error {
	if b.state != StateHidden {
		return fmt.Errorf("%w: state is %s", ErrBusy, b.state)
	}

	var cfg showConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	b.state = StateAttaching
	if b.attached == nil {
		if !b.surface.Attach(b) {
			b.state = StateHidden
			b.logger.Debug("no eligible surface, banner not shown", "title", title)
			return nil
		}
		b.attached = b.surface
	}

	b.cycle = ulid.Make()
	b.tapped = false

	b.configure(title, cfg)

	from := ComputeInitialFrame(b.position, b.direction, b.screenWidth, b.screenHeight, b.height)
	to := from.WithOrigin(ComputeVisibleOrigin(b.position, b.direction, b.screenHeight, b.height, from.Y))
	b.hidden = from
	b.frame = to
	b.state = StateShowing

	b.logger.Debug("showing banner",
		"cycle", b.cycle.String(),
		"position", b.position.String(),
		"direction", b.direction.String(),
		"delay", delay,
	)

	cycle := b.cycle
	b.surface.Animate(b, from, to, b.animationDuration, func() {
		b.entered(cycle, delay)
	})
	return nil
}

// configure applies text, colors and layout for a new cycle.
func (b *Banner) configure(title string, cfg showConfig) {
	hasMessage := cfg.message != ""
	titleFrame, messageFrame, messageHidden := layoutLabels(b.position, b.screenWidth, b.height, b.statusBarInset, b.metrics, hasMessage)

	b.title.Text = title
	b.title.Frame = titleFrame
	b.title.Color = b.titleColor
	if cfg.titleColor != nil {
		b.title.Color = *cfg.titleColor
	}

	b.message.Text = cfg.message
	b.message.Frame = messageFrame
	b.message.Hidden = messageHidden
	b.message.Color = b.messageColor
	if cfg.messageColor != nil {
		b.message.Color = *cfg.messageColor
	}

	b.background = b.backgroundColor
	if cfg.background != nil {
		b.background = *cfg.background
	}
}

// entered completes the entry animation and arms the dismiss timer.
func (b *Banner) entered(cycle ulid.ULID, delay time.Duration) {
	if b.cycle != cycle || b.state != StateShowing {
		return
	}
	b.state = StateVisible
	b.stopTimer()
	b.timer = b.scheduler.AfterFunc(delay, func() {
		b.expired(cycle)
	})
}

// expired handles the dismiss timer firing.
func (b *Banner) expired(cycle ulid.ULID) {
	if b.cycle != cycle {
		return
	}
	b.timer = nil
	b.beginHide("timeout")
}

// Tap handles a tap on the banner. While visible, or while showing when
// taps are accepted early, it runs the tap callback once for the cycle and
// starts the hide. The hide starts even if the callback panics.
func (b *Banner) Tap() {
	switch b.state {
	case StateVisible:
	case StateShowing:
		if !b.tapWhileShowing {
			return
		}
	default:
		return
	}
	if b.tapped {
		return
	}
	b.tapped = true

	defer b.beginHide("tap")
	if b.onTap != nil {
		b.onTap()
	}
}

// Dismiss starts the hide early. It reports whether a hide was started.
func (b *Banner) Dismiss() bool {
	return b.beginHide("dismiss")
}

// beginHide cancels the dismiss timer and slides the banner out. Only the
// first caller per cycle gets past the state check.
func (b *Banner) beginHide(reason string) bool {
	if b.state != StateShowing && b.state != StateVisible {
		return false
	}
	b.stopTimer()
	b.state = StateHiding

	from := b.frame
	to := b.hidden
	b.frame = to

	b.logger.Debug("hiding banner", "cycle", b.cycle.String(), "reason", reason)

	cycle := b.cycle
	b.surface.Animate(b, from, to, b.animationDuration, func() {
		b.exited(cycle)
	})
	return true
}

// exited completes the exit animation and detaches.
func (b *Banner) exited(cycle ulid.ULID) {
	if b.cycle != cycle || b.state != StateHiding {
		return
	}
	b.state = StateDetaching
	b.detach()
	b.state = StateHidden
	b.logger.Debug("banner hidden", "cycle", cycle.String())
}

// Close tears the banner down immediately: the dismiss timer is invalidated
// and the banner detached without animating. Late animation callbacks for
// the torn-down cycle are ignored. The banner can be shown again.
func (b *Banner) Close() {
	b.stopTimer()
	if b.attached != nil {
		b.detach()
	}
	if b.state != StateHidden {
		b.frame = b.hidden
	}
	b.state = StateHidden
}

func (b *Banner) detach() {
	if b.attached != nil {
		b.attached.Detach(b)
	}
	b.attached = nil
	b.cycle = ulid.ULID{}
}

func (b *Banner) stopTimer() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
