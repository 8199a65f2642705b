package banner

import (
	"errors"
	"time"
)

// Surface is the host container a banner attaches itself into.
//
// All methods are called from the host's event loop, and every callback a
// Surface receives must be invoked on that same loop.
type Surface interface {
	// ScreenSize returns the visible area in surface units.
	// A banner reads it once, at construction.
	ScreenSize() (width, height float64)

	// StatusBarInset returns the height reserved at the top edge.
	StatusBarInset() float64

	// Attach inserts the banner into the topmost eligible container.
	// It returns false when no eligible container exists.
	Attach(b *Banner) bool

	// Detach removes the banner from its container.
	Detach(b *Banner)

	// Animate moves the banner from one frame to another over d and calls
	// done once the move completes. A new Animate for the same banner
	// replaces one in flight; the host may start it from the currently
	// presented frame rather than from.
	Animate(b *Banner, from, to Rect, d time.Duration, done func())
}

var (
	// ErrBusy is returned by Show when a previous cycle has not reached
	// the hidden state yet.
	ErrBusy = errors.New("banner is busy")

	// ErrInvalidDelay is returned by ShowWithDelay for negative delays.
	ErrInvalidDelay = errors.New("dismiss delay must not be negative")
)

// SurfaceError reports a host surface failure.
type SurfaceError struct {
	Message string
	Cause   error
}

func (e *SurfaceError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *SurfaceError) Unwrap() error {
	return e.Cause
}
