package tui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/dropalert/internal/banner"
)

// TerminalMetrics lays out banner labels in terminal cells: one row per
// region, a single column of left padding.
func TerminalMetrics() banner.Metrics {
	return banner.Metrics{
		InsetX:       1,
		BottomInset:  0,
		RegionHeight: 1,
		RegionGap:    0,
		MaxLines:     1,
	}
}

// frameMsg advances the animation with the given id.
type frameMsg struct {
	id uint64
	at time.Time
}

type animation struct {
	id       uint64
	from, to banner.Rect
	start    time.Time
	duration time.Duration
	done     func()
}

// Host is a banner.Surface backed by the terminal screen. It tracks the
// frame it is currently presenting and drives animations with frame ticks
// that come back through Update.
type Host struct {
	width, height int
	inset         int
	interval      time.Duration
	now           func() time.Time

	attached  *banner.Banner
	presented banner.Rect
	anim      *animation
	nextID    uint64
	pending   []tea.Cmd
}

// NewHost creates a host for a screen of width x height cells that reserves
// inset rows at the top and animates at fps frames per second.
func NewHost(width, height, inset, fps int) *Host {
	if fps < 1 {
		fps = 30
	}
	return &Host{
		width:    width,
		height:   height,
		inset:    inset,
		interval: time.Second / time.Duration(fps),
		now:      time.Now,
	}
}

// ScreenSize implements banner.Surface.
func (h *Host) ScreenSize() (float64, float64) {
	return float64(h.width), float64(h.height)
}

// StatusBarInset implements banner.Surface.
func (h *Host) StatusBarInset() float64 {
	return float64(h.inset)
}

// Attach implements banner.Surface. A zero-sized screen has nothing to
// attach to.
func (h *Host) Attach(b *banner.Banner) bool {
	if h.width <= 0 || h.height <= 0 {
		return false
	}
	h.attached = b
	h.presented = b.Frame()
	return true
}

// Detach implements banner.Surface.
func (h *Host) Detach(b *banner.Banner) {
	if h.attached != b {
		return
	}
	h.attached = nil
	h.anim = nil
	h.presented = banner.Rect{}
}

// Animate implements banner.Surface. An animation already in flight is
// replaced and the new one starts from the presented frame.
func (h *Host) Animate(b *banner.Banner, from, to banner.Rect, d time.Duration, done func()) {
	if h.anim != nil {
		from = h.presented
	}
	h.nextID++
	h.anim = &animation{
		id:       h.nextID,
		from:     from,
		to:       to,
		start:    h.now(),
		duration: d,
		done:     done,
	}
	h.presented = from
	h.queueFrame(h.nextID, 0)
}

// Attached returns the banner currently on screen, if any.
func (h *Host) Attached() *banner.Banner {
	return h.attached
}

// Animating reports whether an animation is in flight.
func (h *Host) Animating() bool {
	return h.anim != nil
}

// Presented returns the frame currently on screen.
func (h *Host) Presented() banner.Rect {
	return h.presented
}

// Cells returns the presented frame snapped to the cell grid.
func (h *Host) Cells() (x, y, w, hgt int) {
	r := h.presented
	return int(math.Round(r.X)), int(math.Round(r.Y)), int(math.Round(r.Width)), int(math.Round(r.Height))
}

// HitTest reports whether the cell at (x, y) lies on the attached banner.
func (h *Host) HitTest(x, y int) bool {
	if h.attached == nil {
		return false
	}
	bx, by, bw, bh := h.Cells()
	return x >= bx && x < bx+bw && y >= by && y < by+bh
}

// Resize records a new screen size. Banners keep the size they read at
// construction; the host only uses it for clipping.
func (h *Host) Resize(width, height int) {
	h.width, h.height = width, height
}

// SetFPS changes the frame rate for animations started afterwards.
func (h *Host) SetFPS(fps int) {
	if fps < 1 {
		return
	}
	h.interval = time.Second / time.Duration(fps)
}

// Step advances the animation named by msg. It returns true when the
// message belonged to the current animation.
func (h *Host) Step(msg frameMsg) bool {
	a := h.anim
	if a == nil || a.id != msg.id {
		return false
	}

	elapsed := msg.at.Sub(a.start)
	if a.duration <= 0 || elapsed >= a.duration {
		h.presented = a.to
		h.anim = nil
		if a.done != nil {
			a.done()
		}
		return true
	}

	t := easeInOut(float64(elapsed) / float64(a.duration))
	h.presented = a.from.Lerp(a.to, t)
	h.queueFrame(a.id, h.interval)
	return true
}

// Flush returns the frame ticks queued since the last call.
func (h *Host) Flush() tea.Cmd {
	if len(h.pending) == 0 {
		return nil
	}
	cmds := h.pending
	h.pending = nil
	return tea.Batch(cmds...)
}

func (h *Host) queueFrame(id uint64, d time.Duration) {
	now := h.now
	h.pending = append(h.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return frameMsg{id: id, at: now()}
	}))
}

func easeInOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
