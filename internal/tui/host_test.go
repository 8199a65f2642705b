package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/dropalert/internal/banner"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestHost(t *testing.T) *Host {
	t.Helper()
	h := NewHost(40, 12, 0, 30)
	h.now = func() time.Time { return epoch }
	return h
}

func TestHost_SurfaceGeometry(t *testing.T) {
	h := NewHost(80, 24, 2, 30)
	w, hgt := h.ScreenSize()
	assert.Equal(t, 80.0, w)
	assert.Equal(t, 24.0, hgt)
	assert.Equal(t, 2.0, h.StatusBarInset())
}

func TestHost_AttachRequiresScreen(t *testing.T) {
	h := NewHost(0, 0, 0, 30)
	b := banner.New(h, NewScheduler(), banner.PositionTop, banner.DirectionStraight)

	assert.False(t, h.Attach(b))
	assert.NoError(t, b.Show("hello"))
	assert.Equal(t, banner.StateHidden, b.State())
	assert.Nil(t, h.Attached())
}

func TestHost_AnimateInterpolates(t *testing.T) {
	h := newTestHost(t)
	b := banner.New(h, NewScheduler(), banner.PositionTop, banner.DirectionStraight,
		banner.WithHeight(4))

	from := banner.Rect{X: 0, Y: -4, Width: 40, Height: 4}
	to := banner.Rect{X: 0, Y: 0, Width: 40, Height: 4}
	done := 0
	require.True(t, h.Attach(b))
	h.Animate(b, from, to, time.Second, func() { done++ })

	assert.Equal(t, from, h.Presented())
	assert.True(t, h.Animating())
	assert.NotNil(t, h.Flush())

	assert.True(t, h.Step(frameMsg{id: 1, at: epoch.Add(500 * time.Millisecond)}))
	assert.InDelta(t, -2.0, h.Presented().Y, 0.001)
	assert.Zero(t, done)
	assert.NotNil(t, h.Flush(), "next frame queued")

	assert.True(t, h.Step(frameMsg{id: 1, at: epoch.Add(time.Second)}))
	assert.Equal(t, to, h.Presented())
	assert.False(t, h.Animating())
	assert.Equal(t, 1, done)
	assert.Nil(t, h.Flush())
}

func TestHost_ReplacedAnimationStartsFromPresented(t *testing.T) {
	h := newTestHost(t)
	b := banner.New(h, NewScheduler(), banner.PositionTop, banner.DirectionStraight)
	require.True(t, h.Attach(b))

	first := 0
	h.Animate(b, banner.Rect{Y: -4, Width: 40, Height: 4}, banner.Rect{Width: 40, Height: 4}, time.Second, func() { first++ })
	h.Step(frameMsg{id: 1, at: epoch.Add(500 * time.Millisecond)})
	mid := h.Presented()

	second := 0
	h.Animate(b, banner.Rect{Width: 40, Height: 4}, banner.Rect{Y: -4, Width: 40, Height: 4}, time.Second, func() { second++ })
	assert.Equal(t, mid, h.Presented())

	assert.False(t, h.Step(frameMsg{id: 1, at: epoch.Add(2 * time.Second)}), "stale frame ignored")
	assert.True(t, h.Step(frameMsg{id: 2, at: epoch.Add(2 * time.Second)}))
	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}

func TestHost_ZeroDurationCompletesOnFirstFrame(t *testing.T) {
	h := newTestHost(t)
	b := banner.New(h, NewScheduler(), banner.PositionTop, banner.DirectionStraight)
	require.True(t, h.Attach(b))

	done := false
	to := banner.Rect{Width: 40, Height: 3}
	h.Animate(b, banner.Rect{Y: -3, Width: 40, Height: 3}, to, 0, func() { done = true })
	assert.False(t, done, "completion is deferred to the event loop")

	h.Step(frameMsg{id: 1, at: epoch})
	assert.True(t, done)
	assert.Equal(t, to, h.Presented())
}

func TestHost_HitTest(t *testing.T) {
	h := newTestHost(t)
	b := banner.New(h, NewScheduler(), banner.PositionTop, banner.DirectionStraight)
	assert.False(t, h.HitTest(1, 1), "nothing attached")

	require.True(t, h.Attach(b))
	h.Animate(b, banner.Rect{Y: -3, Width: 40, Height: 3}, banner.Rect{Width: 40, Height: 3}, 0, nil)
	h.Step(frameMsg{id: 1, at: epoch})

	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{39, 2, true},
		{40, 0, false},
		{5, 3, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, h.HitTest(tt.x, tt.y), "(%d,%d)", tt.x, tt.y)
	}

	h.Detach(b)
	assert.False(t, h.HitTest(0, 0))
	assert.Equal(t, banner.Rect{}, h.Presented())
}

func TestHost_DetachIgnoresOtherBanner(t *testing.T) {
	h := newTestHost(t)
	a := banner.New(h, NewScheduler(), banner.PositionTop, banner.DirectionStraight)
	other := banner.New(h, NewScheduler(), banner.PositionBottom, banner.DirectionStraight)
	require.True(t, h.Attach(a))

	h.Detach(other)
	assert.Same(t, a, h.Attached())
}

func TestEaseInOut(t *testing.T) {
	assert.Equal(t, 0.0, easeInOut(-1))
	assert.Equal(t, 0.0, easeInOut(0))
	assert.Equal(t, 0.5, easeInOut(0.5))
	assert.Equal(t, 1.0, easeInOut(1))
	assert.Equal(t, 1.0, easeInOut(2))
	assert.Less(t, easeInOut(0.25), 0.25)
}
