package banner

import (
	"time"
)

// fakeSurface records calls and lets tests complete animations by hand.
type fakeSurface struct {
	width, height float64
	inset         float64
	eligible      bool

	attached   []*Banner
	attaches   int
	detaches   int
	animations []animation
}

type animation struct {
	from, to Rect
	duration time.Duration
	done     func()
}

func newFakeSurface(width, height, inset float64) *fakeSurface {
	return &fakeSurface{width: width, height: height, inset: inset, eligible: true}
}

func (s *fakeSurface) ScreenSize() (float64, float64) { return s.width, s.height }

func (s *fakeSurface) StatusBarInset() float64 { return s.inset }

func (s *fakeSurface) Attach(b *Banner) bool {
	if !s.eligible {
		return false
	}
	s.attaches++
	s.attached = append(s.attached, b)
	return true
}

func (s *fakeSurface) Detach(b *Banner) {
	s.detaches++
	for i, a := range s.attached {
		if a == b {
			s.attached = append(s.attached[:i], s.attached[i+1:]...)
			return
		}
	}
}

func (s *fakeSurface) Animate(_ *Banner, from, to Rect, d time.Duration, done func()) {
	s.animations = append(s.animations, animation{from: from, to: to, duration: d, done: done})
}

// finish completes the oldest pending animation.
func (s *fakeSurface) finish() animation {
	a := s.animations[0]
	s.animations = s.animations[1:]
	a.done()
	return a
}

// finishAll completes every pending animation, including ones started by
// completion callbacks.
func (s *fakeSurface) finishAll() {
	for len(s.animations) > 0 {
		s.finish()
	}
}
