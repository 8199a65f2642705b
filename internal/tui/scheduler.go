package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/dropalert/internal/clock"
)

// timerMsg fires a scheduled callback on the program's event loop.
type timerMsg struct {
	id uint64
}

// Scheduler implements clock.Scheduler on top of tea.Tick so that timer
// callbacks run inside Update rather than on a runtime goroutine.
// Commands queued by AfterFunc are collected with Flush.
type Scheduler struct {
	nextID  uint64
	live    map[uint64]func()
	pending []tea.Cmd
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{live: make(map[uint64]func())}
}

// AfterFunc registers f and queues a tick that fires it after d.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) clock.Timer {
	s.nextID++
	id := s.nextID
	s.live[id] = f
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return &teaTimer{s: s, id: id}
}

// Fire runs the callback for id. Stopped or already fired ids are ignored.
func (s *Scheduler) Fire(id uint64) bool {
	f, ok := s.live[id]
	if !ok {
		return false
	}
	delete(s.live, id)
	f()
	return true
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	return len(s.live)
}

// Flush returns the ticks queued since the last call.
func (s *Scheduler) Flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

type teaTimer struct {
	s  *Scheduler
	id uint64
}

func (t *teaTimer) Stop() bool {
	if _, ok := t.s.live[t.id]; !ok {
		return false
	}
	delete(t.s.live, t.id)
	return true
}
