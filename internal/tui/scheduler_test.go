package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_FireRunsOnce(t *testing.T) {
	s := NewScheduler()
	calls := 0
	s.AfterFunc(time.Second, func() { calls++ })

	assert.Equal(t, 1, s.Pending())
	assert.NotNil(t, s.Flush())
	assert.Nil(t, s.Flush(), "flush drains queued ticks")

	assert.True(t, s.Fire(1))
	assert.False(t, s.Fire(1))
	assert.Equal(t, 1, calls)
	assert.Zero(t, s.Pending())
}

func TestScheduler_StoppedTimerIgnored(t *testing.T) {
	s := NewScheduler()
	calls := 0
	timer := s.AfterFunc(time.Second, func() { calls++ })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	assert.False(t, s.Fire(1))
	assert.Zero(t, calls)
}

func TestScheduler_UnknownID(t *testing.T) {
	s := NewScheduler()
	assert.False(t, s.Fire(42))
}

func TestScheduler_IDsAreDistinct(t *testing.T) {
	s := NewScheduler()
	var order []int
	s.AfterFunc(time.Second, func() { order = append(order, 1) })
	s.AfterFunc(time.Second, func() { order = append(order, 2) })

	assert.True(t, s.Fire(2))
	assert.True(t, s.Fire(1))
	assert.Equal(t, []int{2, 1}, order)
}
