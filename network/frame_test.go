package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameSchedulerRunsOncePerRequest(t *testing.T) {
	var s FrameScheduler
	calls := 0
	s.Request(func() { calls++ })

	s.RunFrame()
	s.RunFrame()
	assert.Equal(t, 1, calls)
}

func TestFrameSchedulerReRequestRunsNextFrame(t *testing.T) {
	var s FrameScheduler
	calls := 0
	var loop func()
	loop = func() {
		calls++
		s.Request(loop)
	}
	s.Request(loop)

	s.RunFrame()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, s.Pending())
	s.RunFrame()
	assert.Equal(t, 2, calls)
}

func TestFrameSchedulerCancel(t *testing.T) {
	var s FrameScheduler
	ran := false
	h := s.Request(func() { ran = true })
	assert.NotZero(t, h)

	s.Cancel(h)
	s.Cancel(h)
	s.RunFrame()
	assert.False(t, ran)
	assert.Zero(t, s.Pending())
}
