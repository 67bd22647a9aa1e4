package network

// FrameHandle identifies a requested animation frame callback. Zero is never
// issued.
type FrameHandle uint64

type frameRequest struct {
	handle FrameHandle
	fn     func()
}

// FrameScheduler is a requestAnimationFrame style clock driven by the game's
// Update loop. Callbacks requested during RunFrame run on the next frame.
// It is not safe for concurrent use; it belongs to the Update goroutine.
type FrameScheduler struct {
	next    FrameHandle
	pending []frameRequest
}

// Request schedules fn for the next frame.
func (s *FrameScheduler) Request(fn func()) FrameHandle {
	s.next++
	s.pending = append(s.pending, frameRequest{handle: s.next, fn: fn})
	return s.next
}

// Cancel drops a pending callback. Cancelling a handle that already ran or was
// cancelled is a no-op.
func (s *FrameScheduler) Cancel(h FrameHandle) {
	for i, r := range s.pending {
		if r.handle == h {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// RunFrame runs every callback pending at call time, in request order.
func (s *FrameScheduler) RunFrame() {
	batch := s.pending
	s.pending = nil
	for _, r := range batch {
		r.fn()
	}
}

// Pending returns the number of callbacks waiting for the next frame.
func (s *FrameScheduler) Pending() int {
	return len(s.pending)
}
