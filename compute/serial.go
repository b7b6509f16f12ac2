package compute

// Serial runs every kernel on the calling goroutine in index order.
// It is the reference backend for tests.
type Serial struct {
	closed bool
}

// NewSerial returns a ready Serial backend.
func NewSerial() *Serial {
	return &Serial{}
}

// Dispatch runs fn over [0, n) in one call.
func (s *Serial) Dispatch(kernel string, n int, fn KernelFunc) error {
	if s.closed {
		return ErrClosed
	}
	if n > 0 {
		fn(0, n)
	}
	return nil
}

// Close marks the backend closed.
func (s *Serial) Close() {
	s.closed = true
}
