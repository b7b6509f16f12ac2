// Package compute runs data-parallel kernels over index ranges.
//
// A kernel captures the buffers it reads and writes. It must only read its
// inputs and only write the output slots for indices in [lo, hi), so chunks
// can run in any order on any worker.
package compute

import (
	"errors"

	"github.com/pthm-cable/mold/config"
)

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("compute: backend closed")

// KernelFunc processes elements lo through hi-1.
type KernelFunc func(lo, hi int)

// Backend dispatches kernels. Dispatch returns only once every element of
// [0, n) has been processed, so consecutive dispatches never overlap.
// A Backend is driven by a single control goroutine.
type Backend interface {
	Dispatch(kernel string, n int, fn KernelFunc) error
	Close()
}

// New builds the backend selected by cfg.
func New(cfg config.ComputeConfig) Backend {
	if cfg.Backend == config.BackendSerial {
		return NewSerial()
	}
	return NewPool(cfg.Workers)
}
