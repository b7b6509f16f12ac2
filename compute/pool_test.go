package compute

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/mold/config"
)

func TestDispatchCoversRange(t *testing.T) {
	sizes := []int{1, 7, parallelThreshold - 1, parallelThreshold, 10007, 100000}
	backends := map[string]func() Backend{
		"serial": func() Backend { return NewSerial() },
		"pool":   func() Backend { return NewPool(4) },
		"pool-1": func() Backend { return NewPool(1) },
	}

	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			b := mk()
			defer b.Close()

			for _, n := range sizes {
				hits := make([]int32, n)
				err := b.Dispatch("cover", n, func(lo, hi int) {
					for i := lo; i < hi; i++ {
						atomic.AddInt32(&hits[i], 1)
					}
				})
				require.NoError(t, err)
				for i, h := range hits {
					if h != 1 {
						t.Fatalf("n=%d: element %d visited %d times", n, i, h)
					}
				}
			}
		})
	}
}

func TestDispatchEmpty(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	called := false
	require.NoError(t, p.Dispatch("empty", 0, func(lo, hi int) { called = true }))
	assert.False(t, called, "kernel should not run for n=0")
}

func TestDispatchAfterClose(t *testing.T) {
	p := NewPool(2)
	require.NoError(t, p.Dispatch("warm", 4*parallelThreshold, func(lo, hi int) {}))
	p.Close()
	p.Close() // second close is a no-op

	err := p.Dispatch("late", 10, func(lo, hi int) {})
	assert.ErrorIs(t, err, ErrClosed)

	s := NewSerial()
	s.Close()
	assert.ErrorIs(t, s.Dispatch("late", 10, func(lo, hi int) {}), ErrClosed)
}

func TestDispatchSequential(t *testing.T) {
	// Each dispatch must observe the complete output of the previous one.
	p := NewPool(4)
	defer p.Close()

	const n = 50000
	a := make([]int, n)
	b := make([]int, n)
	for i := range a {
		a[i] = i
	}
	for round := 0; round < 5; round++ {
		require.NoError(t, p.Dispatch("shift", n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				b[i] = a[(i+1)%n] + 1
			}
		}))
		a, b = b, a
	}
	for i := range a {
		require.Equal(t, (i+5)%n+5, a[i])
	}
}

func TestNewFromConfig(t *testing.T) {
	b := New(config.ComputeConfig{Backend: config.BackendSerial})
	_, ok := b.(*Serial)
	assert.True(t, ok)

	b = New(config.ComputeConfig{Backend: config.BackendPool, Workers: 3})
	p, ok := b.(*Pool)
	require.True(t, ok)
	assert.Equal(t, 3, p.Workers())
	b.Close()
}
