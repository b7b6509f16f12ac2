package components

import "testing"

func TestProbeReading(t *testing.T) {
	var r ProbeReading
	if r.Mean() != 0 {
		t.Errorf("empty mean = %v, want 0", r.Mean())
	}

	for _, v := range []float32{1, 3, 2} {
		r.Record(v)
	}
	if r.Value != 2 {
		t.Errorf("value = %v, want 2", r.Value)
	}
	if r.Peak != 3 {
		t.Errorf("peak = %v, want 3", r.Peak)
	}
	if r.Mean() != 2 {
		t.Errorf("mean = %v, want 2", r.Mean())
	}
	if r.Samples != 3 {
		t.Errorf("samples = %d, want 3", r.Samples)
	}
}
