// Package components defines ECS components for probes on the trail surface.
package components

// Position represents a point on the surface in cell units.
type Position struct {
	X, Y float32
}

// Probe marks an entity as a named field sampling point.
type Probe struct {
	Name string
	// Pinned probes come from config; others were placed interactively.
	Pinned bool
}

// ProbeReading holds the latest and running values sampled at a probe.
type ProbeReading struct {
	Value   float32 // bilinear field value this tick
	Peak    float32 // largest value since the probe was placed
	Sum     float64 // running sum for Mean
	Samples int32
}

// Mean returns the average of all samples, or 0 before the first one.
func (r *ProbeReading) Mean() float32 {
	if r.Samples == 0 {
		return 0
	}
	return float32(r.Sum / float64(r.Samples))
}

// Record adds a new sample.
func (r *ProbeReading) Record(v float32) {
	r.Value = v
	r.Peak = max(r.Peak, v)
	r.Sum += float64(v)
	r.Samples++
}
