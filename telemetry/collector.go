package telemetry

// Collector accumulates per-tick field measurements into fixed windows.
type Collector struct {
	windowTicks       int32
	coverageThreshold float64

	windowStartTick int32
	massSum         float64
	samples         int
	startMass       float64 // mass at the previous flush; the field starts empty
	peakMax         float32
}

// NewCollector creates a collector flushing every windowTicks ticks.
// Cells at or above coverageThreshold count as covered.
func NewCollector(windowTicks int, coverageThreshold float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks:       int32(windowTicks),
		coverageThreshold: coverageThreshold,
	}
}

// RecordTick adds one tick's field mass and peak.
func (c *Collector) RecordTick(mass float64, peak float32) {
	c.massSum += mass
	c.samples++
	c.peakMax = max(c.peakMax, peak)
}

// ShouldFlush reports whether the window ending at tick is complete.
func (c *Collector) ShouldFlush(tick int32) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush summarizes the window ending at tick and starts a new one.
// field is the front buffer at window end.
func (c *Collector) Flush(tick int32, mass float64, peak float32, field []float32) WindowStats {
	summary := SummarizeField(field, c.coverageThreshold)
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		Ticks:           c.samples,
		Mass:            mass,
		MassChange:      mass - c.startMass,
		Peak:            float64(peak),
		PeakMax:         float64(max(c.peakMax, peak)),
		Mean:            summary.Mean,
		Std:             summary.Std,
		P10:             summary.P10,
		P50:             summary.P50,
		P90:             summary.P90,
		Coverage:        summary.Coverage,
	}
	if c.samples > 0 {
		stats.MassMean = c.massSum / float64(c.samples)
	}

	c.windowStartTick = tick
	c.massSum = 0
	c.samples = 0
	c.startMass = mass
	c.peakMax = 0
	return stats
}
