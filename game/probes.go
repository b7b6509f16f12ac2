package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mold/components"
	"github.com/pthm-cable/mold/telemetry"
)

// ProbeInfo is a read-only view of one probe.
type ProbeInfo struct {
	Entity  ecs.Entity
	Name    string
	X, Y    float32
	Pinned  bool
	Reading components.ProbeReading
}

// AddProbe places an interactive probe at surface point (x, y).
// Points outside the surface are rejected.
func (g *Game) AddProbe(name string, x, y float32) (ecs.Entity, error) {
	if x < 0 || y < 0 || x >= g.cfg.Derived.SurfaceW32 || y >= g.cfg.Derived.SurfaceH32 {
		return ecs.Entity{}, fmt.Errorf("probe %q at (%g, %g) is outside the surface", name, x, y)
	}
	return g.addProbe(name, x, y, false), nil
}

func (g *Game) addProbe(name string, x, y float32, pinned bool) ecs.Entity {
	probe := components.Probe{Name: name, Pinned: pinned}
	pos := components.Position{X: x, Y: y}
	reading := components.ProbeReading{}
	return g.probeMapper.NewEntity(&probe, &pos, &reading)
}

// RemoveProbe deletes an interactive probe. Pinned probes stay.
func (g *Game) RemoveProbe(e ecs.Entity) bool {
	if !g.world.Alive(e) {
		return false
	}
	probe, _, _ := g.probeMapper.Get(e)
	if probe.Pinned {
		return false
	}
	g.world.RemoveEntity(e)
	return true
}

// ClearProbes removes every interactive probe.
func (g *Game) ClearProbes() int {
	var toRemove []ecs.Entity
	query := g.probeFilter.Query()
	for query.Next() {
		probe, _, _ := query.Get()
		if !probe.Pinned {
			toRemove = append(toRemove, query.Entity())
		}
	}
	// Removal must wait until the query is closed
	for _, e := range toRemove {
		g.world.RemoveEntity(e)
	}
	return len(toRemove)
}

// Probes returns all probes and their latest readings.
func (g *Game) Probes() []ProbeInfo {
	var out []ProbeInfo
	query := g.probeFilter.Query()
	for query.Next() {
		probe, pos, reading := query.Get()
		out = append(out, ProbeInfo{
			Entity:  query.Entity(),
			Name:    probe.Name,
			X:       pos.X,
			Y:       pos.Y,
			Pinned:  probe.Pinned,
			Reading: *reading,
		})
	}
	return out
}

// sampleProbes records the field value under every probe.
func (g *Game) sampleProbes() {
	query := g.probeFilter.Query()
	for query.Next() {
		_, pos, reading := query.Get()
		reading.Record(float32(g.field.Sample(float64(pos.X), float64(pos.Y))))
	}
}

// probeRecords flattens probe readings for CSV output.
func (g *Game) probeRecords() []telemetry.ProbeRecord {
	var out []telemetry.ProbeRecord
	query := g.probeFilter.Query()
	for query.Next() {
		probe, pos, reading := query.Get()
		out = append(out, telemetry.ProbeRecord{
			Tick:  g.tick,
			Name:  probe.Name,
			X:     pos.X,
			Y:     pos.Y,
			Value: reading.Value,
			Mean:  reading.Mean(),
			Peak:  reading.Peak,
		})
	}
	return out
}
