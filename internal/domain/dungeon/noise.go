package dungeon

import (
	"fmt"
	"math"
)

// CreateNoise records a noise event and immediately tries to wake sleeping
// monsters in range. Wake chance falls off with distance and rises with
// intensity; higher-level monsters sleep more soundly.
func CreateNoise(w *World, rng Rand, origin Position, radius, intensity int) {
	w.NoiseEvents = append(w.NoiseEvents, NoiseEvent{
		Pos:       origin,
		Radius:    radius,
		Intensity: intensity,
		Turn:      w.Time,
	})
	propagateNoise(w, rng, origin, radius, intensity)
}

func propagateNoise(w *World, rng Rand, origin Position, radius, intensity int) {
	for _, m := range w.Monsters {
		if !m.Sleeping || !m.Alive() {
			continue
		}
		dx := float64(m.Position.X - origin.X)
		dy := float64(m.Position.Y - origin.Y)
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist > float64(radius) {
			continue
		}
		distanceFactor := 1.0 - dist/math.Max(1, float64(radius))
		if distanceFactor < 0.1 {
			distanceFactor = 0.1
		}
		sleepResistance := float64(m.Level) * 0.05
		if sleepResistance > 0.7 {
			sleepResistance = 0.7
		}
		wakeChance := 0.8 * (float64(intensity) / 10.0) * distanceFactor * (1.0 - sleepResistance)
		if rng.Float64() < wakeChance {
			m.WakeUp()
			if dist <= 2 {
				w.LogEvent(fmt.Sprintf("%s wakes with a start!", m.Name))
			}
		}
	}
}

// DecayNoise prunes events older than the decay window.
func DecayNoise(w *World) {
	kept := w.NoiseEvents[:0]
	for _, n := range w.NoiseEvents {
		if w.Time-n.Turn < NoiseDecayTurns {
			kept = append(kept, n)
		}
	}
	w.NoiseEvents = kept
}
