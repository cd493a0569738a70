package flight

import (
	"sync"

	"flightrec/internal/sensors"
)

const (
	// lockMinReadings is the minimum number of position readings before the
	// gate may report a good fix.
	lockMinReadings = 5

	// lockAccuracyM is the horizontal accuracy the latest reading must beat
	// for the gate to lock.
	lockAccuracyM = 20.0

	// admitAccuracyM is the persistence admission threshold. Candidates at or
	// above it are dropped regardless of gate state.
	admitAccuracyM = 50.0
)

// qualityGate tracks whether the positioning fix is trustworthy. It starts
// acquiring, locks once enough sufficiently accurate readings have been seen
// and then stays locked for the remainder of the session, even if accuracy
// degrades transiently. The lock drives the UI fix indicator only; sample
// persistence is governed by the independent admit predicate.
type qualityGate struct {
	mu       sync.Mutex
	readings int
	locked   bool
}

func (g *qualityGate) observe(p sensors.Position) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.readings++
	if !g.locked && g.readings >= lockMinReadings && p.Accuracy != nil && *p.Accuracy < lockAccuracyM {
		g.locked = true
	}
}

func (g *qualityGate) isLocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.locked
}

func (g *qualityGate) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.readings = 0
	g.locked = false
}

// admit reports whether a candidate sample may be persisted. A candidate is
// rejected when its reported accuracy is at or above admitAccuracyM; a
// candidate without a reported accuracy is admitted. The predicate is pure
// and independent of the gate state.
func admit(c Candidate) bool {
	return c.Accuracy == nil || *c.Accuracy < admitAccuracyM
}
