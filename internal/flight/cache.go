package flight

import (
	"sync"

	"flightrec/internal/sensors"
)

// readingCache holds the most recent reading received from each sensor
// adapter. Each slot is nil until its first reading arrives and is
// overwritten in place on every subsequent one. Adapter goroutines write
// while the synthesizer tick reads, so access is mutex-guarded.
type readingCache struct {
	mu       sync.Mutex
	position *sensors.Position
	accel    *sensors.Acceleration
	heading  *sensors.Heading
	pressure *sensors.Pressure
}

func (c *readingCache) store(r sensors.Reading) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch v := r.(type) {
	case sensors.Position:
		c.position = &v
	case sensors.Acceleration:
		c.accel = &v
	case sensors.Heading:
		c.heading = &v
	case sensors.Pressure:
		c.pressure = &v
	}
}

// snapshot returns the current slot pointers. Readings are immutable values,
// so handing out the pointers is safe.
func (c *readingCache) snapshot() (*sensors.Position, *sensors.Acceleration, *sensors.Heading, *sensors.Pressure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position, c.accel, c.heading, c.pressure
}

func (c *readingCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = nil
	c.accel = nil
	c.heading = nil
	c.pressure = nil
}
