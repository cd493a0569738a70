package sensors

import (
	"context"
	"time"
)

// Reading is a single typed measurement pushed by an Adapter. Concrete
// reading types are Position, Acceleration, Heading and Pressure.
type Reading interface {
	At() time.Time
	Sensor() string
}

// Position is a satellite positioning fix. Latitude and longitude are always
// present; the remaining fields are nil until the receiver reports them.
type Position struct {
	Timestamp time.Time
	Latitude  float64  // degrees, [-90, 90]
	Longitude float64  // degrees, [-180, 180]
	Altitude  *float64 // meters above sea level
	Speed     *float64 // ground speed in m/s
	Course    *float64 // ground course in degrees
	Accuracy  *float64 // horizontal accuracy in meters
}

// Acceleration is a three-axis accelerometer reading in m/s².
type Acceleration struct {
	Timestamp time.Time
	X, Y, Z   float64
}

// Heading is a raw magnetometer reading in microtesla. The magnetic heading
// is derived downstream from the X/Y components.
type Heading struct {
	Timestamp        time.Time
	MagX, MagY, MagZ float64
}

// Pressure is a barometric pressure reading in hPa.
type Pressure struct {
	Timestamp time.Time
	HPa       float64
}

func (p Position) At() time.Time     { return p.Timestamp }
func (a Acceleration) At() time.Time { return a.Timestamp }
func (h Heading) At() time.Time      { return h.Timestamp }
func (p Pressure) At() time.Time     { return p.Timestamp }

func (p Position) Sensor() string     { return "position" }
func (a Acceleration) Sensor() string { return "acceleration" }
func (h Heading) Sensor() string      { return "heading" }
func (p Pressure) Sensor() string     { return "pressure" }

// Adapter is a single sensor source. Once started it pushes readings to the
// given channel at its own native rate until the context is cancelled or
// Stop is called. A transient read error must be handled (logged) inside the
// adapter; it never terminates the stream. Stop is idempotent and safe to
// call on an adapter that was never started.
type Adapter interface {
	Start(ctx context.Context, readings chan<- Reading) error
	Stop()
	Sensor() string
}
