package flight

import (
	"math"
	"time"

	"flightrec/internal/sensors"
)

const (
	// standardGravity in m/s², used to normalize acceleration into G-force.
	standardGravity = 9.81

	// movingSpeedMS is the ground speed above which the GPS-reported course
	// is directionally meaningful and preferred over the magnetometer.
	movingSpeedMS = 1.0
)

// synthesize builds one candidate sample and the matching live-data snapshot
// from the latest cached readings. When no position has ever been received
// the candidate is nil and the live data carries only the sensor values that
// do not depend on a fix.
func synthesize(now time.Time, pos *sensors.Position, acc *sensors.Acceleration, hdg *sensors.Heading, prs *sensors.Pressure) (*Candidate, LiveData) {
	g := gForce(acc)
	heading := headingDeg(pos, hdg)

	var pressure *float64
	if prs != nil {
		pressure = &prs.HPa
	}

	live := LiveData{
		GForce:   g,
		Heading:  heading,
		Pressure: pressure,
	}
	if pos == nil {
		return nil, live
	}

	live.Altitude = pos.Altitude
	live.Speed = pos.Speed
	live.GPSAccuracy = pos.Accuracy

	c := Candidate{
		Sample: Sample{
			Timestamp: now,
			Latitude:  pos.Latitude,
			Longitude: pos.Longitude,
			Altitude:  pos.Altitude,
			Speed:     pos.Speed,
			GForce:    g,
			Heading:   heading,
			Pressure:  pressure,
		},
		Accuracy: pos.Accuracy,
	}
	if acc != nil {
		c.AccelX = &acc.X
		c.AccelY = &acc.Y
		c.AccelZ = &acc.Z
	}

	return &c, live
}

// gForce returns the Euclidean magnitude of the acceleration vector
// normalized by standard gravity, or nil when no acceleration has been
// reported. Absent input stays absent; zero is a valid reading.
func gForce(a *sensors.Acceleration) *float64 {
	if a == nil {
		return nil
	}
	g := math.Sqrt(a.X*a.X+a.Y*a.Y+a.Z*a.Z) / standardGravity
	return &g
}

// headingDeg derives the heading in degrees [0, 360). The GPS-reported
// course wins while moving faster than movingSpeedMS; otherwise the heading
// falls back to the magnetometer vector.
func headingDeg(pos *sensors.Position, mag *sensors.Heading) *float64 {
	if pos != nil && pos.Course != nil && pos.Speed != nil && *pos.Speed > movingSpeedMS {
		deg := math.Mod(math.Mod(*pos.Course, 360)+360, 360)
		return &deg
	}
	if mag == nil {
		return nil
	}

	deg := math.Atan2(mag.MagY, mag.MagX) * 180 / math.Pi
	deg = math.Mod(deg+360, 360)
	return &deg
}
