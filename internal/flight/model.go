package flight

import (
	"time"
)

// Session represents one continuous recording from start to stop. The derived
// fields are computed by the statistics aggregator once the recording ends
// and stay nil until then.
type Session struct {
	ID        int64      // assigned by storage on creation, 0 before
	Name      string     // display name, defaulted from the start timestamp
	StartTime time.Time  // when the recording began
	EndTime   *time.Time // when the recording ended, nil while recording
	Notes     *string    // optional free-text notes

	DurationSec *float64 // end minus start, in seconds
	MaxAltitude *float64 // meters
	Distance    *float64 // total great-circle distance in meters
	MaxG        *float64 // maximum positive G-force
	MinG        *float64 // maximum negative G-force
	MaxSpeed    *float64 // m/s
	AvgSpeed    *float64 // m/s
}

// DefaultName derives a session display name from its start timestamp.
func DefaultName(start time.Time) string {
	return "Flight " + start.Format("2006-01-02 15:04")
}

// Sample is one synthesized, timestamped, geolocated reading. Position is
// mandatory; everything else is nil when the corresponding sensor has not
// reported yet. Samples are immutable once persisted and ordered within a
// session by capture timestamp ascending.
type Sample struct {
	Timestamp time.Time
	Latitude  float64 // degrees, [-90, 90]
	Longitude float64 // degrees, [-180, 180]
	Altitude  *float64
	Speed     *float64 // ground speed in m/s
	AccelX    *float64 // m/s²
	AccelY    *float64
	AccelZ    *float64
	GForce    *float64 // |accel| / standard gravity
	Heading   *float64 // degrees, [0, 360)
	Pressure  *float64 // hPa
}

// Candidate is a synthesized sample together with the reported positioning
// accuracy. The accuracy drives the persistence admission rule and is not
// itself persisted.
type Candidate struct {
	Sample
	Accuracy *float64 // horizontal accuracy in meters
}

// LiveData is the best-effort snapshot pushed to display layers once per
// synthesizer tick. Values mirror the latest cached readings and are never
// persisted.
type LiveData struct {
	Altitude    *float64
	Speed       *float64
	GForce      *float64
	Heading     *float64
	Pressure    *float64
	GPSAccuracy *float64
	HasGoodFix  bool
}
