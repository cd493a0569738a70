package flight

import (
	"math"
)

// earthRadiusM is the mean Earth radius used for great-circle distances.
const earthRadiusM = 6371000.0

// Stats holds the derived summary of a finished session. Optional fields are
// nil when no sample carried the corresponding value.
type Stats struct {
	DurationSec *float64
	MaxAltitude *float64
	Distance    float64 // always defined; 0 for fewer than two samples
	MaxG        *float64
	MinG        *float64
	MaxSpeed    *float64
	AvgSpeed    *float64
}

// Aggregate computes the summary statistics for a session over its full,
// time-ordered sample set. It is a pure, deterministic function of its
// inputs: the same session and samples always produce identical stats.
func Aggregate(s *Session, samples []Sample) Stats {
	var st Stats

	if s.EndTime != nil {
		d := s.EndTime.Sub(s.StartTime).Seconds()
		st.DurationSec = &d
	}

	var speedSum float64
	var speedCount int

	for i, sample := range samples {
		if i > 0 {
			prev := samples[i-1]
			st.Distance += Haversine(prev.Latitude, prev.Longitude, sample.Latitude, sample.Longitude)
		}

		st.MaxAltitude = maxOpt(st.MaxAltitude, sample.Altitude)
		st.MaxG = maxOpt(st.MaxG, sample.GForce)
		st.MinG = minOpt(st.MinG, sample.GForce)
		st.MaxSpeed = maxOpt(st.MaxSpeed, sample.Speed)

		if sample.Speed != nil {
			speedSum += *sample.Speed
			speedCount++
		}
	}

	if speedCount > 0 {
		avg := speedSum / float64(speedCount)
		st.AvgSpeed = &avg
	}

	return st
}

// Apply writes the stats into the session's derived fields.
func (st Stats) Apply(s *Session) {
	s.DurationSec = st.DurationSec
	s.MaxAltitude = st.MaxAltitude
	d := st.Distance
	s.Distance = &d
	s.MaxG = st.MaxG
	s.MinG = st.MinG
	s.MaxSpeed = st.MaxSpeed
	s.AvgSpeed = st.AvgSpeed
}

// Haversine returns the great-circle distance in meters between two
// latitude/longitude points given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}

func maxOpt(current, v *float64) *float64 {
	if v == nil {
		return current
	}
	if current == nil || *v > *current {
		value := *v
		return &value
	}
	return current
}

func minOpt(current, v *float64) *float64 {
	if v == nil {
		return current
	}
	if current == nil || *v < *current {
		value := *v
		return &value
	}
	return current
}
