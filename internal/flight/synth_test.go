package flight

import (
	"math"
	"testing"
	"time"

	"flightrec/internal/sensors"
)

func TestGForce(t *testing.T) {
	testCases := []struct {
		name    string
		accel   *sensors.Acceleration
		want    float64
		absent  bool
		epsilon float64
	}{
		{"standard gravity on Z", &sensors.Acceleration{X: 0, Y: 0, Z: 9.81}, 1.00, false, 0.01},
		{"free fall", &sensors.Acceleration{X: 0, Y: 0, Z: 0}, 0.00, false, 0.001},
		{"two G pull", &sensors.Acceleration{X: 0, Y: 0, Z: 19.62}, 2.00, false, 0.01},
		{"mixed axes", &sensors.Acceleration{X: 3, Y: 4, Z: 0}, 5.0 / 9.81, false, 0.001},
		{"no reading", nil, 0, true, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := gForce(tc.accel)
			if tc.absent {
				if got != nil {
					t.Fatalf("gForce() = %v, want nil for absent acceleration", *got)
				}
				return
			}
			if got == nil {
				t.Fatal("gForce() = nil, want value")
			}
			if math.Abs(*got-tc.want) > tc.epsilon {
				t.Errorf("gForce() = %.4f, want %.4f ±%.3f", *got, tc.want, tc.epsilon)
			}
		})
	}
}

func TestHeadingDeg(t *testing.T) {
	mag := func(x, y float64) *sensors.Heading {
		return &sensors.Heading{MagX: x, MagY: y}
	}
	pos := func(speed, course float64) *sensors.Position {
		return &sensors.Position{Latitude: 1, Longitude: 2, Speed: &speed, Course: &course}
	}

	testCases := []struct {
		name   string
		pos    *sensors.Position
		mag    *sensors.Heading
		want   float64
		absent bool
	}{
		{"course wins while moving", pos(5.0, 271.5), mag(1, 0), 271.5, false},
		{"magnetometer below moving speed", pos(0.5, 90), mag(1, 0), 0, false},
		{"magnetometer at threshold speed", pos(1.0, 90), mag(0, 1), 90, false},
		{"magnetometer east", nil, mag(0, 1), 90, false},
		{"magnetometer south-ish normalized", nil, mag(0, -1), 270, false},
		{"course normalized into range", pos(5.0, 540), nil, 180, false},
		{"no inputs", nil, nil, 0, true},
		{"position without course", &sensors.Position{Latitude: 1, Longitude: 2}, nil, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := headingDeg(tc.pos, tc.mag)
			if tc.absent {
				if got != nil {
					t.Fatalf("headingDeg() = %v, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatal("headingDeg() = nil, want value")
			}
			if math.Abs(*got-tc.want) > 0.01 {
				t.Errorf("headingDeg() = %.2f, want %.2f", *got, tc.want)
			}
			if *got < 0 || *got >= 360 {
				t.Errorf("headingDeg() = %.2f, outside [0, 360)", *got)
			}
		})
	}
}

func TestSynthesize_NoFix(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	acc := &sensors.Acceleration{Timestamp: now, X: 0, Y: 0, Z: 9.81}

	candidate, live := synthesize(now, nil, acc, nil, nil)
	if candidate != nil {
		t.Fatal("Expected no candidate without a position fix")
	}
	if live.Altitude != nil || live.Speed != nil || live.GPSAccuracy != nil {
		t.Error("Live data must not carry position-derived values without a fix")
	}
	if live.GForce == nil {
		t.Error("Live data should still carry the G-force from the accelerometer")
	}
}

func TestSynthesize_Candidate(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	alt, speed, course, accuracy := 1200.0, 42.0, 90.0, 8.0
	pos := &sensors.Position{
		Timestamp: now,
		Latitude:  -33.8688,
		Longitude: 151.2093,
		Altitude:  &alt,
		Speed:     &speed,
		Course:    &course,
		Accuracy:  &accuracy,
	}
	acc := &sensors.Acceleration{Timestamp: now, X: 0, Y: 0, Z: 9.81}
	prs := &sensors.Pressure{Timestamp: now, HPa: 880.5}

	candidate, live := synthesize(now, pos, acc, nil, prs)
	if candidate == nil {
		t.Fatal("Expected a candidate with a position fix")
	}

	if candidate.Latitude != pos.Latitude || candidate.Longitude != pos.Longitude {
		t.Errorf("Candidate position = (%v, %v), want (%v, %v)",
			candidate.Latitude, candidate.Longitude, pos.Latitude, pos.Longitude)
	}
	if candidate.Accuracy == nil || *candidate.Accuracy != accuracy {
		t.Error("Candidate must carry the reported accuracy for admission")
	}
	if candidate.Heading == nil || *candidate.Heading != course {
		t.Error("Heading should come from the GPS course while moving")
	}
	if candidate.Pressure == nil || *candidate.Pressure != 880.5 {
		t.Error("Candidate should carry the barometric pressure")
	}
	if candidate.AccelX == nil || candidate.AccelY == nil || candidate.AccelZ == nil {
		t.Error("Candidate should carry the raw acceleration vector")
	}
	if live.Speed == nil || *live.Speed != speed {
		t.Error("Live data should mirror the position ground speed")
	}
}
