// Package sim provides deterministic simulated sensor adapters for running
// the recorder without hardware and for exercising the pipeline in tests.
package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"flightrec/internal/sensors"
)

// FlightPath describes a deterministic figure-eight track around a center
// point. The zero value is usable: defaults are applied on first read.
type FlightPath struct {
	CenterLat float64 // degrees
	CenterLon float64 // degrees
	Altitude  float64 // meters, midpoint of the vertical profile
	Radius    float64 // meters, horizontal extent
	Period    time.Duration
}

const (
	defaultAltitude  = 900.0 // meters
	defaultRadius    = 800.0 // meters
	defaultPeriod    = 2 * time.Minute
	metersPerLatDeg  = 111195.0
	verticalAmplitude = 120.0 // meters
)

// At returns the simulated kinematic state at the given instant: position,
// barometric-style altitude, ground speed (m/s) and course (degrees).
func (p FlightPath) At(now time.Time) (lat, lon, alt, speed, course float64) {
	period := p.Period
	if period <= 0 {
		period = defaultPeriod
	}
	radius := p.Radius
	if radius <= 0 {
		radius = defaultRadius
	}
	baseAlt := p.Altitude
	if baseAlt == 0 {
		baseAlt = defaultAltitude
	}

	phase := float64(now.UnixNano()%period.Nanoseconds()) / float64(period.Nanoseconds())
	w := 2 * math.Pi * phase

	// Lissajous figure-eight: x covers the full radius, y half of it.
	x := math.Cos(w)
	y := 0.5 * math.Sin(2*w)

	radiusDeg := radius / metersPerLatDeg
	lat = p.CenterLat + radiusDeg*y
	lon = p.CenterLon + (radiusDeg*x)/math.Cos(p.CenterLat*math.Pi/180)

	alt = baseAlt + verticalAmplitude*math.Sin(w/2)

	// Instantaneous velocity of the parametric path, scaled to meters.
	scale := radius * 2 * math.Pi / period.Seconds()
	vx := -math.Sin(w) * scale
	vy := math.Cos(2*w) * scale
	speed = math.Hypot(vx, vy)

	course = math.Mod(math.Atan2(vx, vy)*180/math.Pi+360, 360)
	return lat, lon, alt, speed, course
}

// WithLogger sets the logger for a simulated adapter.
func WithLogger(logger *slog.Logger) func(*Adapter) {
	return func(a *Adapter) {
		a.logger = logger.With(slog.String("sensor", a.sensor))
	}
}

// Adapter is a simulated sensor source emitting readings on a fixed interval.
// It satisfies sensors.Adapter.
type Adapter struct {
	sensor   string
	interval time.Duration
	read     func(now time.Time) sensors.Reading

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	logger *slog.Logger
}

func newAdapter(sensor string, interval time.Duration, read func(time.Time) sensors.Reading, options ...func(*Adapter)) *Adapter {
	a := Adapter{
		sensor:   sensor,
		interval: interval,
		read:     read,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&a)
	}

	return &a
}

// Sensor returns the sensor name.
func (a *Adapter) Sensor() string { return a.sensor }

// Start begins emitting readings until the context is cancelled or Stop is
// called. Starting an already running adapter is an error.
func (a *Adapter) Start(ctx context.Context, readings chan<- sensors.Reading) error {
	if a.running.Load() {
		return fmt.Errorf("%s adapter is already running", a.sensor)
	}
	a.running.Store(true)

	ctx, a.cancel = context.WithCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()

		a.logger.Debug("adapter started")
		for {
			select {
			case <-ctx.Done():
				a.logger.Debug("adapter stopped")
				return

			case now := <-ticker.C:
				select {
				case readings <- a.read(now.UTC()):
				case <-ctx.Done():
					a.logger.Debug("adapter stopped")
					return
				}
			}
		}
	}()

	return nil
}

// Stop halts the adapter and waits for its goroutine to exit. It is safe to
// call multiple times and on an adapter that was never started.
func (a *Adapter) Stop() {
	if !a.running.Load() {
		return // already stopped
	}

	a.cancel()
	a.wg.Wait()
	a.running.Store(false)
}

// NewPosition returns a simulated positioning receiver following the path.
// The reported horizontal accuracy is fixed to accuracyM.
func NewPosition(path FlightPath, interval time.Duration, accuracyM float64, options ...func(*Adapter)) *Adapter {
	return newAdapter("position", interval, func(now time.Time) sensors.Reading {
		lat, lon, alt, speed, course := path.At(now)
		acc := accuracyM
		return sensors.Position{
			Timestamp: now,
			Latitude:  lat,
			Longitude: lon,
			Altitude:  &alt,
			Speed:     &speed,
			Course:    &course,
			Accuracy:  &acc,
		}
	}, options...)
}

// NewAccelerometer returns a simulated accelerometer. At rest the sensor
// reports standard gravity on the Z axis with small periodic banking loads.
func NewAccelerometer(path FlightPath, interval time.Duration, options ...func(*Adapter)) *Adapter {
	return newAdapter("acceleration", interval, func(now time.Time) sensors.Reading {
		w := 2 * math.Pi * float64(now.UnixNano()%int64(10*time.Second)) / float64(10*time.Second)
		return sensors.Acceleration{
			Timestamp: now,
			X:         0.4 * math.Sin(w),
			Y:         0.4 * math.Cos(w),
			Z:         9.81 + 1.2*math.Sin(w/3),
		}
	}, options...)
}

// NewMagnetometer returns a simulated magnetometer whose field vector tracks
// the path's instantaneous course.
func NewMagnetometer(path FlightPath, interval time.Duration, options ...func(*Adapter)) *Adapter {
	return newAdapter("heading", interval, func(now time.Time) sensors.Reading {
		_, _, _, _, course := path.At(now)
		rad := course * math.Pi / 180
		return sensors.Heading{
			Timestamp: now,
			MagX:      48.0 * math.Cos(rad), // ~Earth field magnitude in µT
			MagY:      48.0 * math.Sin(rad),
			MagZ:      -12.0,
		}
	}, options...)
}

// NewBarometer returns a simulated barometer. Pressure is derived from the
// path altitude using the standard atmosphere approximation.
func NewBarometer(path FlightPath, interval time.Duration, options ...func(*Adapter)) *Adapter {
	return newAdapter("pressure", interval, func(now time.Time) sensors.Reading {
		_, _, alt, _, _ := path.At(now)
		hPa := 1013.25 * math.Pow(1-alt/44330.0, 5.255)
		return sensors.Pressure{
			Timestamp: now,
			HPa:       hPa,
		}
	}, options...)
}

// All returns one adapter per simulated sensor at their nominal rates:
// position 1 Hz, accelerometer 50 Hz, magnetometer 10 Hz, barometer 1 Hz.
func All(path FlightPath, accuracyM float64, options ...func(*Adapter)) []sensors.Adapter {
	return []sensors.Adapter{
		NewPosition(path, time.Second, accuracyM, options...),
		NewAccelerometer(path, 20*time.Millisecond, options...),
		NewMagnetometer(path, 100*time.Millisecond, options...),
		NewBarometer(path, time.Second, options...),
	}
}
