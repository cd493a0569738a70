package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"flightrec/internal/flight"
	"flightrec/internal/sensors/sim"
	"flightrec/internal/storage"
)

const (
	storageDir = "data"

	// highSpeedKmh is the stop-time speed above which an interactive caller
	// would ask for confirmation. This headless binary only logs it.
	highSpeedKmh = 50.0
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, err := createStorage(&config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer store.Close()

	path := sim.FlightPath{
		CenterLat: config.Flight.CenterLatitude,
		CenterLon: config.Flight.CenterLongitude,
		Altitude:  config.Flight.Altitude,
		Radius:    config.Flight.Radius,
		Period:    time.Duration(config.Flight.Period * float64(time.Second)),
	}
	adapters := sim.All(path, config.Flight.Accuracy, sim.WithLogger(logger))

	options := []func(*flight.Recorder){
		flight.WithLogger(logger),
		flight.WithLiveSink(func(live flight.LiveData) {
			logLive(logger, live)
		}),
	}
	if config.Recorder.MaxBatchSize > 0 {
		options = append(options, flight.WithMaxBatchSize(config.Recorder.MaxBatchSize))
	}
	if config.Recorder.FlushInterval > 0 {
		options = append(options, flight.WithFlushInterval(time.Duration(config.Recorder.FlushInterval*float64(time.Second))))
	}

	recorder := flight.NewRecorder(store, adapters, options...)

	if _, err = recorder.Start(ctx); err != nil {
		return fmt.Errorf("starting recording: %w", err)
	}

	<-ctx.Done() // record until interrupted

	// Stop-time confirmations are caller policy. Headless, so the high-speed
	// case is only logged and the short-flight case is applied from config.
	if live := recorder.Live(); live.Speed != nil && *live.Speed*3.6 > highSpeedKmh {
		logger.Warn("stopping while moving", slog.Float64("speedKmh", *live.Speed*3.6))
	}
	elapsed := recorder.Elapsed()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := recorder.Stop(stopCtx)
	if err != nil {
		return fmt.Errorf("stopping recording: %w", err)
	}
	if session == nil {
		return nil
	}

	minFlight := time.Duration(config.Recorder.MinFlightSeconds * float64(time.Second))
	if minFlight <= 0 {
		minFlight = time.Minute
	}
	if config.Recorder.DiscardShortFlights && elapsed < minFlight {
		logger.Info("flight shorter than minimum, discarding",
			slog.Duration("elapsed", elapsed),
			slog.Int64("session", session.ID))
		if err = recorder.Discard(stopCtx, session.ID); err != nil {
			return fmt.Errorf("discarding session: %w", err)
		}
		return nil
	}

	logSummary(logger, session)
	return nil
}

func createStorage(config *StorageConfig) (*storage.SqliteStore, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	var dbPath string
	if config.DataDirectory != "" {
		dbPath = filepath.Join(wd, config.DataDirectory)
	} else {
		dbPath = filepath.Join(wd, storageDir)
	}

	stat, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage directory '%s' does not exist: %w", dbPath, err)
		}
		return nil, fmt.Errorf("checking storage directory '%s': %w", dbPath, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("invalid storage directory '%s'", dbPath)
	}

	dbPath = filepath.Join(dbPath, fmt.Sprintf("flight_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return storage.NewSqliteStore(dbPath), nil
}

func logLive(logger *slog.Logger, live flight.LiveData) {
	attrs := []any{slog.Bool("goodFix", live.HasGoodFix)}
	if live.Altitude != nil {
		attrs = append(attrs, slog.Float64("altitude", *live.Altitude))
	}
	if live.Speed != nil {
		attrs = append(attrs, slog.Float64("speed", *live.Speed))
	}
	if live.GForce != nil {
		attrs = append(attrs, slog.Float64("gForce", *live.GForce))
	}
	if live.Heading != nil {
		attrs = append(attrs, slog.Float64("heading", *live.Heading))
	}
	if live.Pressure != nil {
		attrs = append(attrs, slog.Float64("pressure", *live.Pressure))
	}
	if live.GPSAccuracy != nil {
		attrs = append(attrs, slog.Float64("accuracy", *live.GPSAccuracy))
	}

	logger.Info("live", attrs...)
}

func logSummary(logger *slog.Logger, session *flight.Session) {
	attrs := []any{
		slog.Int64("session", session.ID),
		slog.String("name", session.Name),
	}
	if session.DurationSec != nil {
		attrs = append(attrs, slog.Float64("durationSec", *session.DurationSec))
	}
	if session.Distance != nil {
		attrs = append(attrs, slog.Float64("distanceM", *session.Distance))
	}
	if session.MaxAltitude != nil {
		attrs = append(attrs, slog.Float64("maxAltitude", *session.MaxAltitude))
	}
	if session.MaxG != nil {
		attrs = append(attrs, slog.Float64("maxG", *session.MaxG))
	}
	if session.MinG != nil {
		attrs = append(attrs, slog.Float64("minG", *session.MinG))
	}
	if session.MaxSpeed != nil {
		attrs = append(attrs, slog.Float64("maxSpeed", *session.MaxSpeed))
	}
	if session.AvgSpeed != nil {
		attrs = append(attrs, slog.Float64("avgSpeed", *session.AvgSpeed))
	}

	logger.Info("flight recorded", attrs...)
}
