package storage

import (
	"database/sql"
	"errors"
	"time"

	"flightrec/internal/flight"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func toSampleRow(sessionID int64, s flight.Sample) *sampleRow {
	return &sampleRow{
		SessionID: sessionID,
		Timestamp: s.Timestamp.UTC(),
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Altitude:  nullFloat(s.Altitude),
		Speed:     nullFloat(s.Speed),
		AccelX:    nullFloat(s.AccelX),
		AccelY:    nullFloat(s.AccelY),
		AccelZ:    nullFloat(s.AccelZ),
		GForce:    nullFloat(s.GForce),
		Heading:   nullFloat(s.Heading),
		Pressure:  nullFloat(s.Pressure),
	}
}

func fromSampleRow(r *sampleRow) flight.Sample {
	return flight.Sample{
		Timestamp: r.Timestamp,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Altitude:  floatPtr(r.Altitude),
		Speed:     floatPtr(r.Speed),
		AccelX:    floatPtr(r.AccelX),
		AccelY:    floatPtr(r.AccelY),
		AccelZ:    floatPtr(r.AccelZ),
		GForce:    floatPtr(r.GForce),
		Heading:   floatPtr(r.Heading),
		Pressure:  floatPtr(r.Pressure),
	}
}

func fromSessionRow(r *sessionRow) *flight.Session {
	s := flight.Session{
		ID:          r.ID,
		Name:        r.Name,
		StartTime:   r.StartTime,
		DurationSec: floatPtr(r.DurationSec),
		MaxAltitude: floatPtr(r.MaxAltitude),
		Distance:    floatPtr(r.Distance),
		MaxG:        floatPtr(r.MaxG),
		MinG:        floatPtr(r.MinG),
		MaxSpeed:    floatPtr(r.MaxSpeed),
		AvgSpeed:    floatPtr(r.AvgSpeed),
	}

	if r.EndTime.Valid {
		t := r.EndTime.Time
		s.EndTime = &t
	}
	if r.Notes.Valid {
		n := r.Notes.String
		s.Notes = &n
	}

	return &s
}
