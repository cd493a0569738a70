package storage

import (
	"database/sql"
	"time"
)

type sessionRow struct {
	ID          int64
	Name        string
	StartTime   time.Time
	EndTime     sql.NullTime
	Notes       sql.NullString
	DurationSec sql.NullFloat64
	MaxAltitude sql.NullFloat64
	Distance    sql.NullFloat64
	MaxG        sql.NullFloat64
	MinG        sql.NullFloat64
	MaxSpeed    sql.NullFloat64
	AvgSpeed    sql.NullFloat64
}

type sampleRow struct {
	SessionID int64
	Timestamp time.Time
	Latitude  float64
	Longitude float64
	Altitude  sql.NullFloat64
	Speed     sql.NullFloat64
	AccelX    sql.NullFloat64
	AccelY    sql.NullFloat64
	AccelZ    sql.NullFloat64
	GForce    sql.NullFloat64
	Heading   sql.NullFloat64
	Pressure  sql.NullFloat64
}
