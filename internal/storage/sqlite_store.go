package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"flightrec/internal/flight"
)

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new database connection and initializes the
// schema using the Sqlite database
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		// Ensure the schema exists before a read-only connection is opened.
		if _, err := s.getWriteDB(); err != nil {
			s.readDBErr = err
			return
		}

		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateSession(ctx context.Context, session *flight.Session) (sessionID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, session.Name, session.StartTime.UTC())
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

func (s *SqliteStore) UpdateSession(ctx context.Context, session *flight.Session) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, updateSessionSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(
		ctx,
		session.Name,
		nullTime(session.EndTime),
		nullString(session.Notes),
		nullFloat(session.DurationSec),
		nullFloat(session.MaxAltitude),
		nullFloat(session.Distance),
		nullFloat(session.MaxG),
		nullFloat(session.MinG),
		nullFloat(session.MaxSpeed),
		nullFloat(session.AvgSpeed),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SqliteStore) Session(ctx context.Context, id int64) (session *flight.Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var row sessionRow
	err = stmt.QueryRowContext(ctx, id).Scan(
		&row.ID,
		&row.Name,
		&row.StartTime,
		&row.EndTime,
		&row.Notes,
		&row.DurationSec,
		&row.MaxAltitude,
		&row.Distance,
		&row.MaxG,
		&row.MinG,
		&row.MaxSpeed,
		&row.AvgSpeed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrSessionNotFound
		return
	}
	if err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}

	return fromSessionRow(&row), nil
}

func (s *SqliteStore) Sessions(ctx context.Context) (sessions []*flight.Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var row sessionRow
		if err = rows.Scan(
			&row.ID,
			&row.Name,
			&row.StartTime,
			&row.EndTime,
			&row.Notes,
			&row.DurationSec,
			&row.MaxAltitude,
			&row.Distance,
			&row.MaxG,
			&row.MinG,
			&row.MaxSpeed,
			&row.AvgSpeed,
		); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		sessions = append(sessions, fromSessionRow(&row))
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating sessions: %w", err)
	}
	return
}

func (s *SqliteStore) AppendSamples(ctx context.Context, sessionID int64, samples []flight.Sample) (err error) {
	if len(samples) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	values := make([]interface{}, 0, len(samples)*12)
	valuesPlaceholder := "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	var sb strings.Builder
	sb.WriteString(insertSamplesSQL)

	for i, sample := range samples {
		row := toSampleRow(sessionID, sample)
		values = append(values,
			row.SessionID,
			row.Timestamp,
			row.Latitude,
			row.Longitude,
			row.Altitude,
			row.Speed,
			row.AccelX,
			row.AccelY,
			row.AccelZ,
			row.GForce,
			row.Heading,
			row.Pressure,
		)

		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(valuesPlaceholder)
	}

	// Single batch insert
	if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
		return fmt.Errorf("batch inserting samples: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *SqliteStore) Samples(ctx context.Context, sessionID int64) (samples []flight.Sample, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSamplesSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying samples: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var row sampleRow
		if err = rows.Scan(
			&row.Timestamp,
			&row.Latitude,
			&row.Longitude,
			&row.Altitude,
			&row.Speed,
			&row.AccelX,
			&row.AccelY,
			&row.AccelZ,
			&row.GForce,
			&row.Heading,
			&row.Pressure,
		); err != nil {
			err = fmt.Errorf("scanning sample: %w", err)
			return
		}
		samples = append(samples, fromSampleRow(&row))
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating samples: %w", err)
	}
	return
}

func (s *SqliteStore) DeleteSession(ctx context.Context, sessionID int64) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	if _, err = tx.ExecContext(ctx, deleteSamplesSQL, sessionID); err != nil {
		return fmt.Errorf("deleting samples: %w", err)
	}

	result, err := tx.ExecContext(ctx, deleteSessionSQL, sessionID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Close closes the database connections
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
