package storage

import (
	"context"
	"errors"

	"flightrec/internal/flight"
)

// ErrSessionNotFound is returned when a session id does not exist, e.g.
// after deletion.
var ErrSessionNotFound = errors.New("session not found")

// Store provides an interface for managing flight recording storage. It
// handles sessions and their sample batches in a thread-safe manner. All
// operations that write to the database should be considered atomic.
type Store interface {
	// CreateSession persists a new session and returns its unique identifier.
	CreateSession(ctx context.Context, s *flight.Session) (sessionID int64, err error)

	// UpdateSession rewrites the session identified by s.ID. Returns
	// ErrSessionNotFound when no such session exists.
	UpdateSession(ctx context.Context, s *flight.Session) error

	// Session retrieves a session by its ID. Returns ErrSessionNotFound when
	// no such session exists.
	Session(ctx context.Context, id int64) (*flight.Session, error)

	// Sessions returns all stored sessions ordered by start time ascending.
	Sessions(ctx context.Context) ([]*flight.Session, error)

	// AppendSamples stores a batch of samples for a session. The whole batch
	// is written in a single transaction: either all samples are stored or
	// none are.
	AppendSamples(ctx context.Context, sessionID int64, samples []flight.Sample) error

	// Samples returns all samples of a session ordered by capture timestamp
	// ascending.
	Samples(ctx context.Context, sessionID int64) ([]flight.Sample, error)

	// DeleteSession removes a session and all of its samples.
	DeleteSession(ctx context.Context, sessionID int64) error

	// Close releases all database connections and resources. It is safe to
	// call Close multiple times.
	Close() error
}
