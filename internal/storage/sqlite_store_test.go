package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"flightrec/internal/flight"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()

	store := NewSqliteStore(filepath.Join(t.TempDir(), "flight_test.sqlite"))
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return store
}

func ptr(f float64) *float64 {
	return &f
}

func testSamples(n int, start time.Time) []flight.Sample {
	samples := make([]flight.Sample, n)
	for i := range samples {
		samples[i] = flight.Sample{
			Timestamp: start.Add(time.Duration(i) * time.Second),
			Latitude:  -33.8688 + float64(i)*0.0001,
			Longitude: 151.2093,
			Altitude:  ptr(600 + float64(i)),
			Speed:     ptr(15),
			GForce:    ptr(1.02),
			Heading:   ptr(45),
			Pressure:  ptr(942.3),
		}
	}
	return samples
}

func TestSqliteStore_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	session := &flight.Session{
		Name:      flight.DefaultName(start),
		StartTime: start,
	}

	id, err := store.CreateSession(ctx, session)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("Expected positive session ID, got %d", id)
	}
	session.ID = id

	loaded, err := store.Session(ctx, id)
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	if loaded.Name != session.Name {
		t.Errorf("Name = %q, want %q", loaded.Name, session.Name)
	}
	if !loaded.StartTime.Equal(start) {
		t.Errorf("StartTime = %v, want %v", loaded.StartTime, start)
	}
	if loaded.EndTime != nil || loaded.Distance != nil {
		t.Error("Fresh session must not carry end time or derived fields")
	}

	// Finalize with end time and statistics
	end := start.Add(20 * time.Minute)
	notes := "evening circuit"
	session.EndTime = &end
	session.Notes = &notes
	session.DurationSec = ptr(1200)
	session.MaxAltitude = ptr(1450)
	session.Distance = ptr(18432.7)
	session.MaxG = ptr(2.3)
	session.MinG = ptr(-0.4)
	session.MaxSpeed = ptr(31.2)
	session.AvgSpeed = ptr(18.9)

	if err = store.UpdateSession(ctx, session); err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}

	loaded, err = store.Session(ctx, id)
	if err != nil {
		t.Fatalf("Session failed after update: %v", err)
	}
	if loaded.EndTime == nil || !loaded.EndTime.Equal(end) {
		t.Errorf("EndTime = %v, want %v", loaded.EndTime, end)
	}
	if diff := cmp.Diff(session, loaded); diff != "" {
		t.Errorf("Session round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSqliteStore_SamplesOrderedByTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	id, err := store.CreateSession(ctx, &flight.Session{Name: "test", StartTime: start})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	samples := testSamples(12, start)

	// Insert in two batches to mirror the recorder's flush pattern
	if err = store.AppendSamples(ctx, id, samples[:10]); err != nil {
		t.Fatalf("AppendSamples failed: %v", err)
	}
	if err = store.AppendSamples(ctx, id, samples[10:]); err != nil {
		t.Fatalf("AppendSamples failed: %v", err)
	}

	loaded, err := store.Samples(ctx, id)
	if err != nil {
		t.Fatalf("Samples failed: %v", err)
	}
	if len(loaded) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(loaded))
	}
	for i := 1; i < len(loaded); i++ {
		if loaded[i].Timestamp.Before(loaded[i-1].Timestamp) {
			t.Fatalf("Samples out of order at index %d", i)
		}
	}

	if diff := cmp.Diff(samples[0], loaded[0]); diff != "" {
		t.Errorf("Sample round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSqliteStore_AppendEmptyBatch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, &flight.Session{Name: "test", StartTime: time.Now().UTC()})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err = store.AppendSamples(ctx, id, nil); err != nil {
		t.Errorf("Appending an empty batch should be a no-op, got: %v", err)
	}
}

func TestSqliteStore_Sessions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		if _, err := store.CreateSession(ctx, &flight.Session{
			Name:      flight.DefaultName(start),
			StartTime: start,
		}); err != nil {
			t.Fatalf("CreateSession %d failed: %v", i, err)
		}
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].StartTime.Before(sessions[i-1].StartTime) {
			t.Fatalf("Sessions out of order at index %d", i)
		}
	}
}

func TestSqliteStore_DeleteSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	id, err := store.CreateSession(ctx, &flight.Session{Name: "test", StartTime: start})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err = store.AppendSamples(ctx, id, testSamples(5, start)); err != nil {
		t.Fatalf("AppendSamples failed: %v", err)
	}

	if err = store.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	if _, err = store.Session(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Session after delete = %v, want ErrSessionNotFound", err)
	}

	samples, err := store.Samples(ctx, id)
	if err != nil {
		t.Fatalf("Samples failed: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("Expected 0 samples after delete, got %d", len(samples))
	}
}

func TestSqliteStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.Session(ctx, 42); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Session = %v, want ErrSessionNotFound", err)
	}
	if err := store.UpdateSession(ctx, &flight.Session{ID: 42, Name: "ghost"}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("UpdateSession = %v, want ErrSessionNotFound", err)
	}
	if err := store.DeleteSession(ctx, 42); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("DeleteSession = %v, want ErrSessionNotFound", err)
	}
}

func TestSqliteStore_CloseTwice(t *testing.T) {
	store := NewSqliteStore(filepath.Join(t.TempDir(), "flight_test.sqlite"))

	if _, err := store.CreateSession(context.Background(), &flight.Session{
		Name:      "test",
		StartTime: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
}
