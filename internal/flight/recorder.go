package flight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"flightrec/internal/sensors"
)

const (
	defaultMaxBatchSize  = 10
	defaultTickInterval  = time.Second
	defaultFlushInterval = 5 * time.Second
)

var (
	// ErrPermissionDenied is returned by Start when the location capability
	// is unavailable or not authorized. No session is created.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrAlreadyRecording is returned by Start while a recording is active.
	// The active session is returned alongside; no duplicate is created.
	ErrAlreadyRecording = errors.New("already recording")
)

// Store is the persistence surface the recorder depends on. All calls are
// expected to block on I/O and are the only operations that do.
type Store interface {
	CreateSession(ctx context.Context, s *Session) (sessionID int64, err error)
	UpdateSession(ctx context.Context, s *Session) error
	AppendSamples(ctx context.Context, sessionID int64, samples []Sample) error
	Samples(ctx context.Context, sessionID int64) ([]Sample, error)
	DeleteSession(ctx context.Context, sessionID int64) error
}

// WithLogger sets the logger for the recorder.
func WithLogger(logger *slog.Logger) func(*Recorder) {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithMaxBatchSize sets the maximum number of samples per persistence call.
// Reaching it also triggers an immediate flush.
func WithMaxBatchSize(size int) func(*Recorder) {
	return func(r *Recorder) {
		r.maxBatchSize = size
	}
}

// WithTickInterval sets the synthesizer tick interval.
func WithTickInterval(d time.Duration) func(*Recorder) {
	return func(r *Recorder) {
		r.tickInterval = d
	}
}

// WithFlushInterval sets the periodic flush timer interval.
func WithFlushInterval(d time.Duration) func(*Recorder) {
	return func(r *Recorder) {
		r.flushInterval = d
	}
}

// WithLocationCheck sets the location capability check consulted by Start.
// Without one, location access is assumed to be authorized.
func WithLocationCheck(check func() bool) func(*Recorder) {
	return func(r *Recorder) {
		r.locationOK = check
	}
}

// WithLiveSink registers a consumer for the live-data snapshot pushed once
// per synthesizer tick. The sink is invoked from the recorder's run loop and
// must not block.
func WithLiveSink(sink func(LiveData)) func(*Recorder) {
	return func(r *Recorder) {
		r.liveSink = sink
	}
}

// Recorder owns the recording pipeline for a single session at a time: it
// starts the sensor adapters, synthesizes one unified sample per tick from
// the latest cached readings, gates persistence on positioning quality,
// batches accepted samples into the store and derives the session statistics
// once recording stops.
type Recorder struct {
	store    Store
	adapters []sensors.Adapter
	logger   *slog.Logger

	maxBatchSize  int
	tickInterval  time.Duration
	flushInterval time.Duration

	locationOK func() bool
	liveSink   func(LiveData)

	cache  readingCache
	gate   qualityGate
	buffer SampleBuffer

	mu        sync.Mutex
	recording bool
	session   *Session
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	liveMu sync.Mutex
	live   LiveData
}

// NewRecorder creates a Recorder persisting through store and fed by the
// given sensor adapters.
func NewRecorder(store Store, adapters []sensors.Adapter, options ...func(*Recorder)) *Recorder {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // nil logger

	r := Recorder{
		store:         store,
		adapters:      adapters,
		logger:        logger,
		maxBatchSize:  defaultMaxBatchSize,
		tickInterval:  defaultTickInterval,
		flushInterval: defaultFlushInterval,
	}

	for _, option := range options {
		option(&r)
	}

	return &r
}

// Start creates a new session and begins recording. It returns
// ErrPermissionDenied when the location capability check fails and
// ErrAlreadyRecording (with the active session) when a recording is already
// running. The recording continues until Stop is called or ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return r.session, ErrAlreadyRecording
	}
	if r.locationOK != nil && !r.locationOK() {
		return nil, ErrPermissionDenied
	}

	start := time.Now().UTC()
	session := &Session{
		Name:      DefaultName(start),
		StartTime: start,
	}

	id, err := r.store.CreateSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	session.ID = id

	r.gate.reset()
	r.cache.reset()
	r.buffer.Clear()
	r.setLive(LiveData{})

	runCtx, cancel := context.WithCancel(ctx)
	readings := make(chan sensors.Reading, 64)

	for _, a := range r.adapters {
		// Adapter failures never take the pipeline down; the session simply
		// runs without that sensor.
		if err := a.Start(runCtx, readings); err != nil {
			r.logger.Error(fmt.Sprintf("starting %s adapter: %s", a.Sensor(), err))
		}
	}

	r.wg.Add(2)
	go r.consumeReadings(runCtx, readings)
	go r.run(runCtx, session.ID)

	r.cancel = cancel
	r.session = session
	r.recording = true

	r.logger.Info("recording started", slog.Int64("session", session.ID))
	return session, nil
}

// Stop ends the active recording: it tears down the adapters and timers,
// performs the final flush, persists the end timestamp and the aggregated
// statistics and returns the finalized session. Calling Stop while idle is a
// no-op returning a nil session. Errors from the final flush or statistics
// persistence are surfaced here, since this is the last chance to report a
// data-loss risk.
func (r *Recorder) Stop(ctx context.Context) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil, nil
	}

	r.cancel()
	for _, a := range r.adapters {
		a.Stop()
	}
	r.wg.Wait()

	session := r.session
	r.recording = false
	r.session = nil
	r.cancel = nil

	var errs []error
	if err := r.flush(ctx, session.ID); err != nil {
		errs = append(errs, fmt.Errorf("final flush: %w", err))
	}

	end := time.Now().UTC()
	session.EndTime = &end
	if err := r.store.UpdateSession(ctx, session); err != nil {
		errs = append(errs, fmt.Errorf("closing session: %w", err))
	}

	samples, err := r.store.Samples(ctx, session.ID)
	if err != nil {
		errs = append(errs, fmt.Errorf("loading samples: %w", err))
	} else {
		Aggregate(session, samples).Apply(session)
		if err := r.store.UpdateSession(ctx, session); err != nil {
			errs = append(errs, fmt.Errorf("storing statistics: %w", err))
		}
	}

	r.logger.Info("recording stopped",
		slog.Int64("session", session.ID),
		slog.Int("samples", len(samples)))

	return session, errors.Join(errs...)
}

// Discard deletes a session and its samples, for callers choosing to drop a
// recording (e.g. one shorter than their minimum flight time).
func (r *Recorder) Discard(ctx context.Context, sessionID int64) error {
	return r.store.DeleteSession(ctx, sessionID)
}

// Recording reports whether a session is currently being recorded.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// CurrentSession returns a copy of the active session's metadata, or nil
// while idle.
func (r *Recorder) CurrentSession() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil
	}
	session := *r.session
	return &session
}

// Elapsed returns the time since the active recording started, or zero while
// idle. Together with Live it carries the data callers need for stop-time
// confirmation policies.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return 0
	}
	return time.Since(r.session.StartTime)
}

// Live returns the latest live-data snapshot.
func (r *Recorder) Live() LiveData {
	r.liveMu.Lock()
	defer r.liveMu.Unlock()
	return r.live
}

func (r *Recorder) setLive(live LiveData) {
	r.liveMu.Lock()
	defer r.liveMu.Unlock()
	r.live = live
}

// consumeReadings drains the adapter channel into the reading cache and
// feeds position readings to the quality gate.
func (r *Recorder) consumeReadings(ctx context.Context, readings <-chan sensors.Reading) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case reading := <-readings:
			r.cache.store(reading)
			if p, ok := reading.(sensors.Position); ok {
				r.gate.observe(p)
			}
		}
	}
}

// run drives the synthesizer tick and the periodic flush timer. Both fire in
// the same goroutine, so sample synthesis and flushing are serialized
// against each other.
func (r *Recorder) run(ctx context.Context, sessionID int64) {
	defer r.wg.Done()

	tick := time.NewTicker(r.tickInterval)
	defer tick.Stop()

	flush := time.NewTicker(r.flushInterval)
	defer flush.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-tick.C:
			r.tick(ctx, sessionID, now.UTC())

		case <-flush.C:
			if err := r.flush(ctx, sessionID); err != nil {
				r.logger.Warn("flush failed, samples retained for retry", slog.String("error", err.Error()))
			}
		}
	}
}

// tick synthesizes one sample from the cached readings, pushes the live-data
// snapshot and, when a position is available and admitted, buffers the
// sample. A full buffer triggers an immediate flush.
func (r *Recorder) tick(ctx context.Context, sessionID int64, now time.Time) {
	pos, acc, hdg, prs := r.cache.snapshot()

	candidate, live := synthesize(now, pos, acc, hdg, prs)
	live.HasGoodFix = r.gate.isLocked()

	r.setLive(live)
	if r.liveSink != nil {
		r.liveSink(live)
	}

	if candidate == nil {
		return // no fix yet
	}
	if !admit(*candidate) {
		r.logger.Debug("sample rejected: insufficient accuracy",
			slog.Float64("accuracy", *candidate.Accuracy))
		return
	}

	r.buffer.Append(candidate.Sample)
	if r.buffer.Len() >= r.maxBatchSize {
		if err := r.flush(ctx, sessionID); err != nil {
			r.logger.Warn("flush failed, samples retained for retry", slog.String("error", err.Error()))
		}
	}
}

// flush drains the buffer into the store in batches of at most maxBatchSize
// per call. Samples are discarded from the buffer only after their batch was
// stored; on error the remaining samples stay buffered for the next trigger.
func (r *Recorder) flush(ctx context.Context, sessionID int64) error {
	for {
		batch := r.buffer.Peek(r.maxBatchSize)
		if len(batch) == 0 {
			return nil
		}

		if err := r.store.AppendSamples(ctx, sessionID, batch); err != nil {
			return fmt.Errorf("appending %d samples: %w", len(batch), err)
		}
		r.buffer.Discard(len(batch))
	}
}
