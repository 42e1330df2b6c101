package tracking_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

const metersPerDegreeLat = kernel.EarthRadiusMeters * math.Pi / 180

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sampleAt returns a fix metersNorth of a fixed origin, captured at.
func sampleAt(t *testing.T, metersNorth float64, at time.Time) kernel.PositionSample {
	t.Helper()
	p, err := kernel.NewPosition(12.9716+metersNorth/metersPerDegreeLat, 77.5946)
	require.NoError(t, err)
	s, err := kernel.NewPositionSample(p, 90, at)
	require.NoError(t, err)
	return s
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type subscription struct {
	onSample func(kernel.PositionSample)
	onError  func(*ports.PositionError)
}

// fakeSource lets tests push samples and errors into subscribed sessions.
type fakeSource struct {
	mu           sync.Mutex
	subs         map[kernel.UUID]subscription
	subscribes   int
	current      kernel.PositionSample
	currentErr   error
	subscribeErr error
}

func newFakeSource() *fakeSource {
	return &fakeSource{subs: make(map[kernel.UUID]subscription)}
}

func (f *fakeSource) Subscribe(
	_ context.Context,
	jobID kernel.UUID,
	onSample func(kernel.PositionSample),
	onError func(*ports.PositionError),
) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.subscribes++
	f.subs[jobID] = subscription{onSample: onSample, onError: onError}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, jobID)
	}, nil
}

func (f *fakeSource) CurrentPosition(context.Context, kernel.UUID) (kernel.PositionSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.currentErr
}

func (f *fakeSource) Emit(jobID kernel.UUID, sample kernel.PositionSample) {
	f.mu.Lock()
	sub, ok := f.subs[jobID]
	f.mu.Unlock()
	if ok {
		sub.onSample(sample)
	}
}

func (f *fakeSource) Fail(jobID kernel.UUID, err *ports.PositionError) {
	f.mu.Lock()
	sub, ok := f.subs[jobID]
	f.mu.Unlock()
	if ok {
		sub.onError(err)
	}
}

func (f *fakeSource) Subscribed(jobID kernel.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.subs[jobID]
	return ok
}

func (f *fakeSource) Subscribes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes
}

// recordingChannel keeps every event sent.
type recordingChannel struct {
	mu     sync.Mutex
	events []ports.ChannelEvent
}

func (c *recordingChannel) Send(_ context.Context, _ kernel.UUID, event ports.ChannelEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *recordingChannel) Named(name string) []ports.ChannelEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ports.ChannelEvent, 0)
	for _, e := range c.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// fakePositions mimics the conditional position write of the job store.
type fakePositions struct {
	mu         sync.Mutex
	statuses   map[kernel.UUID]job.Status
	stored     map[kernel.UUID]kernel.PositionSample
	writes     int
	travelling []*job.Job
}

func newFakePositions() *fakePositions {
	return &fakePositions{
		statuses: make(map[kernel.UUID]job.Status),
		stored:   make(map[kernel.UUID]kernel.PositionSample),
	}
}

func (f *fakePositions) SetStatus(id kernel.UUID, status job.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
}

func (f *fakePositions) UpdatePosition(
	_ context.Context,
	id kernel.UUID,
	sample kernel.PositionSample,
	statuses []job.Status,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !slices.Contains(statuses, f.statuses[id]) {
		return ports.ErrPositionRejected
	}
	if stored, ok := f.stored[id]; ok && sample.CapturedAt().Before(stored.CapturedAt()) {
		return ports.ErrPositionOutdated
	}
	f.stored[id] = sample
	f.writes++
	return nil
}

func (f *fakePositions) GetAllInStatuses(context.Context, ...job.Status) ([]*job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.travelling), nil
}

func (f *fakePositions) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// travellingJob returns a job in JourneyStarted.
func travellingJob(t *testing.T) *job.Job {
	t.Helper()
	j, err := job.NewJob(kernel.NewUUID(), job.Booking{
		WorkerID:    kernel.NewUUID(),
		ScheduledAt: t0,
		PaymentMode: job.PaymentModeOnline,
		BaseAmount:  100,
	}, t0)
	require.NoError(t, err)
	code, err := job.NewOneTimeCode("1234")
	require.NoError(t, err)
	require.NoError(t, j.Accept(t0))
	require.NoError(t, j.StartJourney(code, t0))
	return j
}
