package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/keylock"

	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) UpdatePosition(
	ctx context.Context,
	id kernel.UUID,
	sample kernel.PositionSample,
	statuses []job.Status,
) error {
	args := m.Called(ctx, id, sample, statuses)
	return args.Error(0)
}

func (m *MockJobRepository) GetAllInStatuses(ctx context.Context, statuses ...job.Status) ([]*job.Job, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.Job), args.Error(1)
}

type MockJobUoW struct{ mock.Mock }

func (m *MockJobUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

type MockJobUoWFactory struct{ mock.Mock }

func (m *MockJobUoWFactory) Create() commands.JobUoW {
	args := m.Called()
	return args.Get(0).(commands.JobUoW)
}

type MockCodeGenerator struct{ mock.Mock }

func (m *MockCodeGenerator) Generate() (job.OneTimeCode, error) {
	args := m.Called()
	return args.Get(0).(job.OneTimeCode), args.Error(1)
}

type MockCodeSender struct{ mock.Mock }

func (m *MockCodeSender) SendCode(ctx context.Context, delivery ports.CodeDelivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

type MockPayoutNotifier struct{ mock.Mock }

func (m *MockPayoutNotifier) NotifyPayoutRequested(ctx context.Context, request ports.PayoutRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

type MockPositionSource struct{ mock.Mock }

func (m *MockPositionSource) Subscribe(
	ctx context.Context,
	jobID kernel.UUID,
	onSample func(kernel.PositionSample),
	onError func(*ports.PositionError),
) (func(), error) {
	args := m.Called(ctx, jobID, onSample, onError)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

func (m *MockPositionSource) CurrentPosition(ctx context.Context, jobID kernel.UUID) (kernel.PositionSample, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(kernel.PositionSample), args.Error(1)
}

// memoryLocker is the in-process try-lock used by the tests.
type memoryLocker struct {
	locks *keylock.KeyedMutex
}

func newMemoryLocker() memoryLocker {
	return memoryLocker{locks: keylock.New()}
}

func (l memoryLocker) TryLock(_ context.Context, jobID kernel.UUID) (func(), error) {
	release, ok := l.locks.TryLock(jobID.String())
	if !ok {
		return nil, ports.ErrJobBusy
	}
	return release, nil
}

// memoryStore keeps snapshots and enforces the version check like the
// database does. beforeGet, when set, runs inside Get.
type memoryStore struct {
	mu        sync.Mutex
	rows      map[string]job.Snapshot
	updates   int
	beforeGet func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]job.Snapshot)}
}

func (s *memoryStore) Create() commands.JobUoW {
	return memoryUoW{store: s}
}

func (s *memoryStore) JobRepository() ports.JobRepository {
	return memoryRepo{store: s}
}

func (s *memoryStore) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

type memoryUoW struct {
	store *memoryStore
}

func (u memoryUoW) Begin(context.Context) error { return nil }
func (u memoryUoW) Commit(context.Context) error { return nil }
func (u memoryUoW) Rollback(context.Context) error { return nil }

func (u memoryUoW) JobRepository() ports.JobRepository {
	return memoryRepo{store: u.store}
}

type memoryRepo struct {
	store *memoryStore
}

func (r memoryRepo) Add(_ context.Context, j *job.Job) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.rows[j.ID().String()] = j.Snapshot()
	return nil
}

func (r memoryRepo) Update(_ context.Context, j *job.Job) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.rows[j.ID().String()]
	if !ok {
		return errs.NewObjectNotFoundError("job", j.ID())
	}
	if stored.Version != j.Version() {
		return ports.ErrConcurrentModification
	}
	j.IncrementVersion()
	r.store.rows[j.ID().String()] = j.Snapshot()
	r.store.updates++
	return nil
}

func (r memoryRepo) Get(_ context.Context, id kernel.UUID) (*job.Job, error) {
	if r.store.beforeGet != nil {
		r.store.beforeGet()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.rows[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("job", id)
	}
	return job.RestoreJob(s)
}

func (r memoryRepo) UpdatePosition(context.Context, kernel.UUID, kernel.PositionSample, []job.Status) error {
	return nil
}

func (r memoryRepo) GetAllInStatuses(context.Context, ...job.Status) ([]*job.Job, error) {
	return nil, nil
}

// sequenceCodes returns the given codes in order.
type sequenceCodes struct {
	mu    sync.Mutex
	codes []string
}

func (g *sequenceCodes) Generate() (job.OneTimeCode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := g.codes[0]
	g.codes = g.codes[1:]
	return job.NewOneTimeCode(next)
}
