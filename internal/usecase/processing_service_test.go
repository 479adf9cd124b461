package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"distributed-imaging/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNodeRepo struct {
	available []domain.Node
	listErr   error
	statuses  []domain.NodeStatus
}

func (s *stubNodeRepo) ListAvailable(ctx context.Context, cutoff time.Time) ([]domain.Node, error) {
	return s.available, s.listErr
}

func (s *stubNodeRepo) ListAll(ctx context.Context) ([]domain.NodeStatus, error) {
	return s.statuses, nil
}

func (s *stubNodeRepo) DeactivateStale(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (s *stubNodeRepo) UpsertHeartbeat(ctx context.Context, name, host string, port int) error {
	return nil
}

type stubJobRepo struct {
	mu        sync.Mutex
	nextID    int
	created   []domain.NewJob
	byBatch   map[string][]*domain.Job
	byUUID    map[string]*domain.Job
	createErr error
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{
		byBatch: make(map[string][]*domain.Job),
		byUUID:  make(map[string]*domain.Job),
	}
}

func (s *stubJobRepo) Create(ctx context.Context, job domain.NewJob) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	s.nextID++
	s.created = append(s.created, job)
	id := fmt.Sprintf("job-%d", s.nextID)
	s.byUUID[id] = &domain.Job{UUID: id, ImageName: job.ImageName, BatchID: job.BatchID, State: domain.JobStatePending}
	return id, nil
}

func (s *stubJobRepo) GetByUUID(ctx context.Context, uuid string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.byUUID[uuid]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return job, nil
}

func (s *stubJobRepo) ListByBatch(ctx context.Context, batchID string) ([]*domain.Job, error) {
	return s.byBatch[batchID], nil
}

func (s *stubJobRepo) MarkFailed(ctx context.Context, uuid, message string) error { return nil }

func (s *stubJobRepo) MarkProcessing(ctx context.Context, uuid string) error { return nil }

func (s *stubJobRepo) Complete(ctx context.Context, uuid, resultPath string) error { return nil }

type firstSelector struct{}

func (firstSelector) Select(nodes []domain.Node) (domain.Node, error) {
	if len(nodes) == 0 {
		return domain.Node{}, domain.ErrNoNodesAvailable
	}
	return nodes[0], nil
}

type recordingDispatcher struct {
	mu       sync.Mutex
	requests []domain.DispatchRequest
	nodes    []domain.Node
}

func (d *recordingDispatcher) Dispatch(node domain.Node, req domain.DispatchRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nodes = append(d.nodes, node)
	d.requests = append(d.requests, req)
}

type stubPackager struct {
	singlePath string
	singleName string
	batchPath  string
	err        error
}

func (p *stubPackager) PackageSingle(job *domain.Job) (string, string, error) {
	return p.singlePath, p.singleName, p.err
}

func (p *stubPackager) PackageBatch(batchID string, jobs []*domain.Job) (string, error) {
	return p.batchPath, p.err
}

type stubSweeper struct {
	count int64
	err   error
}

func (s *stubSweeper) RunOnce(ctx context.Context) (int64, error) { return s.count, s.err }

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type serviceFixture struct {
	svc        *ProcessingService
	nodes      *stubNodeRepo
	jobs       *stubJobRepo
	dispatcher *recordingDispatcher
	packager   *stubPackager
	uploadDir  string
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		nodes: &stubNodeRepo{available: []domain.Node{
			{ID: 1, Name: "node-a", Host: "127.0.0.1", Port: 50051, State: domain.NodeStateActive},
		}},
		jobs:       newStubJobRepo(),
		dispatcher: &recordingDispatcher{},
		packager:   &stubPackager{},
		uploadDir:  t.TempDir(),
	}
	f.svc = NewProcessingService(
		f.nodes, f.jobs, firstSelector{}, f.dispatcher, f.packager, &stubSweeper{count: 3},
		f.uploadDir, 2*time.Minute, quietLogger(),
	)
	return f
}

func TestSubmitImage(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.SubmitImage(context.Background(), ImageUpload{
		Filename:        "cat.png",
		Data:            []byte("png bytes"),
		Transformations: []string{"Grayscale", "not-a-thing", "RESIZE"},
		Parameters:      []domain.TransformParameter{{Name: "width", Value: "640"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "node-a", result.Node)
	assert.True(t, strings.HasSuffix(result.ImageName, "_cat.png"))
	// Unknown names are dropped, known ones normalized, order preserved.
	assert.Equal(t, []string{"grayscale", "resize"}, result.Transformations)

	stored, err := os.ReadFile(filepath.Join(f.uploadDir, result.ImageName))
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), stored)

	require.Len(t, f.dispatcher.requests, 1)
	assert.Equal(t, result.JobID, f.dispatcher.requests[0].JobUUID)
	assert.Equal(t, []byte("png bytes"), f.dispatcher.requests[0].Payload)
	assert.Equal(t, "node-a", f.dispatcher.nodes[0].Name)
}

func TestSubmitImageDisallowedType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitImage(context.Background(), ImageUpload{Filename: "malware.exe"})
	assert.ErrorIs(t, err, domain.ErrInvalidFileType)
	assert.Empty(t, f.dispatcher.requests)
}

func TestSubmitImageNoNodes(t *testing.T) {
	f := newFixture(t)
	f.nodes.available = nil

	_, err := f.svc.SubmitImage(context.Background(), ImageUpload{Filename: "cat.png", Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrNoNodesAvailable)
}

func TestSubmitImageRegistryErrorDegradesToNoNodes(t *testing.T) {
	f := newFixture(t)
	f.nodes.listErr = errors.New("store down")

	_, err := f.svc.SubmitImage(context.Background(), ImageUpload{Filename: "cat.png", Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrNoNodesAvailable)
}

func TestSubmitBatch(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.SubmitBatch(context.Background(),
		[]UploadedFile{
			{Filename: "a.png", Data: []byte("a")},
			{Filename: "notes.txt", Data: []byte("b")},
			{Filename: "c.jpg", Data: []byte("c")},
		},
		[]JobConfig{
			{Transformations: []string{"grayscale"}},
			{Transformations: []string{"blur"}},
			{Transformations: []string{"rotate"}},
		},
	)
	require.NoError(t, err)

	assert.NotEmpty(t, result.BatchID)
	assert.Len(t, result.Jobs, 2)
	assert.Equal(t, []string{"notes.txt"}, result.Skipped)

	// Every accepted job carries the shared batch id.
	for _, created := range f.jobs.created {
		assert.Equal(t, result.BatchID, created.BatchID)
	}
	assert.Len(t, f.dispatcher.requests, 2)
}

func TestSubmitBatchConfigMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitBatch(context.Background(),
		[]UploadedFile{{Filename: "a.png"}, {Filename: "b.png"}},
		[]JobConfig{{Transformations: []string{"grayscale"}}},
	)
	assert.ErrorIs(t, err, domain.ErrConfigMismatch)
}

func TestSubmitBatchAllSkipped(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitBatch(context.Background(),
		[]UploadedFile{{Filename: "a.txt"}},
		[]JobConfig{{Transformations: []string{"grayscale"}}},
	)
	assert.ErrorIs(t, err, domain.ErrInvalidFileType)
}

func TestSubmitBatchNoCapacity(t *testing.T) {
	f := newFixture(t)
	f.nodes.available = nil

	_, err := f.svc.SubmitBatch(context.Background(),
		[]UploadedFile{{Filename: "a.png", Data: []byte("a")}},
		[]JobConfig{{Transformations: []string{"grayscale"}}},
	)
	assert.ErrorIs(t, err, domain.ErrNoNodesAvailable)
}

func TestSubmitBatchLedgerFailureSkipsMember(t *testing.T) {
	f := newFixture(t)
	f.jobs.createErr = errors.New("ledger down")

	_, err := f.svc.SubmitBatch(context.Background(),
		[]UploadedFile{{Filename: "a.png", Data: []byte("a")}},
		[]JobConfig{{Transformations: []string{"grayscale"}}},
	)
	// Every member was skipped, so the last failure surfaces.
	assert.ErrorContains(t, err, "ledger down")
}

func TestBatchStatus(t *testing.T) {
	f := newFixture(t)
	f.jobs.byBatch["batch-1"] = []*domain.Job{
		{UUID: "j1", State: domain.JobStateCompleted},
		{UUID: "j2", State: domain.JobStatePending},
	}

	status, err := f.svc.BatchStatus(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchStateProcessing, status.State)
	assert.Len(t, status.Jobs, 2)
}

func TestBatchStatusUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.BatchStatus(context.Background(), "no-such-batch")
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestSweepNow(t *testing.T) {
	f := newFixture(t)

	count, err := f.svc.SweepNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestDownloadBatchUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DownloadBatch(context.Background(), "no-such-batch")
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestDownloadResult(t *testing.T) {
	f := newFixture(t)
	f.jobs.byUUID["j1"] = &domain.Job{UUID: "j1", State: domain.JobStateCompleted}
	f.packager.singlePath = "/share/node-a/cat.png"
	f.packager.singleName = "cat_processed.png"

	path, name, err := f.svc.DownloadResult(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, "/share/node-a/cat.png", path)
	assert.Equal(t, "cat_processed.png", name)
}
