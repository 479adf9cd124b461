package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"distributed-imaging/internal/domain"
	pb "distributed-imaging/proto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

type fakeNodeClient struct {
	resp    *pb.ProcessImageResponse
	err     error
	lastReq *pb.ProcessImageRequest
}

func (f *fakeNodeClient) ProcessImage(ctx context.Context, in *pb.ProcessImageRequest, opts ...grpc.CallOption) (*pb.ProcessImageResponse, error) {
	f.lastReq = in
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type recordingJobRepo struct {
	mu       sync.Mutex
	failures map[string]string
}

func newRecordingJobRepo() *recordingJobRepo {
	return &recordingJobRepo{failures: make(map[string]string)}
}

func (r *recordingJobRepo) Create(ctx context.Context, job domain.NewJob) (string, error) {
	return "", errors.New("not implemented")
}

func (r *recordingJobRepo) GetByUUID(ctx context.Context, uuid string) (*domain.Job, error) {
	return nil, domain.ErrJobNotFound
}

func (r *recordingJobRepo) ListByBatch(ctx context.Context, batchID string) ([]*domain.Job, error) {
	return nil, nil
}

func (r *recordingJobRepo) MarkFailed(ctx context.Context, uuid, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[uuid] = message
	return nil
}

func (r *recordingJobRepo) MarkProcessing(ctx context.Context, uuid string) error { return nil }

func (r *recordingJobRepo) Complete(ctx context.Context, uuid, resultPath string) error { return nil }

func (r *recordingJobRepo) failureMessage(uuid string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.failures[uuid]
	return msg, ok
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestDispatcher(repo domain.JobRepository, client pb.ImageNodeClient) *Dispatcher {
	d := NewDispatcher(repo, time.Second, discardLogger())
	d.newClient = func(addr string) (pb.ImageNodeClient, error) { return client, nil }
	return d
}

func TestDispatchOnceBuildsRequest(t *testing.T) {
	client := &fakeNodeClient{resp: &pb.ProcessImageResponse{Success: true, Message: "queued"}}
	repo := newRecordingJobRepo()
	d := newTestDispatcher(repo, client)

	node := domain.Node{ID: 1, Name: "node-a", Host: "127.0.0.1", Port: 50051}
	err := d.dispatchOnce(context.Background(), node, domain.DispatchRequest{
		JobUUID:         "job-1",
		ImageName:       "1724380000_cat.png",
		Payload:         []byte{0x89, 0x50},
		Transformations: []string{"grayscale", "resize"},
		Parameters:      []domain.TransformParameter{{Name: "width", Value: "640"}},
	})
	require.NoError(t, err)

	require.NotNil(t, client.lastReq)
	assert.Equal(t, "job-1", client.lastReq.GetJobId())
	assert.Equal(t, "1724380000_cat.png", client.lastReq.GetImageName())
	assert.Equal(t, "png", client.lastReq.GetImageFormat())
	assert.Equal(t, []byte{0x89, 0x50}, client.lastReq.GetImageData())
	assert.Equal(t, []string{"grayscale", "resize"}, client.lastReq.GetTransformations())
	require.Len(t, client.lastReq.GetParameters(), 1)
	assert.Equal(t, "width", client.lastReq.GetParameters()[0].GetName())
	assert.Contains(t, client.lastReq.GetMetadata(), "transformations")

	_, failed := repo.failureMessage("job-1")
	assert.False(t, failed)
}

func TestDispatchOnceCallError(t *testing.T) {
	client := &fakeNodeClient{err: errors.New("connection refused")}
	d := newTestDispatcher(newRecordingJobRepo(), client)

	node := domain.Node{Name: "node-a", Host: "127.0.0.1", Port: 50051}
	err := d.dispatchOnce(context.Background(), node, domain.DispatchRequest{JobUUID: "job-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "node-a")
}

func TestDispatchOnceNodeRejection(t *testing.T) {
	client := &fakeNodeClient{resp: &pb.ProcessImageResponse{Success: false, Message: "disk full"}}
	d := newTestDispatcher(newRecordingJobRepo(), client)

	node := domain.Node{Name: "node-a", Host: "127.0.0.1", Port: 50051}
	err := d.dispatchOnce(context.Background(), node, domain.DispatchRequest{JobUUID: "job-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestDispatchRecordsFailureInLedger(t *testing.T) {
	client := &fakeNodeClient{err: errors.New("connection refused")}
	repo := newRecordingJobRepo()
	d := newTestDispatcher(repo, client)

	node := domain.Node{Name: "node-a", Host: "127.0.0.1", Port: 50051}
	d.Dispatch(node, domain.DispatchRequest{JobUUID: "job-1", ImageName: "cat.png"})

	require.Eventually(t, func() bool {
		_, ok := repo.failureMessage("job-1")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	msg, _ := repo.failureMessage("job-1")
	assert.Contains(t, msg, "node-a")
	assert.Contains(t, msg, "connection refused")
}

func TestDispatcherReusesClients(t *testing.T) {
	var dials int
	d := NewDispatcher(newRecordingJobRepo(), time.Second, discardLogger())
	d.newClient = func(addr string) (pb.ImageNodeClient, error) {
		dials++
		return &fakeNodeClient{resp: &pb.ProcessImageResponse{Success: true}}, nil
	}

	for i := 0; i < 3; i++ {
		_, err := d.getOrCreateClient("127.0.0.1:50051")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, dials)
}
