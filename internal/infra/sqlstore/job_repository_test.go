package sqlstore

import (
	"context"
	"testing"
	"time"

	"distributed-imaging/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRepoCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db, testLogger())
	ctx := context.Background()

	nodeID := insertNode(t, db, "node-a", domain.NodeStateActive, time.Now().UTC())

	uuid, err := repo.Create(ctx, domain.NewJob{
		ImageName:       "1724380000_cat.png",
		ImageSize:       2048,
		Transformations: []string{"grayscale", "resize"},
		Parameters: []domain.TransformParameter{
			{Name: "width", Value: "640"},
			{Name: "height", Value: "480"},
		},
		NodeID:  nodeID,
		BatchID: "batch-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, uuid)

	job, err := repo.GetByUUID(ctx, uuid)
	require.NoError(t, err)

	assert.Equal(t, uuid, job.UUID)
	assert.Equal(t, "1724380000_cat.png", job.ImageName)
	assert.Equal(t, int64(2048), job.ImageSize)
	assert.Equal(t, []string{"grayscale", "resize"}, job.Transformations)
	require.Len(t, job.Parameters, 2)
	assert.Equal(t, "width", job.Parameters[0].Name)
	assert.Equal(t, "640", job.Parameters[0].Value)
	assert.Equal(t, nodeID, job.NodeID)
	assert.Equal(t, "node-a", job.NodeName)
	assert.Equal(t, "batch-1", job.BatchID)
	assert.Equal(t, domain.JobStatePending, job.State)
	assert.Nil(t, job.ProcessedAt)
}

func TestJobRepoGetUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db, testLogger())

	_, err := repo.GetByUUID(context.Background(), "no-such-job")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobRepoLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db, testLogger())
	ctx := context.Background()

	nodeID := insertNode(t, db, "node-a", domain.NodeStateActive, time.Now().UTC())

	uuid, err := repo.Create(ctx, domain.NewJob{
		ImageName:       "dog.jpg",
		ImageSize:       100,
		Transformations: []string{"blur"},
		NodeID:          nodeID,
	})
	require.NoError(t, err)

	require.NoError(t, repo.MarkProcessing(ctx, uuid))
	job, err := repo.GetByUUID(ctx, uuid)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateProcessing, job.State)

	require.NoError(t, repo.Complete(ctx, uuid, "/results/node-a/dog.jpg"))
	job, err = repo.GetByUUID(ctx, uuid)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateCompleted, job.State)
	assert.Equal(t, "/results/node-a/dog.jpg", job.ResultPath)
	require.NotNil(t, job.ProcessedAt)
}

func TestJobRepoMarkFailedIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db, testLogger())
	ctx := context.Background()

	nodeID := insertNode(t, db, "node-a", domain.NodeStateActive, time.Now().UTC())

	uuid, err := repo.Create(ctx, domain.NewJob{
		ImageName:       "dog.jpg",
		ImageSize:       100,
		Transformations: []string{"blur"},
		NodeID:          nodeID,
	})
	require.NoError(t, err)

	require.NoError(t, repo.MarkFailed(ctx, uuid, "node unreachable"))
	require.NoError(t, repo.MarkFailed(ctx, uuid, "dispatch timed out"))

	job, err := repo.GetByUUID(ctx, uuid)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateFailed, job.State)
	assert.Equal(t, "dispatch timed out", job.ErrorMessage)
}

func TestJobRepoMarkFailedNeverOverwritesCompleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db, testLogger())
	ctx := context.Background()

	nodeID := insertNode(t, db, "node-a", domain.NodeStateActive, time.Now().UTC())

	uuid, err := repo.Create(ctx, domain.NewJob{
		ImageName:       "dog.jpg",
		ImageSize:       100,
		Transformations: []string{"blur"},
		NodeID:          nodeID,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Complete(ctx, uuid, "/results/node-a/dog.jpg"))
	require.NoError(t, repo.MarkFailed(ctx, uuid, "late timeout"))

	job, err := repo.GetByUUID(ctx, uuid)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateCompleted, job.State)
	assert.Empty(t, job.ErrorMessage)
}

func TestJobRepoCompleteNeverResurrectsFailed(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db, testLogger())
	ctx := context.Background()

	nodeID := insertNode(t, db, "node-a", domain.NodeStateActive, time.Now().UTC())

	uuid, err := repo.Create(ctx, domain.NewJob{
		ImageName:       "dog.jpg",
		ImageSize:       100,
		Transformations: []string{"blur"},
		NodeID:          nodeID,
	})
	require.NoError(t, err)

	require.NoError(t, repo.MarkFailed(ctx, uuid, "node unreachable"))
	require.NoError(t, repo.Complete(ctx, uuid, "/results/node-a/dog.jpg"))

	job, err := repo.GetByUUID(ctx, uuid)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateFailed, job.State)
}

func TestJobRepoListByBatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db, testLogger())
	ctx := context.Background()

	nodeID := insertNode(t, db, "node-a", domain.NodeStateActive, time.Now().UTC())

	var uuids []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		uuid, err := repo.Create(ctx, domain.NewJob{
			ImageName:       name,
			ImageSize:       1,
			Transformations: []string{"grayscale"},
			NodeID:          nodeID,
			BatchID:         "batch-7",
		})
		require.NoError(t, err)
		uuids = append(uuids, uuid)
	}

	// A job outside the batch must not leak in.
	_, err := repo.Create(ctx, domain.NewJob{
		ImageName:       "other.png",
		ImageSize:       1,
		Transformations: []string{"grayscale"},
		NodeID:          nodeID,
	})
	require.NoError(t, err)

	jobs, err := repo.ListByBatch(ctx, "batch-7")
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	for i, job := range jobs {
		assert.Equal(t, uuids[i], job.UUID)
		assert.Equal(t, "batch-7", job.BatchID)
	}

	jobs, err = repo.ListByBatch(ctx, "no-such-batch")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
