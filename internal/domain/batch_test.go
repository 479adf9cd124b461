package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func jobsWithStates(states ...JobState) []*Job {
	jobs := make([]*Job, len(states))
	for i, s := range states {
		jobs[i] = &Job{UUID: "job", State: s}
	}
	return jobs
}

func TestAggregateBatchState(t *testing.T) {
	tests := []struct {
		name   string
		states []JobState
		want   BatchState
	}{
		{"all completed", []JobState{JobStateCompleted, JobStateCompleted}, BatchStateCompleted},
		{"one failed wins over completed", []JobState{JobStateCompleted, JobStateFailed, JobStateCompleted}, BatchStateFailed},
		{"one pending keeps batch processing", []JobState{JobStatePending, JobStateCompleted, JobStateCompleted}, BatchStateProcessing},
		{"processing keeps batch processing", []JobState{JobStateProcessing, JobStateCompleted}, BatchStateProcessing},
		{"failed wins over in-flight", []JobState{JobStatePending, JobStateFailed}, BatchStateFailed},
		{"single pending", []JobState{JobStatePending}, BatchStateProcessing},
		{"empty is unknown", nil, BatchStateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateBatchState(jobsWithStates(tt.states...)))
		})
	}
}

func TestFilterTransformations(t *testing.T) {
	got := FilterTransformations([]string{"Grayscale", "invert", "resize", "ROTATE"})
	assert.Equal(t, []string{"grayscale", "resize", "rotate"}, got)

	assert.Empty(t, FilterTransformations(nil))
}

func TestAllowedFile(t *testing.T) {
	assert.True(t, AllowedFile("photo.PNG"))
	assert.True(t, AllowedFile("scan.tiff"))
	assert.False(t, AllowedFile("script.exe"))
	assert.False(t, AllowedFile("noextension"))
}

func TestFileFormat(t *testing.T) {
	assert.Equal(t, "jpg", FileFormat("holiday.JPG"))
	assert.Equal(t, "", FileFormat("plain"))
}
