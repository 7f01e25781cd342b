package upload

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdwatch-cli/internal/client"
	"crowdwatch-cli/pkg/models"
)

// fakeAPI replays a scripted sequence of job statuses, one per poll.
type fakeAPI struct {
	mu         sync.Mutex
	statuses   []models.AnalysisStatus
	idx        int
	failUpload error
}

func (f *fakeAPI) UploadVideo(path string, crowdThreshold, frameSkip int, progress client.ProgressFunc) (*models.UploadResponse, error) {
	if f.failUpload != nil {
		return nil, f.failUpload
	}
	if progress != nil {
		for _, pct := range []int{25, 50, 75, 100} {
			progress(pct)
		}
	}
	return &models.UploadResponse{
		Message:    "Video uploaded successfully. Analysis started.",
		AnalysisID: "job-1",
		Filename:   path,
		Status:     models.AnalysisPending,
	}, nil
}

func (f *fakeAPI) ListAnalyses() ([]models.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := f.statuses[f.idx]
	if f.idx < len(f.statuses)-1 {
		f.idx++
	}
	return []models.Analysis{{AnalysisID: "job-1", Status: status}}, nil
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("event stream did not close")
		}
	}
}

func TestRunHappyPath(t *testing.T) {
	api := &fakeAPI{statuses: []models.AnalysisStatus{
		models.AnalysisPending,
		models.AnalysisProcessing,
		models.AnalysisCompleted,
	}}

	var accepted []models.UploadResponse
	events := New(api).Run(context.Background(), "footage.mp4", Options{
		PollInterval: 5 * time.Millisecond,
		OnAccepted: func(resp models.UploadResponse) {
			accepted = append(accepted, resp)
		},
	})

	out := collect(t, events)
	require.NotEmpty(t, out)

	// Upload progress is non-decreasing and ends at 100.
	var lastPct int
	for _, ev := range out {
		if ev.State != Uploading {
			break
		}
		assert.GreaterOrEqual(t, ev.Percent, lastPct)
		lastPct = ev.Percent
	}
	assert.Equal(t, 100, lastPct)

	// States advance in pipeline order, ending terminal.
	var states []State
	for _, ev := range out {
		if len(states) == 0 || states[len(states)-1] != ev.State {
			states = append(states, ev.State)
		}
	}
	assert.Equal(t, []State{Uploading, Queued, Processing, Completed}, states)

	require.Len(t, accepted, 1)
	assert.Equal(t, "job-1", accepted[0].AnalysisID)
}

func TestRunUploadFailureReturnsToIdle(t *testing.T) {
	api := &fakeAPI{failUpload: errors.New("connection refused")}

	events := New(api).Run(context.Background(), "footage.mp4", Options{
		PollInterval: 5 * time.Millisecond,
	})

	out := collect(t, events)
	require.NotEmpty(t, out)

	last := out[len(out)-1]
	assert.Equal(t, Idle, last.State, "upload failure must land in Idle, not Errored")
	assert.ErrorContains(t, last.Err, "connection refused")

	for _, ev := range out {
		assert.NotEqual(t, Errored, ev.State, "Errored is reserved for server-side processing failure")
	}
}

func TestRunServerSideFailureEndsErrored(t *testing.T) {
	api := &fakeAPI{statuses: []models.AnalysisStatus{
		models.AnalysisProcessing,
		models.AnalysisError,
	}}

	events := New(api).Run(context.Background(), "footage.mp4", Options{
		PollInterval: 5 * time.Millisecond,
	})

	out := collect(t, events)
	require.NotEmpty(t, out)
	assert.Equal(t, Errored, out[len(out)-1].State)
}

func TestRunSkipsProcessingWhenAlreadyComplete(t *testing.T) {
	// First poll already sees the job finished; the stream must still be
	// ordered and terminal without a Processing event.
	api := &fakeAPI{statuses: []models.AnalysisStatus{models.AnalysisCompleted}}

	events := New(api).Run(context.Background(), "footage.mp4", Options{
		PollInterval: 5 * time.Millisecond,
	})

	out := collect(t, events)
	require.NotEmpty(t, out)
	assert.Equal(t, Completed, out[len(out)-1].State)
	for _, ev := range out {
		assert.NotEqual(t, Processing, ev.State)
	}
}

func TestRunCancellationEndsStream(t *testing.T) {
	// Job never reaches a terminal status; cancellation must still close
	// the stream.
	api := &fakeAPI{statuses: []models.AnalysisStatus{models.AnalysisProcessing}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := New(api).Run(ctx, "footage.mp4", Options{
		PollInterval: 5 * time.Millisecond,
	})

	sawProcessing := false
	for ev := range events {
		if ev.State == Processing && !sawProcessing {
			sawProcessing = true
			cancel()
		}
	}
	assert.True(t, sawProcessing)
}
