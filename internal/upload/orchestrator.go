// Package upload drives the analysis submission pipeline: multipart
// upload with progress, server-side job creation, then poll-driven
// observation of the job until it reaches a terminal status.
package upload

import (
	"context"
	"time"

	"crowdwatch-cli/internal/client"
	"crowdwatch-cli/internal/poll"
	"crowdwatch-cli/internal/view"
	"crowdwatch-cli/pkg/models"
)

// State is the orchestrator's position in the submission pipeline.
type State int

const (
	// Idle: nothing in flight. Also the landing state when the upload
	// itself fails before the server accepts the job.
	Idle State = iota
	// Uploading: multipart request in flight, progress events flowing.
	Uploading
	// Queued: the server accepted the job; its lifecycle is now observed
	// by polling, the orchestrator no longer influences it.
	Queued
	// Processing: a poll observed the job actively processing.
	Processing
	// Completed and Errored are terminal, reached only via polling.
	Completed
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Uploading:
		return "uploading"
	case Queued:
		return "queued"
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// Event is one entry of the bounded, ordered stream a Run emits. The
// stream closes after a terminal event: Completed, Errored, or Idle
// carrying the upload error.
type Event struct {
	State   State
	Percent int             // upload progress, meaningful while Uploading
	Job     models.Analysis // populated on poll-observed transitions
	Err     error           // populated on Idle-after-failure
}

// API is the slice of the HTTP client the orchestrator needs.
type API interface {
	UploadVideo(path string, crowdThreshold, frameSkip int, progress client.ProgressFunc) (*models.UploadResponse, error)
	ListAnalyses() ([]models.Analysis, error)
}

// Options tunes one submission. Zero values fall back to the defaults
// the backend uses.
type Options struct {
	CrowdThreshold int
	FrameSkip      int
	PollInterval   time.Duration
	// OnAccepted fires once when the server accepts the job, before
	// polling begins. Dependent views hook their refresh here.
	OnAccepted func(models.UploadResponse)
}

// Orchestrator runs submissions against an API.
type Orchestrator struct {
	api API
}

func New(api API) *Orchestrator {
	return &Orchestrator{api: api}
}

// Run submits a video and returns the event stream for this submission.
// The stream is finite and non-restartable; cancellation of ctx ends it
// early without a terminal job event.
func (o *Orchestrator) Run(ctx context.Context, path string, opts Options) <-chan Event {
	if opts.PollInterval <= 0 {
		opts.PollInterval = poll.ListInterval
	}

	events := make(chan Event, 128)
	go o.run(ctx, path, opts, events)
	return events
}

func (o *Orchestrator) run(ctx context.Context, path string, opts Options, events chan<- Event) {
	defer close(events)

	emit := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit(Event{State: Uploading, Percent: 0}) {
		return
	}

	accepted, err := o.api.UploadVideo(path, opts.CrowdThreshold, opts.FrameSkip, func(percent int) {
		emit(Event{State: Uploading, Percent: percent})
	})
	if err != nil {
		// Upload never reached acceptance: back to Idle, error surfaced.
		// Errored is reserved for jobs that failed server-side.
		emit(Event{State: Idle, Err: err})
		return
	}

	if opts.OnAccepted != nil {
		opts.OnAccepted(*accepted)
	}
	if !emit(Event{State: Queued, Percent: 100}) {
		return
	}

	// From here the job belongs to the server; we only watch. The board
	// enforces monotonic status so a stale poll cannot walk a finished
	// job backwards.
	board := view.NewJobBoard()
	updates := make(chan models.Analysis, 16)

	handle := poll.Start(opts.PollInterval, func(ctx context.Context) ([]models.Analysis, error) {
		return o.api.ListAnalyses()
	}, func(jobs []models.Analysis) {
		board.Merge(jobs)
		if job, ok := board.Get(accepted.AnalysisID); ok {
			select {
			case updates <- job:
			default:
			}
		}
	})
	defer handle.Stop()

	last := Queued
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-updates:
			state := stateFor(job.Status)
			if state <= last {
				continue
			}
			last = state
			if !emit(Event{State: state, Job: job}) {
				return
			}
			if state == Completed || state == Errored {
				return
			}
		}
	}
}

func stateFor(status models.AnalysisStatus) State {
	switch status {
	case models.AnalysisPending:
		return Queued
	case models.AnalysisProcessing:
		return Processing
	case models.AnalysisCompleted:
		return Completed
	case models.AnalysisError:
		return Errored
	}
	return Queued
}
