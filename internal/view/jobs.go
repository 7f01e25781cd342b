package view

import (
	"sync"

	"crowdwatch-cli/pkg/models"
)

// JobBoard reconciles polled analysis lists. Job status only ever
// advances along pending -> processing -> {completed|error}; a stale
// snapshot that would regress a job's status is rejected wholesale, so
// late poll responses cannot roll a finished job back to processing.
type JobBoard struct {
	mu      sync.Mutex
	order   []string
	entries map[string]models.Analysis
}

func NewJobBoard() *JobBoard {
	return &JobBoard{entries: make(map[string]models.Analysis)}
}

// Merge folds a server snapshot into local state. Per job: new entries
// append, entries whose status rank advanced (or held) replace, entries
// whose status would regress keep the local record. Jobs missing from
// the snapshot were deleted server-side and drop out.
func (b *JobBoard) Merge(jobs []models.Analysis) {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]bool, len(jobs))
	for _, job := range jobs {
		seen[job.AnalysisID] = true
		existing, ok := b.entries[job.AnalysisID]
		if !ok {
			b.entries[job.AnalysisID] = job
			b.order = append(b.order, job.AnalysisID)
			continue
		}
		if job.Status.Rank() < existing.Status.Rank() {
			continue
		}
		b.entries[job.AnalysisID] = job
	}

	kept := b.order[:0]
	for _, id := range b.order {
		if seen[id] {
			kept = append(kept, id)
		} else {
			delete(b.entries, id)
		}
	}
	b.order = kept
}

// Get returns the current record for one job.
func (b *JobBoard) Get(id string) (models.Analysis, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	job, ok := b.entries[id]
	return job, ok
}

// Jobs returns the current entries in stable order.
func (b *JobBoard) Jobs() []models.Analysis {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Analysis, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.entries[id])
	}
	return out
}

// CountsByStatus derives the job count per status, recomputed per call.
func (b *JobBoard) CountsByStatus() map[models.AnalysisStatus]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	counts := make(map[models.AnalysisStatus]int)
	for _, job := range b.entries {
		counts[job.Status]++
	}
	return counts
}
