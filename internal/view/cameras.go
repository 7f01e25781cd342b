// Package view holds the transient state behind live displays: polled
// snapshots merged into stable, orderable collections, with derived
// aggregates recomputed on every merge.
package view

import (
	"sync"

	"crowdwatch-cli/pkg/models"
)

// CameraEntry pairs the last confirmed server snapshot of a camera with
// an optional optimistic status guess made after a start/stop request.
// The guess is distinct from the confirmed value so callers can render
// "we think it started" differently from "server says active".
type CameraEntry struct {
	models.Camera
	PendingStatus models.CameraStatus // "" when nothing is pending
}

// EffectiveStatus is the status a display should show: the optimistic
// guess while one is pending, the confirmed value otherwise.
func (e CameraEntry) EffectiveStatus() models.CameraStatus {
	if e.PendingStatus != "" {
		return e.PendingStatus
	}
	return e.Status
}

// CameraBoard reconciles polled camera lists into stable local state.
// Entries keep first-seen order across merges so displays do not shuffle.
type CameraBoard struct {
	mu      sync.Mutex
	order   []int
	entries map[int]*CameraEntry
}

func NewCameraBoard() *CameraBoard {
	return &CameraBoard{entries: make(map[int]*CameraEntry)}
}

// Merge replaces local state with a fresh server snapshot. New cameras
// append, known cameras update in place, cameras missing from the
// snapshot (deleted server-side) drop out. A confirmed snapshot always
// supersedes any pending optimistic guess.
func (b *CameraBoard) Merge(cameras []models.Camera) {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[int]bool, len(cameras))
	for _, cam := range cameras {
		seen[cam.ID] = true
		if e, ok := b.entries[cam.ID]; ok {
			e.Camera = cam
			e.PendingStatus = ""
			continue
		}
		b.entries[cam.ID] = &CameraEntry{Camera: cam}
		b.order = append(b.order, cam.ID)
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

// MarkPending records an optimistic status guess after a start/stop call.
// Unknown ids are ignored.
func (b *CameraBoard) MarkPending(id int, guess models.CameraStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.entries[id]; ok {
		e.PendingStatus = guess
	}
}

// Remove drops a camera immediately, for use after a confirmed delete.
func (b *CameraBoard) Remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[id]; !ok {
		return
	}
	delete(b.entries, id)
	kept := b.order[:0]
	for _, existing := range b.order {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	b.order = kept
}

// Get returns the current entry for one camera.
func (b *CameraBoard) Get(id int) (CameraEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return CameraEntry{}, false
	}
	return *e, true
}

// Cameras returns the current entries in stable order.
func (b *CameraBoard) Cameras() []CameraEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]CameraEntry, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.entries[id])
	}
	return out
}

// CountsByStatus derives the camera count per effective status. Computed
// fresh on every call, never cached.
func (b *CameraBoard) CountsByStatus() map[models.CameraStatus]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	counts := make(map[models.CameraStatus]int)
	for _, e := range b.entries {
		counts[e.EffectiveStatus()]++
	}
	return counts
}
