package transport

import (
	"sync"

	"diagcoord/internal/diag"
)

// StaticRegistry is a simple in-memory ProjectRegistry: projects are
// registered up front (or as they're opened) and looked up by id.
// Real deployments would back this with whatever tracks open projects
// on the host side; out of scope for this repo (spec §1 Non-goals).
type StaticRegistry struct {
	mu       sync.RWMutex
	projects map[string]diag.ProjectHandle
}

func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{projects: make(map[string]diag.ProjectHandle)}
}

func (r *StaticRegistry) Register(projectID string, handle diag.ProjectHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[projectID] = handle
}

func (r *StaticRegistry) Lookup(projectID string) (diag.ProjectHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.projects[projectID]
	return h, ok
}
