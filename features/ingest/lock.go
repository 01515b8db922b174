package ingest

import "sync"

// projectLocks serializes processing runs per project so a reset from one
// request can never interleave with inserts from another and break chunk
// order contiguity.
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[string]*sync.Mutex)}
}

// Acquire blocks until the project's lock is held and returns the release
// function.
func (l *projectLocks) Acquire(projectID string) func() {
	l.mu.Lock()
	m, ok := l.locks[projectID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[projectID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
