package server

import (
	"sync"

	"ducker/internal/domain"
)

// requestQueue is the in-memory backlog shared between the server loop,
// the lock poller and the playback monitor. Draining coalesces: only the
// most recently queued request survives a pop, so a burst of duplicate
// notifications plays once.
type requestQueue struct {
	mu    sync.Mutex
	items []domain.Request
}

func newRequestQueue() *requestQueue {
	return &requestQueue{}
}

// Push appends a request
func (q *requestQueue) Push(req domain.Request) {
	q.mu.Lock()
	q.items = append(q.items, req)
	q.mu.Unlock()
}

// PopLatest removes and returns the most recent request, dropping any
// older ones queued behind it
func (q *requestQueue) PopLatest() (domain.Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return domain.Request{}, false
	}
	req := q.items[len(q.items)-1]
	q.items = q.items[:0]
	return req, true
}

// Empty reports whether the queue holds no requests
func (q *requestQueue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}

// NonEmpty is the queue-peek handed to the fade scheduler
func (q *requestQueue) NonEmpty() bool {
	return !q.Empty()
}
