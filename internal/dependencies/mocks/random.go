package mocks

import (
	"sync"

	"github.com/mcoot/cybersnake/internal/dependencies/random"
)

// MockRandom replays queued Intn results. Food placement asks for x then
// y, so tests queue coordinates in pairs.
type MockRandom struct {
	mu      sync.Mutex
	results []int
	next    int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 once the queue is used up.
// Queued values are reduced modulo n so they always stay in range.
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.next >= len(r.results) || n <= 0 {
		return 0
	}
	result := r.results[r.next]
	r.next++
	return result % n
}

// QueueIntn adds values to the result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, values...)
}

// QueueCell queues the draws that place food at (x, y)
func (r *MockRandom) QueueCell(x, y int) {
	r.QueueIntn(x, y)
}

// Remaining returns how many queued results are unused
func (r *MockRandom) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results) - r.next
}
