package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/pokernotes/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued values are returned first; after that it falls back to sequential values.
type MockRandom struct {
	mu sync.Mutex

	// IDResults is a queue of results to return from ID
	IDResults []string
	idIndex   int
	idSeq     int

	// TokenResults is a queue of results to return from Token
	TokenResults []string
	tokenIndex   int
	tokenSeq     int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// ID returns the next queued result, or "id-N" if none remaining
func (r *MockRandom) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idIndex < len(r.IDResults) {
		result := r.IDResults[r.idIndex]
		r.idIndex++
		return result
	}
	r.idSeq++
	return fmt.Sprintf("id-%d", r.idSeq)
}

// Token returns the next queued result, or prefix+"token-N" if none remaining
func (r *MockRandom) Token(prefix string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tokenIndex < len(r.TokenResults) {
		result := r.TokenResults[r.tokenIndex]
		r.tokenIndex++
		return result
	}
	r.tokenSeq++
	return fmt.Sprintf("%stoken-%d", prefix, r.tokenSeq)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IDResults = append(r.IDResults, values...)
}

// QueueToken adds values to the Token result queue
func (r *MockRandom) QueueToken(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TokenResults = append(r.TokenResults, values...)
}

// Reset clears all queued results and sequences
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IDResults = nil
	r.idIndex = 0
	r.idSeq = 0
	r.TokenResults = nil
	r.tokenIndex = 0
	r.tokenSeq = 0
}
