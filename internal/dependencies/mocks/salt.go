package mocks

import (
	"fmt"

	"github.com/mcoot/stakeledger/internal/dependencies/salt"
)

// MockSalt is a mock implementation of salt.Generator for testing
type MockSalt struct {
	// Results is a queue of values to return from New
	Results []string
	index   int
	counter int
}

// Ensure MockSalt implements Generator
var _ salt.Generator = (*MockSalt)(nil)

// NewMockSalt creates a new MockSalt
func NewMockSalt() *MockSalt {
	return &MockSalt{}
}

// New returns the next queued value, or a deterministic "salt-N" once the
// queue is drained
func (s *MockSalt) New() string {
	if s.index < len(s.Results) {
		result := s.Results[s.index]
		s.index++
		return result
	}
	s.counter++
	return fmt.Sprintf("salt-%d", s.counter)
}

// Queue adds values to the result queue
func (s *MockSalt) Queue(values ...string) {
	s.Results = append(s.Results, values...)
}
