package testfixtures

import (
	"strconv"
	"sync"
)

// IDGenerator hands out increasing numeric identifiers, the way the backend
// assigns them.
type IDGenerator struct {
	mu   sync.Mutex
	next int
}

// NewIDGenerator starts the sequence at start, or at 1 when start is not
// positive.
func NewIDGenerator(start int) *IDGenerator {
	if start <= 0 {
		start = 1
	}
	return &IDGenerator{next: start}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	return strconv.Itoa(id)
}
