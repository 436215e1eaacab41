package services

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator produces order identifiers. It is injected into the order
// service so tests can generate deterministic IDs.
type IDGenerator interface {
	NextOrderID() string
}

// TimestampIDGenerator emits ORD-<unix-millis> identifiers. Two calls
// within the same millisecond get consecutive timestamps, so IDs are
// strictly monotonic and collision-free within a process.
type TimestampIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewTimestampIDGenerator() *TimestampIDGenerator {
	return &TimestampIDGenerator{now: time.Now}
}

func (g *TimestampIDGenerator) NextOrderID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	millis := g.now().UnixMilli()
	if millis <= g.last {
		millis = g.last + 1
	}
	g.last = millis

	return "ORD-" + strconv.FormatInt(millis, 10)
}
