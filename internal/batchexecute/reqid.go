package batchexecute

import (
	"math/rand"
	"strconv"
	"sync"
)

const reqIDStride = 100000

// ReqIDGenerator produces the session-scoped _reqid values the service uses
// to correlate multiplexed batches. Ids must never repeat within a session,
// so each client owns exactly one generator and access is serialized.
type ReqIDGenerator struct {
	mu   sync.Mutex
	base int
	seq  int
}

// NewReqIDGenerator picks a random base in [1000, 9999] for the lifetime of
// the generator.
func NewReqIDGenerator() *ReqIDGenerator {
	return &ReqIDGenerator{base: 1000 + rand.Intn(9000)}
}

// Next returns the next id in sequence. Consecutive ids differ by exactly
// 100000.
func (g *ReqIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.base + g.seq*reqIDStride
	g.seq++
	return strconv.Itoa(id)
}

// Reset returns the sequence to zero while keeping the same base.
func (g *ReqIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
