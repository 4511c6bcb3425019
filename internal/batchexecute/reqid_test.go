package batchexecute

import (
	"strconv"
	"testing"

	"github.com/kazuph/nlm/internal/testutil/testlog"
)

func TestReqIDSequence(t *testing.T) {
	testlog.Start(t)
	gen := NewReqIDGenerator()

	first, err := strconv.Atoi(gen.Next())
	if err != nil {
		t.Fatalf("first id not numeric: %v", err)
	}
	if first < 1000 || first > 9999 {
		t.Fatalf("base out of range: %d", first)
	}

	prev := first
	for i := 0; i < 5; i++ {
		next, err := strconv.Atoi(gen.Next())
		if err != nil {
			t.Fatalf("id not numeric: %v", err)
		}
		if next-prev != reqIDStride {
			t.Fatalf("expected stride %d, got %d", reqIDStride, next-prev)
		}
		prev = next
	}
}

func TestReqIDResetKeepsBase(t *testing.T) {
	testlog.Start(t)
	gen := NewReqIDGenerator()

	base := gen.Next()
	gen.Next()
	gen.Next()
	gen.Reset()

	if got := gen.Next(); got != base {
		t.Fatalf("expected base %s after reset, got %s", base, got)
	}
}

func TestReqIDConcurrentNext(t *testing.T) {
	testlog.Start(t)
	gen := NewReqIDGenerator()

	const n = 50
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		go func() {
			ids <- gen.Next()
		}()
	}

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id := <-ids
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
