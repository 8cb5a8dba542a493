package engine

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestChangeTracker_ConsumeClears(t *testing.T) {
	var c ChangeTracker

	if c.Consume() {
		t.Error("zero tracker should be clean")
	}

	c.Mark()
	c.Mark()
	if !c.Peek() {
		t.Error("Peek() = false after Mark")
	}
	if !c.Consume() {
		t.Error("first Consume after Mark = false")
	}
	if c.Consume() {
		t.Error("second Consume without Mark = true")
	}

	// A mark after consumption is held for the next reader
	c.Mark()
	if !c.Consume() {
		t.Error("mark raised after consume was lost")
	}

	// Consume never rewinds the generation
	if got, want := c.Generation(), uint64(3); got != want {
		t.Errorf("Generation() = %d, want %d", got, want)
	}
}

func TestChangeTracker_SingleConsumerWins(t *testing.T) {
	var c ChangeTracker
	c.Mark()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Consume() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("%d consumers observed the mark, want 1", wins.Load())
	}
}
