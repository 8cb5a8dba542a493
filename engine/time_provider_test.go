package engine

import (
	"sync"
	"testing"
	"time"
)

func TestMonotonicTimeProvider(t *testing.T) {
	provider := NewMonotonicTimeProvider()

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := provider.Now()

	if diff := t2.Sub(t1); diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms between readings, got %v", diff)
	}
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)

	if now := mock.Now(); !now.Equal(start) {
		t.Errorf("Expected initial time %v, got %v", start, now)
	}

	mock.Advance(30 * time.Millisecond)
	mock.Advance(15 * time.Millisecond)
	if got, want := mock.Now(), start.Add(45*time.Millisecond); !got.Equal(want) {
		t.Errorf("Expected %v after advances, got %v", want, got)
	}
}

func TestMockTimeProvider_ConcurrentAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				mock.Advance(time.Millisecond)
				_ = mock.Now()
			}
		}()
	}
	wg.Wait()

	if got, want := mock.Now(), start.Add(800*time.Millisecond); !got.Equal(want) {
		t.Errorf("Expected %v after concurrent advances, got %v", want, got)
	}
}
