package status

import (
	"sync"
	"testing"
)

func TestMetricMap_GetReturnsStablePointer(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()

	a := m.Get("body.area_ratio")
	a.Set(0.97)
	if b := m.Get("body.area_ratio"); b != a {
		t.Fatal("second Get returned a different pointer")
	}
	if !m.Has("body.area_ratio") || m.Has("missing") {
		t.Error("Has() disagrees with registrations")
	}
	if got := m.Get("body.area_ratio").Get(); got != 0.97 {
		t.Errorf("value = %v, want 0.97", got)
	}
}

func TestMetricMap_ConcurrentRegistration(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	ptrs := make([]*AtomicFloat, 16)

	var wg sync.WaitGroup
	for i := range ptrs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ptrs[i] = m.Get("physics.substeps")
		}(i)
	}
	wg.Wait()

	for i, p := range ptrs {
		if p != ptrs[0] {
			t.Errorf("goroutine %d got a distinct pointer", i)
		}
	}
	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}
}

func TestAtomicString_Truncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("zero value not empty")
	}
	s.Store("displace-with-a-very-long-suffix")
	if got := s.Load(); len(got) != MaxStringLen {
		t.Errorf("stored %q (%d bytes), want %d bytes", got, len(got), MaxStringLen)
	}
}

func TestRegistry_EntriesSorted(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("physics.substeps").Store(42)
	r.Floats.Get("body.area_ratio").Set(1.0049)
	r.Strings.Get("effector.mode").Store("push")
	r.Bools.Get("engine.paused").Store(true)

	got := r.Entries()
	want := []Entry{
		{"body.area_ratio", "1.005"},
		{"effector.mode", "push"},
		{"engine.paused", "true"},
		{"physics.substeps", "42"},
	}
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}
	if r.TotalCount() != 4 {
		t.Errorf("TotalCount = %d, want 4", r.TotalCount())
	}
}
