package pipeline

import (
	"sync"
	"testing"
)

func TestDrainAllPreservesFIFOOrder(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Push([]float64{float64(i)})
	}

	got := q.DrainAll()
	if len(got) != 5 {
		t.Fatalf("drained %d spectra, want 5", len(got))
	}
	for i, s := range got {
		if s[0] != float64(i) {
			t.Fatalf("spectrum %d = %v, want %d", i, s[0], i)
		}
	}
}

func TestDrainAllEmptyQueue(t *testing.T) {
	q := NewQueue()
	if got := q.DrainAll(); len(got) != 0 {
		t.Fatalf("drained %d spectra from empty queue", len(got))
	}
	q.Push([]float64{1})
	q.DrainAll()
	if got := q.DrainAll(); len(got) != 0 {
		t.Fatalf("second drain returned %d spectra", len(got))
	}
}

func TestPushDropsOldestPastSoftCap(t *testing.T) {
	q := NewQueue()
	for i := 0; i < softCap+10; i++ {
		q.Push([]float64{float64(i)})
	}

	got := q.DrainAll()
	if len(got) != softCap {
		t.Fatalf("drained %d spectra, want %d", len(got), softCap)
	}
	// The ten oldest entries were dropped; the head is now entry 10.
	if got[0][0] != 10 {
		t.Fatalf("head spectrum = %v, want 10", got[0][0])
	}
	if got[len(got)-1][0] != float64(softCap+9) {
		t.Fatalf("tail spectrum = %v, want %d", got[len(got)-1][0], softCap+9)
	}
	if q.Dropped() != 10 {
		t.Fatalf("Dropped() = %d, want 10", q.Dropped())
	}
}

func TestConcurrentPushAndDrain(t *testing.T) {
	q := NewQueue()
	// Stay below the soft cap so no entries can be dropped mid-test.
	const total = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Push([]float64{float64(i)})
		}
	}()

	var drained [][]float64
	for len(drained) < total {
		drained = append(drained, q.DrainAll()...)
	}
	wg.Wait()

	for i, s := range drained {
		if s[0] != float64(i) {
			t.Fatalf("spectrum %d = %v after concurrent drain, want %d", i, s[0], i)
		}
	}
}
