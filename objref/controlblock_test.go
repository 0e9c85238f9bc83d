package objref

import (
	"sync"
	"testing"
)

func TestControlBlock_StrongDestroyOnce(t *testing.T) {
	var destroyed int32
	var freed int32
	cb := newControlBlock(true, func() { destroyed++ }, func() { freed++ })

	cb.AddStrong()
	cb.AddStrong()
	if got := cb.StrongCount(); got != 3 {
		t.Fatalf("strong count = %d, want 3", got)
	}

	cb.ReleaseStrong()
	cb.ReleaseStrong()
	if destroyed != 0 {
		t.Fatalf("destroyed too early: %d", destroyed)
	}
	cb.ReleaseStrong()
	if destroyed != 1 {
		t.Fatalf("destroy ran %d times, want 1", destroyed)
	}
	// strong -> 0 implicitly released the control block's own weak ref.
	if got := cb.WeakCount(); got != 0 {
		t.Fatalf("weak count after strong->0 = %d, want 0", got)
	}
	if freed != 1 {
		t.Fatalf("free ran %d times, want 1", freed)
	}
}

func TestControlBlock_WeakOutlivesStrong(t *testing.T) {
	var destroyed, freed int32
	cb := newControlBlock(true, func() { destroyed++ }, func() { freed++ })
	cb.AddWeak() // simulate a WeakRef clone

	cb.ReleaseStrong()
	if destroyed != 1 {
		t.Fatalf("destroy ran %d times, want 1", destroyed)
	}
	if freed != 0 {
		t.Fatalf("freed before outstanding weak released: %d", freed)
	}

	// strong -> 0 already released the control block's own implicit weak,
	// so releasing the simulated clone brings weak to zero.
	cb.ReleaseWeak()
	if freed != 1 {
		t.Fatalf("free ran %d times, want 1", freed)
	}
}

func TestControlBlock_UpgradeRefusesFromZero(t *testing.T) {
	cb := newControlBlock(true, func() {}, func() {})
	cb.ReleaseStrong()
	if cb.TryUpgrade() {
		t.Fatal("tryUpgrade succeeded after strong reached zero")
	}
}

func TestControlBlock_ConcurrentCloneDrop(t *testing.T) {
	const n = 200
	var destroyed int32
	cb := newControlBlock(false, func() { destroyed++ }, func() {})

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		cb.AddStrong()
		go func() {
			defer wg.Done()
			cb.ReleaseStrong()
		}()
	}
	wg.Wait()
	cb.ReleaseStrong() // release the original count of 1
	if destroyed != 1 {
		t.Fatalf("destroy ran %d times, want 1", destroyed)
	}
}
