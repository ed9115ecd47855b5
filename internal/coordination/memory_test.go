package coordination

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestTryAcquireContention(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ok, err := s.TryAcquire(ctx, "lock:slot:1:100", "a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	ok, err = s.TryAcquire(ctx, "lock:slot:1:100", "b", time.Minute)
	if err != nil {
		t.Fatalf("second acquire errored: %v", err)
	}
	if ok {
		t.Fatal("second acquire succeeded while held")
	}

	// a different key is independent
	ok, _ = s.TryAcquire(ctx, "lock:slot:1:200", "b", time.Minute)
	if !ok {
		t.Fatal("unrelated key blocked")
	}
}

func TestReleaseIsOwnerChecked(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if ok, _ := s.TryAcquire(ctx, "k", "owner", time.Minute); !ok {
		t.Fatal("acquire failed")
	}

	// wrong token must not free the lock
	if err := s.Release(ctx, "k", "intruder"); err != nil {
		t.Fatalf("release errored: %v", err)
	}
	if ok, _ := s.TryAcquire(ctx, "k", "other", time.Minute); ok {
		t.Fatal("lock freed by non-owner release")
	}

	if err := s.Release(ctx, "k", "owner"); err != nil {
		t.Fatalf("owner release errored: %v", err)
	}
	if ok, _ := s.TryAcquire(ctx, "k", "other", time.Minute); !ok {
		t.Fatal("lock not freed by owner release")
	}

	// releasing again is a no-op
	if err := s.Release(ctx, "k", "owner"); err != nil {
		t.Fatalf("idempotent release errored: %v", err)
	}
}

func TestTryAcquireTTLExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if ok, _ := s.TryAcquire(ctx, "k", "a", 10*time.Millisecond); !ok {
		t.Fatal("acquire failed")
	}

	time.Sleep(20 * time.Millisecond)

	if ok, _ := s.TryAcquire(ctx, "k", "b", time.Minute); !ok {
		t.Fatal("expired lock still held")
	}
}

func TestResultRoundtrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	got, err := s.GetResult(ctx, "idem:appointment:k1")
	if err != nil {
		t.Fatalf("get on empty store: %v", err)
	}
	if got != "" {
		t.Fatalf("empty store returned %q", got)
	}

	if err := s.PutResult(ctx, "idem:appointment:k1", "42", time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, _ = s.GetResult(ctx, "idem:appointment:k1")
	if got != "42" {
		t.Fatalf("got %q, want 42", got)
	}
}

func TestResultExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.PutResult(ctx, "k", "42", 10*time.Millisecond); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	got, err := s.GetResult(ctx, "k")
	if err != nil {
		t.Fatalf("get errored: %v", err)
	}
	if got != "" {
		t.Fatalf("expired result returned %q", got)
	}
}

func TestTryAcquireConcurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := s.TryAcquire(ctx, "k", "t", time.Minute)
			if err != nil {
				t.Errorf("acquire errored: %v", err)
				return
			}
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("%d goroutines acquired the lock, want exactly 1", winners)
	}
}

func TestSlotLockKey(t *testing.T) {
	at := time.Date(2026, 6, 8, 9, 15, 0, 0, time.UTC)
	k1 := SlotLockKey(1, at)
	k2 := SlotLockKey(2, at)
	k3 := SlotLockKey(1, at.Add(time.Hour))

	if k1 == k2 || k1 == k3 {
		t.Fatalf("lock keys collide: %q %q %q", k1, k2, k3)
	}

	// same instant in another zone maps to the same key
	if k1 != SlotLockKey(1, at.In(time.FixedZone("X", 3600))) {
		t.Fatal("lock key depends on wall-clock representation")
	}
}
