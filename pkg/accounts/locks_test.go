package accounts

import (
	"sync"
	"testing"
)

func TestKeyedLock(t *testing.T) {
	t.Run("serializes access per key", func(t *testing.T) {
		kl := newKeyedLock()
		counter := 0

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				kl.Lock("user@example.com")
				defer kl.Unlock("user@example.com")
				counter++
			}()
		}
		wg.Wait()

		if counter != 100 {
			t.Errorf("expected 100, got %d", counter)
		}
	})

	t.Run("entries are cleaned up", func(t *testing.T) {
		kl := newKeyedLock()
		kl.Lock("a")
		kl.Unlock("a")
		kl.Lock("b")
		kl.Unlock("b")

		kl.mu.Lock()
		defer kl.mu.Unlock()
		if len(kl.entries) != 0 {
			t.Errorf("expected empty lock table, got %d entries", len(kl.entries))
		}
	})
}
