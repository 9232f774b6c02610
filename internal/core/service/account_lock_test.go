package service

import (
	"sync"
	"testing"
)

func TestAccountLocks_MutualExclusion(t *testing.T) {
	locks := newAccountLocks()

	const n = 50
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("alice123")
			defer locks.Unlock("alice123")
			counter++
		}()
	}
	wg.Wait()

	if counter != n {
		t.Fatalf("lost updates under the account lock: %d != %d", counter, n)
	}
}

func TestAccountLocks_EntriesReleased(t *testing.T) {
	locks := newAccountLocks()

	locks.Lock("alice123")
	locks.Unlock("alice123")
	locks.Lock("bob45678")
	locks.Unlock("bob45678")

	locks.mu.Lock()
	remaining := len(locks.locks)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected empty lock table, %d entries remain", remaining)
	}
}

func TestAccountLocks_DistinctKeysDoNotBlock(t *testing.T) {
	locks := newAccountLocks()
	locks.Lock("alice123")
	defer locks.Unlock("alice123")

	done := make(chan struct{})
	go func() {
		locks.Lock("bob45678")
		locks.Unlock("bob45678")
		close(done)
	}()
	<-done
}
