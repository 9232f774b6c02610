package service

import "sync"

// accountLocks is an on-demand table of per-account mutexes. Registrations
// for the same account serialize on one mutex; unrelated accounts never
// contend. Entries are reference-counted and removed once the last holder
// unlocks, so the table does not grow with the account space.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*accountLock)}
}

// Lock acquires the mutex for account, creating it if needed.
func (l *accountLocks) Lock(account string) {
	l.mu.Lock()
	entry, ok := l.locks[account]
	if !ok {
		entry = &accountLock{}
		l.locks[account] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the mutex for account and drops the table entry when no
// other goroutine is waiting on it.
func (l *accountLocks) Unlock(account string) {
	l.mu.Lock()
	entry := l.locks[account]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, account)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
