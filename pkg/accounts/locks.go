package accounts

import "sync"

// keyedLock serializes operations per key (account email). Entries are
// reference counted so the map does not grow with the number of accounts
// ever seen.
type keyedLock struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{
		entries: map[string]*lockEntry{},
	}
}

func (kl *keyedLock) Lock(key string) {
	kl.mu.Lock()
	entry, ok := kl.entries[key]
	if !ok {
		entry = &lockEntry{}
		kl.entries[key] = entry
	}
	entry.refs++
	kl.mu.Unlock()

	entry.mu.Lock()
}

func (kl *keyedLock) Unlock(key string) {
	kl.mu.Lock()
	entry := kl.entries[key]
	entry.refs--
	if entry.refs < 1 {
		delete(kl.entries, key)
	}
	kl.mu.Unlock()

	entry.mu.Unlock()
}
