package service

import "sync"

// ownerLocks serializes mutations per owner so that check-then-write
// sequences cannot interleave and projected views are broadcast in commit
// order. Entries are reference counted and removed when idle.
type ownerLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{entries: make(map[string]*lockEntry)}
}

func (l *ownerLocks) lock(owner string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.entries[owner]
	if !ok {
		entry = &lockEntry{}
		l.entries[owner] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, owner)
		}
		l.mu.Unlock()
	}
}
