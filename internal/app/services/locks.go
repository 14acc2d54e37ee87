package services

import "sync"

// ActionLocks serializes check-then-act sequences per action id. Join and
// reaction toggles read the current state before writing; without the lock
// two concurrent joins could both pass the capacity check.
//
// Entries are never evicted: the map holds one mutex per action id ever
// locked, a few dozen bytes each, bounded in practice by the catalog size.
type ActionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewActionLocks() *ActionLocks {
	return &ActionLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given action id, creating it on first use.
// The returned function releases it.
func (l *ActionLocks) Lock(actionID string) func() {
	l.mu.Lock()
	m, ok := l.locks[actionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[actionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
