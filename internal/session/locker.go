package session

import "sync"

// Locker serializes work per participant. Entries are dropped once no
// goroutine holds or waits for them.
type Locker struct {
	mu    sync.Mutex
	locks map[int64]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[int64]*keyLock)}
}

// Lock blocks until owner's lock is held and returns its release func.
func (l *Locker) Lock(owner int64) func() {
	l.mu.Lock()
	k, ok := l.locks[owner]
	if !ok {
		k = &keyLock{}
		l.locks[owner] = k
	}
	k.refs++
	l.mu.Unlock()

	k.mu.Lock()
	return func() {
		k.mu.Unlock()
		l.mu.Lock()
		k.refs--
		if k.refs == 0 {
			delete(l.locks, owner)
		}
		l.mu.Unlock()
	}
}
