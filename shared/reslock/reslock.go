package reslock

import "sync"

// Locker serializes booking admission per resource. Create paths hold the
// resource lock across "load existing bookings, check conflict, persist",
// so two concurrent requests for the same resource can never both observe
// an empty conflict set.
type Locker interface {
	Lock(resourceID string) (unlock func())
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() Locker {
	return &keyedMutex{
		locks: map[string]*entry{},
	}
}

func (k *keyedMutex) Lock(resourceID string) func() {
	k.mu.Lock()

	e, ok := k.locks[resourceID]
	if !ok {
		e = &entry{}
		k.locks[resourceID] = e
	}

	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()

		e.refs--
		if e.refs == 0 {
			delete(k.locks, resourceID)
		}

		k.mu.Unlock()
	}
}
