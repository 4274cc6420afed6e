package printer

import "sync"

// lockTable maps printer addresses to dedicated mutexes, created lazily.
// Scoping the lock to the printer identity keeps same-printer sends ordered
// without serializing the whole fleet.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (t *lockTable) get(addr string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.locks == nil {
		t.locks = make(map[string]*sync.Mutex)
	}
	if mu, ok := t.locks[addr]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	t.locks[addr] = mu
	return mu
}
