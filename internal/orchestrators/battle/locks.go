package battle

import "sync"

// lockTable hands out one mutex per battle and forgets it once nobody holds
// or waits on it
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*battleLock
}

type battleLock struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*battleLock)}
}

func (t *lockTable) lock(battleID string) (unlock func()) {
	t.mu.Lock()
	l, ok := t.locks[battleID]
	if !ok {
		l = &battleLock{}
		t.locks[battleID] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, battleID)
		}
		t.mu.Unlock()
	}
}

func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
