package ledger

import "sync"

// lockTable hands out one mutex per account id so concurrent mutations of the
// same account serialize while different accounts proceed in parallel.
// Entries are never removed; accounts are few and long-lived.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *lockTable) get(id string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	return m
}

// lock acquires the mutex for one account and returns its release func.
func (t *lockTable) lock(id string) func() {
	m := t.get(id)
	m.Lock()
	return m.Unlock
}

// lockPair acquires both account mutexes in lexicographic id order. The
// global ordering prevents deadlock between transfers that reference the same
// pair of accounts in opposite directions.
func (t *lockTable) lockPair(a, b string) func() {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	m1, m2 := t.get(first), t.get(second)
	m1.Lock()
	m2.Lock()
	return func() {
		m2.Unlock()
		m1.Unlock()
	}
}
