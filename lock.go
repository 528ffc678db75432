package godeco

import "sync"

// lockManager hands out one mutex per class name, so that two goroutines
// asking for the same class definition serialize while definitions of
// unrelated classes proceed concurrently.
type lockManager struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockManager() *lockManager {
	return &lockManager{
		locks: make(map[string]*sync.Mutex),
	}
}

func (lm *lockManager) GetLockFor(class string) *sync.Mutex {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lock, exists := lm.locks[class]; exists {
		return lock
	}

	lock := &sync.Mutex{}
	lm.locks[class] = lock
	return lock
}

func (lm *lockManager) ReleaseLock(class string) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	delete(lm.locks, class)
}
