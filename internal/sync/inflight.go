package sync

import stdsync "sync"

// inFlight tracks which users have a sync attempt running, so concurrent
// triggers for the same account are rejected instead of interleaved.
type inFlight struct {
	mu    stdsync.Mutex
	users map[string]bool
}

func (f *inFlight) acquire(userUUID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.users == nil {
		f.users = make(map[string]bool)
	}
	if f.users[userUUID] {
		return false
	}
	f.users[userUUID] = true
	return true
}

func (f *inFlight) release(userUUID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, userUUID)
}
