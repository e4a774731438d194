package common

import (
	"fmt"
	"sync"
)

// KeyedMutex serializes work per key. A key is dropped once nobody holds or
// waits for it.
type KeyedMutex struct {
	mutex   sync.Mutex
	mutexes map[string]*refMutex
}

type refMutex struct {
	sync.Mutex

	// refs is guarded by KeyedMutex.mutex.
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{mutexes: make(map[string]*refMutex)}
}

// Lock blocks until key is free and returns the function releasing it.
func (m *KeyedMutex) Lock(key string) func() {
	m.mutex.Lock()
	mu, ok := m.mutexes[key]
	if !ok {
		mu = &refMutex{}
		m.mutexes[key] = mu
	}
	mu.refs++
	m.mutex.Unlock()

	mu.Lock()
	return func() {
		mu.Unlock()

		m.mutex.Lock()
		defer m.mutex.Unlock()
		mu.refs--
		if mu.refs == 0 {
			delete(m.mutexes, key)
		}
	}
}

// size returns the number of keys held or waited for.
func (m *KeyedMutex) size() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.mutexes)
}

func MemberLockKey(communityID, userID int64) string {
	return fmt.Sprintf("member:%d:%d", communityID, userID)
}

func JoinLockKey(communityID, userID int64) string {
	return fmt.Sprintf("join:%d:%d", communityID, userID)
}

func LinkLockKey(communityID, userID int64) string {
	return fmt.Sprintf("link:%d:%d", communityID, userID)
}
