package auth

import "sync"

// MemoryKeyring is an in-process Keyring. The real shell injects its own
// secure-storage implementation; this one backs tests and the terminal
// client, where sessions last for the process only.
type MemoryKeyring struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKeyring creates an empty keyring.
func NewMemoryKeyring() *MemoryKeyring {
	return &MemoryKeyring{values: make(map[string]string)}
}

// Get returns the stored value or ErrKeyNotFound.
func (k *MemoryKeyring) Get(key string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	value, ok := k.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set stores a value.
func (k *MemoryKeyring) Set(key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = value
	return nil
}

// Delete removes a key. Absent keys are not an error.
func (k *MemoryKeyring) Delete(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.values, key)
	return nil
}
