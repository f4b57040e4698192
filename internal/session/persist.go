package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	service = "recipes-cli"
)

// Persister keeps a session across process runs
type Persister interface {
	// Load returns nil, nil when nothing is stored
	Load() (*Session, error)
	Save(sess Session) error
	Delete() error
}

// KeyringPersister stores the session in the OS keychain/credential manager
type KeyringPersister struct {
	key string
}

// NewKeyringPersister returns a persister keyed by identity provider URL,
// so sessions for different projects don't collide
func NewKeyringPersister(identityURL string) *KeyringPersister {
	return &KeyringPersister{key: getKeyringKey(identityURL)}
}

// getKeyringKey returns a unique key for storing sessions per identity provider
func getKeyringKey(identityURL string) string {
	return fmt.Sprintf("session-%s", identityURL)
}

// Load retrieves the session from the OS keychain/credential manager
func (k *KeyringPersister) Load() (*Session, error) {
	data, err := keyring.Get(service, k.key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode stored session: %w", err)
	}
	return &sess, nil
}

// Save persists the session securely in the OS keychain/credential manager
func (k *KeyringPersister) Save(sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := keyring.Set(service, k.key, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session from the OS keychain/credential manager
func (k *KeyringPersister) Delete() error {
	if err := keyring.Delete(service, k.key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// MemoryPersister keeps the session for the life of the process
type MemoryPersister struct {
	mu   sync.Mutex
	sess *Session
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (m *MemoryPersister) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess == nil {
		return nil, nil
	}
	copied := *m.sess
	return &copied, nil
}

func (m *MemoryPersister) Save(sess Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = &sess
	return nil
}

func (m *MemoryPersister) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}
