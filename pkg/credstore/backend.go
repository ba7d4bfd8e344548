package credstore

import (
	"fmt"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

const DefaultService = "c8y-mcp"

type KeyringConfig struct {
	// Service is the fixed identifier all records are stored under.
	Service string
	// Backend restricts the keyring to one backend type, e.g. "file" or
	// "secret-service". Empty lets the platform pick.
	Backend string
	// FileDir and FilePassword configure the encrypted file backend.
	FileDir      string
	FilePassword string
}

// OpenKeyring opens the OS keyring for cfg.Service.
func OpenKeyring(cfg KeyringConfig) (Backend, error) {
	if cfg.Service == "" {
		cfg.Service = DefaultService
	}
	kc := keyring.Config{
		ServiceName:              cfg.Service,
		KeychainName:             "login",
		KeychainTrustApplication: true,
		LibSecretCollectionName:  "login",
		KWalletAppID:             cfg.Service,
		KWalletFolder:            cfg.Service,
		WinCredPrefix:            cfg.Service,
		FileDir:                  cfg.FileDir,
	}
	if kc.FileDir == "" {
		kc.FileDir = "~/." + cfg.Service + "/keyring"
	}
	if cfg.FilePassword != "" {
		kc.FilePasswordFunc = keyring.FixedStringPrompt(cfg.FilePassword)
	} else {
		kc.FilePasswordFunc = keyring.TerminalPrompt
	}
	if cfg.Backend != "" {
		bt := keyring.BackendType(strings.ToLower(cfg.Backend))
		if !supported(bt) {
			return nil, fmt.Errorf("keyring backend %q is not available on this platform", cfg.Backend)
		}
		kc.AllowedBackends = []keyring.BackendType{bt}
	}
	kr, err := keyring.Open(kc)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return kr, nil
}

func supported(bt keyring.BackendType) bool {
	for _, b := range keyring.AvailableBackends() {
		if b == bt {
			return true
		}
	}
	return false
}

// memoryBackend guards a keyring.ArrayKeyring, which is not safe for
// concurrent use on its own.
type memoryBackend struct {
	mu sync.Mutex
	kr *keyring.ArrayKeyring
}

// NewMemoryBackend returns a process-local backend. Records do not survive
// the process.
func NewMemoryBackend(initial ...keyring.Item) Backend {
	return &memoryBackend{kr: keyring.NewArrayKeyring(initial)}
}

func (m *memoryBackend) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kr.Keys()
}

func (m *memoryBackend) Get(key string) (keyring.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kr.Get(key)
}

func (m *memoryBackend) Set(item keyring.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kr.Set(item)
}

func (m *memoryBackend) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kr.Remove(key)
}
