// Package credstore keeps per-tenant Basic credentials in OS secure storage.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/99designs/keyring"
	"go.uber.org/zap"

	"c8ymcp/pkg/auth"
	"c8ymcp/pkg/tenanturl"
)

var (
	ErrNotFound  = fmt.Errorf("%w: no stored credentials for tenant", auth.ErrNotFound)
	ErrCorrupted = fmt.Errorf("%w: stored credentials for tenant are unreadable", auth.ErrCorruption)
)

// Backend is the subset of keyring.Keyring the store needs. Get must return
// keyring.ErrKeyNotFound for an absent key.
type Backend interface {
	Keys() ([]string, error)
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
	Remove(key string) error
}

// Store maps canonical tenant URLs to Basic credentials. Records are keyed
// by the tenant URL and hold the JSON encoding of auth.Basic.
type Store struct {
	backend Backend
	log     *zap.SugaredLogger
}

func New(backend Backend, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{backend: backend, log: log}
}

// List returns every readable record ordered by tenant URL. Records that do
// not decode are skipped.
func (s *Store) List() ([]auth.Basic, error) {
	keys, err := s.backend.Keys()
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	sort.Strings(keys)
	out := make([]auth.Basic, 0, len(keys))
	for _, k := range keys {
		item, err := s.backend.Get(k)
		if err != nil {
			s.log.Warnw("skipping credential record", "tenant", k, "err", err)
			continue
		}
		cred, err := decode(k, item.Data)
		if err != nil {
			s.log.Warnw("skipping credential record", "tenant", k, "err", err)
			continue
		}
		out = append(out, cred)
	}
	return out, nil
}

// Lookup returns the record for tenantURL after normalizing it.
func (s *Store) Lookup(tenantURL string) (auth.Basic, error) {
	key := tenanturl.Normalize(tenantURL)
	item, err := s.backend.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return auth.Basic{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return auth.Basic{}, fmt.Errorf("lookup %s: %w", key, err)
	}
	cred, err := decode(key, item.Data)
	if err != nil {
		return auth.Basic{}, fmt.Errorf("%w: %s", ErrCorrupted, key)
	}
	return cred, nil
}

// Save writes cred under its normalized tenant URL, replacing any previous
// record for that tenant.
func (s *Store) Save(cred auth.Basic) error {
	cred.TenantURL = tenanturl.Normalize(cred.TenantURL)
	if cred.TenantURL == "" {
		return auth.ErrMissingTenantURL
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	err = s.backend.Set(keyring.Item{
		Key:   cred.TenantURL,
		Data:  data,
		Label: "c8y-mcp " + cred.TenantURL,
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", cred.TenantURL, err)
	}
	s.log.Infow("credentials saved", "tenant", cred.TenantURL, "user", cred.User)
	return nil
}

// Delete removes the record for tenantURL and reports whether one existed.
func (s *Store) Delete(tenantURL string) (bool, error) {
	key := tenanturl.Normalize(tenantURL)
	ok, err := s.Exists(key)
	if err != nil || !ok {
		return false, err
	}
	if err := s.backend.Remove(key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	s.log.Infow("credentials removed", "tenant", key)
	return true, nil
}

// Exists reports whether a record is stored for tenantURL, readable or not.
func (s *Store) Exists(tenantURL string) (bool, error) {
	key := tenanturl.Normalize(tenantURL)
	_, err := s.backend.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, keyring.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("lookup %s: %w", key, err)
	}
}

// decode parses a record; the tenant URL inside the payload must agree with
// the key it was stored under.
func decode(key string, data []byte) (auth.Basic, error) {
	var cred auth.Basic
	if err := json.Unmarshal(data, &cred); err != nil {
		return auth.Basic{}, err
	}
	if tenanturl.Normalize(cred.TenantURL) != key {
		return auth.Basic{}, fmt.Errorf("record names tenant %q", cred.TenantURL)
	}
	cred.TenantURL = key
	return cred, nil
}
