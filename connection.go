package sqlbridge

import (
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// ConnectionManager resolves database names to live backend handles,
// memoizing one handle per name for the lifetime of the bridge. Handle
// construction happens under the lock, so concurrent callers for the same
// unmemoized name converge on a single handle.
type ConnectionManager struct {
	store      *ConfigStore
	httpClient *http.Client

	mu      sync.Mutex
	handles map[string]Backend
}

// NewConnectionManager creates a manager over the given store. httpClient
// is optional and shared by all remote backends when set.
func NewConnectionManager(store *ConfigStore, httpClient *http.Client) *ConnectionManager {
	return &ConnectionManager{
		store:      store,
		httpClient: httpClient,
		handles:    map[string]Backend{},
	}
}

// Get returns the memoized handle for name, constructing it on first use.
// Unknown names fail with *ConfigurationError and leave no handle behind.
func (m *ConnectionManager) Get(name string) (Backend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.handles[name]; ok {
		return h, nil
	}

	profile, err := m.store.Get(name)
	if err != nil {
		return nil, err
	}
	profile = resolveProfile(profile)

	settings := m.store.Settings()
	var backend Backend
	switch profile.Type {
	case types.BackendLocal:
		backend, err = NewLocalBackend(profile, settings.MaxConnections)
		if err != nil {
			var cfgErr *ConfigurationError
			if errors.As(err, &cfgErr) {
				return nil, err
			}
			return nil, &ConnectionError{Database: name, Err: err}
		}
	case types.BackendRemote:
		remote := m.store.Remote()
		remote.AccountID = ResolveCredential(remote.AccountID)
		remote.APIToken = ResolveCredential(remote.APIToken)
		timeout := time.Duration(settings.QueryTimeout) * time.Second
		backend = NewRemoteBackend(remote, profile.DatabaseID, timeout, m.httpClient)
	default:
		return nil, &ConfigurationError{Database: name, Reason: "unsupported backend type: " + profile.Type}
	}

	m.handles[name] = backend
	return backend, nil
}

// Handles lists the names with a live handle, sorted.
func (m *ConnectionManager) Handles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.handles))
	for name := range m.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases every handle that owns an underlying resource and clears
// the handle map.
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for name, h := range m.handles {
		if closer, ok := h.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(m.handles, name)
	}
	return firstErr
}
