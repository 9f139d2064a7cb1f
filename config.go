package sqlbridge

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/dracory/env"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// DefaultConfigPath returns the registry file location. SQLBRIDGE_CONFIG
// overrides the default of ~/.sqlbridge/config.json.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return env.GetStringOrDefault("SQLBRIDGE_CONFIG", filepath.Join(home, ".sqlbridge", "config.json"))
}

// ConfigStore loads and persists the named-database registry and global
// settings. The first-run bootstrap write is the only disk mutation this
// component performs.
type ConfigStore struct {
	path string

	mu  sync.RWMutex
	reg types.Registry
}

// NewConfigStore creates a store bound to the given file path. An empty
// path selects DefaultConfigPath.
func NewConfigStore(path string) *ConfigStore {
	if path == "" {
		path = DefaultConfigPath()
	}
	return &ConfigStore{path: path}
}

// Load reads the persisted registry or, when the file is absent,
// materializes and persists the default registry.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		reg := defaultRegistry(filepath.Dir(s.path))
		if err := s.persist(reg); err != nil {
			return err
		}
		s.reg = reg
		return nil
	}

	var reg types.Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return err
	}
	if reg.Databases == nil {
		reg.Databases = map[string]types.DatabaseProfile{}
	}
	s.reg = reg
	return nil
}

// persist writes the registry with 0600 permissions. Caller holds the lock.
func (s *ConfigStore) persist(reg types.Registry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

// Get returns the profile registered under name.
func (s *ConfigStore) Get(name string) (types.DatabaseProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.reg.Databases[name]
	if !ok {
		return types.DatabaseProfile{}, &ConfigurationError{Database: name, Reason: "not configured"}
	}
	p.Name = name
	return p, nil
}

// Settings returns the global settings block.
func (s *ConfigStore) Settings() types.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Settings
}

// Remote returns the shared remote-backend registry.
func (s *ConfigStore) Remote() types.RemoteRegistry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.RemoteRegistry
}

// Sanitized returns a copy of the registry with credentials stripped.
// Suitable for the read-only resource surface.
func (s *ConfigStore) Sanitized() types.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := types.Registry{
		Databases: make(map[string]types.DatabaseProfile, len(s.reg.Databases)),
		RemoteRegistry: types.RemoteRegistry{
			AccountID: s.reg.RemoteRegistry.AccountID,
			Endpoint:  s.reg.RemoteRegistry.Endpoint,
			Databases: map[string]string{},
		},
		Settings: s.reg.Settings,
	}
	for name, p := range s.reg.Databases {
		p.Name = name
		p.DSN = "" // may embed a password
		out.Databases[name] = p
	}
	for name, id := range s.reg.RemoteRegistry.Databases {
		out.RemoteRegistry.Databases[name] = id
	}
	return out
}

// defaultRegistry is the first-run configuration: one local sqlite database
// named "default", an empty remote registry with credential placeholders,
// and conservative settings.
func defaultRegistry(dir string) types.Registry {
	return types.Registry{
		Databases: map[string]types.DatabaseProfile{
			"default": {
				Type:     types.BackendLocal,
				Path:     filepath.Join(dir, "default.db"),
				ReadOnly: false,
			},
		},
		RemoteRegistry: types.RemoteRegistry{
			AccountID: "${SQLBRIDGE_ACCOUNT_ID}",
			APIToken:  "${SQLBRIDGE_API_TOKEN}",
			Databases: map[string]string{},
		},
		Settings: types.Settings{
			QueryTimeout:   30,
			MaxConnections: 10,
			CacheEnabled:   true,
			CacheTTL:       300,
			LogQueries:     true,
		},
	}
}
