package types

// Backend kinds accepted in DatabaseProfile.Type.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// DatabaseProfile is one named entry of the database registry.
// Profiles are immutable after load; credential placeholders of the form
// ${NAME} are expanded at the point of use, never in the stored registry.
type DatabaseProfile struct {
	Name string `json:"-"`
	Type string `json:"type"` // local or remote

	// Local backends: sqlite uses Path, other engines use Driver + DSN.
	Path   string `json:"path,omitempty"`
	Driver string `json:"driver,omitempty"`
	DSN    string `json:"dsn,omitempty"`

	// Remote backends
	DatabaseID string `json:"database_id,omitempty"`

	ReadOnly bool `json:"read_only"`
}

// RemoteRegistry holds account-level settings shared by all remote databases.
type RemoteRegistry struct {
	AccountID string `json:"account_id"`
	APIToken  string `json:"api_token"`
	// Endpoint, when set, overrides the default per-database base URL.
	Endpoint  string            `json:"endpoint,omitempty"`
	Databases map[string]string `json:"databases"`
}

// Settings are the global knobs of the bridge.
type Settings struct {
	QueryTimeout   int  `json:"query_timeout"` // seconds
	MaxConnections int  `json:"max_connections"`
	CacheEnabled   bool `json:"cache_enabled"`
	CacheTTL       int  `json:"cache_ttl"` // seconds
	LogQueries     bool `json:"log_queries"`
}

// Registry is the persisted configuration document.
type Registry struct {
	Databases      map[string]DatabaseProfile `json:"databases"`
	RemoteRegistry RemoteRegistry             `json:"remote_registry"`
	Settings       Settings                   `json:"settings"`
}
