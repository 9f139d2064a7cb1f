package sqlbridge

import (
	"log/slog"
	"net/http"
)

// Options configures a Bridge.
type Options struct {
	// ConfigPath locates the registry file (default: DefaultConfigPath()).
	ConfigPath string

	// Logger receives structured log output (default: slog.Default()).
	Logger *slog.Logger

	// HTTPClient is shared by all remote backends. When nil each remote
	// backend builds its own client with the configured query timeout.
	HTTPClient *http.Client

	// CacheCapacity bounds the query cache (default: 1024 entries).
	CacheCapacity int
}

// Option mutates Options during New.
type Option func(*Options)

// WithConfigPath sets the registry file location.
func WithConfigPath(path string) Option {
	return func(o *Options) { o.ConfigPath = path }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithHTTPClient sets the shared client for remote backends.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) { o.HTTPClient = client }
}

// WithCacheCapacity bounds the query cache entry count.
func WithCacheCapacity(n int) Option {
	return func(o *Options) { o.CacheCapacity = n }
}

// withDefaults applies default values to Options.
func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
