// Package di provides dependency injection container
package di

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ssargent/clockstore/pkg/api"    //nolint:depguard
	"github.com/ssargent/clockstore/pkg/config" //nolint:depguard
	"github.com/ssargent/clockstore/pkg/debug"
	"github.com/ssargent/clockstore/pkg/storage"
	"github.com/ssargent/clockstore/pkg/store"
)

// Container holds all the dependencies for the application
type Container struct {
	config   *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	backend  storage.Backend
	sink     *debug.Sink
	bounded  *debug.BoundedCallback
	store    *store.Store
}

// NewContainer wires the backend, debug sink and store described by cfg.
// Store traces go to logger at debug level, through a bounded queue when
// cfg.Debug.Async is set.
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := storage.Open(storage.Kind(cfg.Storage.Backend), cfg.Storage.DataDir)
	if err != nil {
		return nil, errors.Wrap(err, "open storage backend")
	}

	c := &Container{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		backend:  backend,
	}
	c.build()
	return c, nil
}

// build creates the sink and store over the current backend
func (c *Container) build() {
	c.sink = debug.New(store.DefaultTag)
	c.sink.SetEnabled(c.config.Debug.Enabled)

	cb := debug.SlogCallback(c.logger)
	if c.config.Debug.Async && c.config.Debug.Buffer > 0 {
		c.bounded = debug.Bounded(cb, c.config.Debug.Buffer)
		cb = c.bounded.Callback()
	}
	c.sink.SetCallback(cb)

	c.store = store.New(c.backend, store.Config{
		ConfigPath:   c.config.Store.ConfigPath,
		StatsPath:    c.config.Store.StatsPath,
		Sink:         c.sink,
		Metrics:      store.NewMetrics(c.registry),
		StrictDecode: c.config.Store.StrictDecode,
	})
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the application logger
func (c *Container) GetLogger() *slog.Logger {
	return c.logger
}

// GetRegistry returns the Prometheus registry every component registers on
func (c *Container) GetRegistry() *prometheus.Registry {
	return c.registry
}

// GetBackend returns the storage backend
func (c *Container) GetBackend() storage.Backend {
	return c.backend
}

// GetSink returns the store's debug sink
func (c *Container) GetSink() *debug.Sink {
	return c.sink
}

// GetStore returns the configuration and statistics store
func (c *Container) GetStore() *store.Store {
	return c.store
}

// SetBackend swaps the backend and rebuilds the store over it (for testing)
func (c *Container) SetBackend(backend storage.Backend) {
	c.closeBounded()
	c.registry = prometheus.NewRegistry()
	c.backend = backend
	c.build()
}

// NewAPIServer creates the diagnostics server over the container's store
// and registry
func (c *Container) NewAPIServer() *api.Server {
	return api.NewServer(c.store, api.ServerConfig{
		Port:   c.config.Server.Port,
		Bind:   c.config.Server.Bind,
		APIKey: c.config.Server.APIKey,
	}, api.NewMetrics(c.registry), c.registry, c.logger)
}

// Close flushes queued trace lines. It returns the number of lines dropped
// because the queue was full.
func (c *Container) Close() uint64 {
	return c.closeBounded()
}

func (c *Container) closeBounded() uint64 {
	if c.bounded == nil {
		return 0
	}
	c.bounded.Close()
	dropped := c.bounded.Dropped()
	c.bounded = nil
	return dropped
}
