package di

import (
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-cardholder/cache"
	"github.com/goliatone/go-cardholder/service"
	"github.com/goliatone/go-cardholder/storage"
)

// Container provides dependency injection for the record services. It
// manages singleton instances of the cache service, the store, and both
// services, all sharing one cache so cross-entity invalidation (account
// delete cascading into card entries) works.
type Container struct {
	config       cache.Config
	cacheService cache.CacheService
	store        *storage.Store
	accounts     *service.Accounts
	cards        *service.Cards
}

// NewContainer creates a new DI container over the provided database handle
// and cache configuration. A nil logger falls back to slog.Default().
func NewContainer(db *bun.DB, config cache.Config, logger *slog.Logger) (*Container, error) {
	cacheService, err := cache.NewCacheService(config)
	if err != nil {
		return nil, err
	}

	store := storage.New(db, logger)

	return &Container{
		config:       config,
		cacheService: cacheService,
		store:        store,
		accounts:     service.NewAccounts(store, cacheService, logger),
		cards:        service.NewCards(store, cacheService, logger),
	}, nil
}

// NewContainerWithDefaults creates a new DI container using the default
// cache configuration. This is a convenience constructor for typical use
// cases where custom configuration is not required.
func NewContainerWithDefaults(db *bun.DB, logger *slog.Logger) (*Container, error) {
	return NewContainer(db, cache.DefaultConfig(), logger)
}

// Accounts returns the singleton account service instance.
func (c *Container) Accounts() *service.Accounts {
	return c.accounts
}

// Cards returns the singleton card service instance.
func (c *Container) Cards() *service.Cards {
	return c.cards
}

// Store returns the singleton store instance. This allows direct storage
// access for migrations and administrative tooling.
func (c *Container) Store() *storage.Store {
	return c.store
}

// CacheService returns the singleton cache service instance.
// This allows access to the underlying cache for advanced use cases.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// Config returns a copy of the cache configuration used by this container.
// This is useful for debugging and monitoring purposes.
func (c *Container) Config() cache.Config {
	return c.config
}
