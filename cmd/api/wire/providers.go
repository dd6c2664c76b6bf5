package wire

import (
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"entrybase-server/cmd/config"
	authusecases "entrybase-server/internal/auth/usecases"
	"entrybase-server/internal/catalog"
	entryusecases "entrybase-server/internal/entry/usecases"
	"entrybase-server/internal/infra/cache"
	"entrybase-server/internal/infra/sql"
)

func provideAppConfig() config.AppConfig {
	return config.LoadConfig()
}

var (
	databaseOnce     sync.Once
	databaseInstance sql.ORM
	databaseErr      error
)

// provideDatabase hands every injector the same ORM so the process holds a
// single pool. Local runs get the in-memory database.
func provideDatabase(cfg config.AppConfig) (sql.ORM, error) {
	databaseOnce.Do(func() {
		env, ok := os.LookupEnv("ENV")
		if !ok {
			env = "production"
		}

		if env == "local" {
			databaseInstance, databaseErr = sql.NewMemoryORM()
			return
		}

		databaseInstance, databaseErr = sql.NewPosgreORM(cfg.Postgresql.DSN)
	})

	return databaseInstance, databaseErr
}

var (
	cacheOnce     sync.Once
	cacheInstance cache.Cache
	cacheErr      error
)

func provideCache(cfg config.AppConfig) (cache.Cache, error) {
	cacheOnce.Do(func() {
		if cfg.Cache.Backend == "redis" {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Cache.RedisAddr,
				Password: cfg.Cache.RedisPassword,
				DB:       cfg.Cache.RedisDB,
			})
			cacheInstance, cacheErr = cache.NewRedisCache(cache.NewRedisClient(client))
			return
		}

		cacheInstance, cacheErr = cache.New(cache.DefaultConfig())
	})

	return cacheInstance, cacheErr
}

var (
	registryOnce     sync.Once
	registryInstance *entryusecases.SimpleSchemaRegistry
	registryErr      error
)

// provideRegistry builds the schema registry once and applies the bundled
// catalog to it.
func provideRegistry() (*entryusecases.SimpleSchemaRegistry, error) {
	registryOnce.Do(func() {
		registryInstance = entryusecases.NewSchemaRegistry()

		bundle, err := catalog.DefaultBundle()
		if err != nil {
			registryErr = err
			return
		}

		registryErr = bundle.Apply(registryInstance)
	})

	return registryInstance, registryErr
}

func provideTokenResolver(cfg config.AppConfig) *authusecases.StaticTokenResolver {
	tokens := make([]authusecases.StaticToken, len(cfg.Auth.Tokens))
	for i, entry := range cfg.Auth.Tokens {
		tokens[i] = authusecases.StaticToken{
			Token:       entry.Token,
			ID:          entry.ID,
			Name:        entry.Name,
			Permissions: entry.Permissions,
		}
	}

	return authusecases.NewStaticTokenResolver(tokens)
}

func provideSessionTTL(cfg config.AppConfig) time.Duration {
	if cfg.Auth.SessionTTL <= 0 {
		return 24 * time.Hour
	}
	return cfg.Auth.SessionTTL
}
