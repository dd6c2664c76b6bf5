package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		viper.SetEnvPrefix("entrybase_server")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.SetConfigName("server")
		viper.AddConfigPath("config")
		viper.AddConfigPath("/config")
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = AppConfig{
			General: GeneralConfig{
				LogLevel: viper.GetString("general.log_level"),
			},
			Server: ServerConfig{
				Addr: viper.GetString("server.addr"),
			},
			Postgresql: PostgresqlConfig{
				DSN: viper.GetString("database.dsn"),
			},
			Cache: CacheConfig{
				Backend:       viper.GetString("cache.backend"),
				RedisAddr:     viper.GetString("cache.redis_addr"),
				RedisPassword: viper.GetString("cache.redis_password"),
				RedisDB:       viper.GetInt("cache.redis_db"),
			},
			Auth: AuthConfig{
				SessionTTL: viper.GetDuration("auth.session_ttl"),
				Tokens:     loadTokens(),
			},
		}
	})

	return configInstance
}

func loadTokens() []TokenConfig {
	var raw []struct {
		Token       string   `mapstructure:"token"`
		ID          string   `mapstructure:"id"`
		Name        string   `mapstructure:"name"`
		Permissions []string `mapstructure:"permissions"`
	}
	if err := viper.UnmarshalKey("auth.tokens", &raw); err != nil {
		panic(fmt.Errorf("fatal error auth tokens: %w", err))
	}

	tokens := make([]TokenConfig, len(raw))
	for i, entry := range raw {
		tokens[i] = TokenConfig(entry)
	}
	return tokens
}

type AppConfig struct {
	General    GeneralConfig
	Server     ServerConfig
	Postgresql PostgresqlConfig
	Cache      CacheConfig
	Auth       AuthConfig
}

type GeneralConfig struct {
	LogLevel string
}

type ServerConfig struct {
	Addr string
}

type PostgresqlConfig struct {
	DSN string
}

type CacheConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type AuthConfig struct {
	SessionTTL time.Duration
	Tokens     []TokenConfig
}

type TokenConfig struct {
	Token       string
	ID          string
	Name        string
	Permissions []string
}
