package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk CLI configuration, loaded from
// ~/.config/minimalloc/config.toml (or $XDG_CONFIG_HOME/minimalloc/config.toml).
//
// Example:
//
//	[cache]
//	dir = "/var/cache/minimalloc"
//
//	[server]
//	addr = ":9090"
//
//	[server.redis]
//	addr = "localhost:6379"
//
//	[server.mongo]
//	uri = "mongodb://localhost:27017"
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig configures the local result cache.
type CacheConfig struct {
	// Dir overrides the default cache directory.
	Dir string `toml:"dir"`

	// Disabled turns off caching entirely.
	Disabled bool `toml:"disabled"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// Redis enables the Redis cache backend when Addr is set.
	Redis RedisConfig `toml:"redis"`

	// Mongo enables the MongoDB run archive when URI is set.
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
	}
}

// ConfigPath returns the path of the config file.
func ConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the default configuration.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return DefaultConfig(), fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	return cfg, nil
}
