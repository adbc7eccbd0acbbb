/*
Package config loads server configuration from a TOML file.

PURPOSE:
  Everything the server binary needs beyond its flags lives here: the
  listen port, the SQLite path, the optional Redis result cache and the
  engine's period cap. A missing file is not an error - the defaults
  describe a fully working single-binary deployment.

USAGE:
  cfg, err := config.Load("payoff.toml")

EXAMPLE FILE:
  [server]
  port = 8080
  cors_origins = ["http://localhost:5173"]

  [database]
  path = "payoff.db"

  [cache]
  redis_addr = "localhost:6379"
  ttl_minutes = 60

  [engine]
  period_cap = 600
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Cache    CacheConfig    `toml:"cache"`
	Engine   EngineConfig   `toml:"engine"`
}

type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// CacheConfig selects the plan result cache. An empty RedisAddr means
// the in-process memory cache.
type CacheConfig struct {
	RedisAddr  string `toml:"redis_addr"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

type EngineConfig struct {
	PeriodCap int `toml:"period_cap"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:   ServerConfig{Port: 8080, CORSOrigins: []string{"*"}},
		Database: DatabaseConfig{Path: "payoff.db"},
		Cache:    CacheConfig{TTLMinutes: 60},
		Engine:   EngineConfig{PeriodCap: 600},
	}
}

// Load reads the TOML file at path, layering it over the defaults. A
// nonexistent file returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q in %s", undecoded[0], path)
	}
	return cfg.validate(path)
}

func (c Config) validate(path string) (Config, error) {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid server.port %d in %s", c.Server.Port, path)
	}
	if c.Engine.PeriodCap <= 0 {
		return Config{}, fmt.Errorf("invalid engine.period_cap %d in %s", c.Engine.PeriodCap, path)
	}
	if c.Cache.TTLMinutes < 0 {
		return Config{}, fmt.Errorf("invalid cache.ttl_minutes %d in %s", c.Cache.TTLMinutes, path)
	}
	return c, nil
}
