// Package config resolves CLI settings from defaults, an optional config
// file, TWOWAY_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvConfig names the environment variable pointing at a config file.
const EnvConfig = "TWOWAY_CONFIG"

// Config holds application configuration.
type Config struct {
	MaxSteps int `mapstructure:"max_steps"`
	Debug    bool
	Log      LogConfig
	HTTP     HTTPConfig
	MCP      MCPConfig
	Redis    RedisConfig
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	JSON  bool
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr      string
	Metrics   bool
	TraceTTL  time.Duration `mapstructure:"trace_ttl"`
	MaxTraces int           `mapstructure:"max_traces"`
}

// MCPConfig holds the MCP server settings.
type MCPConfig struct {
	Transport string
	Port      int
}

// RedisConfig locates machine definitions stored in Redis.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Flags maps command-line flag names to config keys.
var Flags = map[string]string{
	"max-steps":      "max_steps",
	"debug":          "debug",
	"log-level":      "log.level",
	"log-json":       "log.json",
	"addr":           "http.addr",
	"metrics":        "http.metrics",
	"trace-ttl":      "http.trace_ttl",
	"max-traces":     "http.max_traces",
	"transport":      "mcp.transport",
	"port":           "mcp.port",
	"redis-addr":     "redis.addr",
	"redis-password": "redis.password",
	"redis-db":       "redis.db",
	"redis-prefix":   "redis.key_prefix",
}

// New returns a viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("max_steps", 10000)
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.metrics", true)
	v.SetDefault("http.trace_ttl", 10*time.Minute)
	v.SetDefault("http.max_traces", 1000)
	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("mcp.port", 8080)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "twoway:machine:")

	v.SetEnvPrefix("TWOWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every known flag present in fs to its config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range Flags {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file at path, or at $TWOWAY_CONFIG when path is
// empty, and unmarshals the merged settings. A missing file is an error only
// when it was asked for explicitly.
func Load(v *viper.Viper, path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.MaxSteps <= 0 {
		return Config{}, errors.New("max_steps must be positive")
	}
	return c, nil
}
