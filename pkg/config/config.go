// Package config loads topicsheet settings from defaults, a config file,
// TOPICSHEET_* environment variables and command-line flags, in increasing
// order of precedence.
//
// A config file is TOML or YAML:
//
//	log_level = "debug"
//	profile = "~/.config/topicsheet/profile.toml"
//
//	[drafts]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
// Nested keys map to environment variables with "." replaced by "_", so
// drafts.url is TOPICSHEET_DRAFTS_URL.
package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/topicsheet/pkg/api"
	"github.com/matzehuels/topicsheet/pkg/cache"
	"github.com/matzehuels/topicsheet/pkg/drafts"
	"github.com/matzehuels/topicsheet/pkg/errors"
)

const (
	// AppName names the config, cache and data directories.
	AppName = "topicsheet"

	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "TOPICSHEET"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the merged application configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// Profile is an optional TOML layout profile overriding geometry and
	// branding. See LoadProfile.
	Profile string `mapstructure:"profile"`

	HeaderLogo string `mapstructure:"header_logo"`
	FooterLogo string `mapstructure:"footer_logo"`

	Cache  CacheConfig   `mapstructure:"cache"`
	Drafts drafts.Config `mapstructure:"drafts"`
	Server api.Config    `mapstructure:"server"`
}

// CacheConfig selects the render cache.
type CacheConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=none file redis"`
	Dir     string `mapstructure:"dir"`
	URL     string `mapstructure:"url" validate:"required_if=Backend redis"`
	Prefix  string `mapstructure:"prefix"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":   "log_level",
	"profile":     "profile",
	"header-logo": "header_logo",
	"footer-logo": "footer_logo",
	"cache":       "cache.backend",
	"cache-dir":   "cache.dir",
	"cache-url":   "cache.url",
	"drafts":      "drafts.backend",
	"drafts-dir":  "drafts.dir",
	"drafts-url":  "drafts.url",
	"addr":        "server.addr",
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	srv := api.DefaultConfig()

	v.SetDefault("log_level", "info")
	v.SetDefault("profile", "")
	v.SetDefault("header_logo", "")
	v.SetDefault("footer_logo", "")

	v.SetDefault("cache.backend", CacheFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.url", "")
	v.SetDefault("cache.prefix", AppName+":")

	v.SetDefault("drafts.backend", drafts.BackendFile)
	v.SetDefault("drafts.dir", "")
	v.SetDefault("drafts.url", "")
	v.SetDefault("drafts.database", drafts.DefaultMongoDatabase)
	v.SetDefault("drafts.prefix", AppName+":")

	v.SetDefault("server.addr", srv.Addr)
	v.SetDefault("server.read_timeout", srv.ReadTimeout)
	v.SetDefault("server.write_timeout", srv.WriteTimeout)
	v.SetDefault("server.idle_timeout", srv.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", srv.ShutdownTimeout)
	v.SetDefault("server.max_form_bytes", srv.MaxFormBytes)
}

// BindFlags binds the flags of fs that have a config key. Flags that fs
// does not define are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "bind flag --%s", name)
		}
	}
	return nil
}

// Load reads the config file at path, or the first config.{toml,yaml} found
// in the config directory when path is empty, and returns the validated
// configuration. A missing default config file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	cfg.Profile = expandHome(cfg.Profile)
	cfg.HeaderLogo = expandHome(cfg.HeaderLogo)
	cfg.FooterLogo = expandHome(cfg.FooterLogo)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.Drafts.Dir = expandHome(cfg.Drafts.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks the struct tags of the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	return nil
}

// OpenCache creates the configured render cache.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, c.Cache.URL, c.Cache.Prefix)
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// OpenDrafts creates the configured draft store.
func (c *Config) OpenDrafts(ctx context.Context) (drafts.Store, error) {
	return drafts.Open(ctx, c.Drafts)
}

// Dir returns the config directory using the XDG standard
// (~/.config/topicsheet/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/topicsheet/).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
