// Package config loads batchload settings from a config file, the
// environment and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem used for .env lookups and CSV input.
var AppFs = afero.NewOsFs()

const (
	fileName  = ".batchload"
	envPrefix = "BATCHLOAD"
)

// Config holds the application configuration.
type Config struct {
	Provider       string        `mapstructure:"provider" validate:"required,oneof=mysql postgres postgresql sqlite sqlite3 mariadb"`
	DatabaseURL    string        `mapstructure:"database_url" validate:"required"`
	BatchSize      int           `mapstructure:"batch_size" validate:"gte=1"`
	Existence      string        `mapstructure:"existence" validate:"oneof=per-record bulk"`
	KeyChunk       int           `mapstructure:"key_chunk" validate:"gte=1"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gte=0"`
	MaxConnections int           `mapstructure:"max_connections" validate:"gte=0"`
	Verbose        bool          `mapstructure:"verbose"`
}

// New returns a viper instance with defaults, search paths and environment
// binding set up. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()

	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "batchload"))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("batch_size", 5)
	v.SetDefault("existence", "per-record")
	v.SetDefault("key_chunk", 500)
	v.SetDefault("connect_timeout", 10*time.Second)
	v.SetDefault("max_connections", 0)

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"provider", "database_url", "verbose"} {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads .env files, the config file (explicit path or the search
// paths), and unmarshals the result. A missing config file in the search
// paths is not an error; a missing explicit one is.
func Load(v *viper.Viper, path string) (*Config, error) {
	loadDotEnv()

	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// DATABASE_URL is honoured the way other database tools do.
	if v.GetString("database_url") == "" {
		if url := os.Getenv("DATABASE_URL"); url != "" {
			v.Set("database_url", url)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv loads .env, then .env.local with higher priority. Variables
// already set in the environment win over .env but not over .env.local.
func loadDotEnv() {
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg and reports every failing field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	key := keyFor(fe.StructField())
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", key, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", key, fe.Tag())
	}
}

var keys = map[string]string{
	"Provider":       "provider",
	"DatabaseURL":    "database_url",
	"BatchSize":      "batch_size",
	"Existence":      "existence",
	"KeyChunk":       "key_chunk",
	"ConnectTimeout": "connect_timeout",
	"MaxConnections": "max_connections",
}

func keyFor(field string) string {
	if k, ok := keys[field]; ok {
		return k
	}
	return field
}

// Save writes the persistent settings to $HOME/.config/batchload.
func Save(cfg *Config) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "batchload")
	if err := AppFs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.Set("provider", cfg.Provider)
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("batch_size", cfg.BatchSize)
	v.Set("existence", cfg.Existence)

	path := filepath.Join(dir, fileName+".yaml")
	return path, v.WriteConfigAs(path)
}
