package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tjfontaine/mrr-go/internal/api/mrr"
)

// DefaultFile is read when no explicit path is given. Its absence is not an error.
const DefaultFile = "mrr.yaml"

// EnvPrefix prefixes every environment override; "__" separates levels,
// e.g. MRR_API__SECRET or MRR_JOURNAL__PATH.
const EnvPrefix = "MRR_"

type Config struct {
	API       APIConfig       `koanf:"api"`
	TLS       TLSConfig       `koanf:"tls"`
	HTTP      HTTPConfig      `koanf:"http"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Journal   JournalConfig   `koanf:"journal"`
}

type APIConfig struct {
	Key         string        `koanf:"key"`
	Secret      string        `koanf:"secret"`
	BaseURL     string        `koanf:"base_url"`
	Timeout     time.Duration `koanf:"timeout"`
	Decode      bool          `koanf:"decode"`
	Pretty      bool          `koanf:"pretty"`
	PrintOutput bool          `koanf:"print_output"`
}

type TLSConfig struct {
	// InsecureSkipVerify turns off certificate checks. Never enable against the live API.
	InsecureSkipVerify bool `koanf:"insecure_skip_verify"`
}

type HTTPConfig struct {
	// DenyPrivate refuses private and loopback peers. With HTTPS_PROXY set,
	// the API host is checked and the proxy itself may be private.
	DenyPrivate bool `koanf:"deny_private"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

// JournalConfig controls the local call history. An empty Path disables it.
type JournalConfig struct {
	Path string `koanf:"path"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads path (or DefaultFile when path is empty), then environment
// overrides, then fills defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// A missing default file is fine, we'll use env vars
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	// Load environment variables (can override file config)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	defaults := map[string]any{
		"api.base_url":           mrr.DefaultBaseURL,
		"api.timeout":            "30s",
		"api.decode":             true,
		"http.deny_private":      true,
		"log.level":              "info",
		"log.format":             "text",
		"telemetry.service_name": "mrr",
	}
	for key, v := range defaults {
		if !k.Exists(key) {
			k.Set(key, v)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.API.Key = substituteEnvVars(cfg.API.Key)
	cfg.API.Secret = substituteEnvVars(cfg.API.Secret)
	cfg.Journal.Path = substituteEnvVars(cfg.Journal.Path)

	return &cfg, nil
}

// ValidateAPI checks what is needed to sign requests.
func (c *Config) ValidateAPI() error {
	if c.API.Key == "" {
		return errors.New("api.key is required (set MRR_API__KEY)")
	}
	if c.API.Secret == "" {
		return errors.New("api.secret is required (set MRR_API__SECRET)")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	return nil
}

// SlogLevel maps Level to a slog level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
