package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// DefaultAPIURL is the base address of a locally running gym API.
const DefaultAPIURL = "http://localhost:8080/api/v1"

type Config struct {
	APIURL         string
	Home           string
	TokenOverride  string
	LogFile        string
	LogLevel       string
	RequestTimeout time.Duration
}

// fileConfig is the optional config.toml in the gymbook home directory.
type fileConfig struct {
	APIURL         string `toml:"api_url"`
	LogFile        string `toml:"log_file"`
	LogLevel       string `toml:"log_level"`
	RequestTimeout string `toml:"request_timeout"`
}

// Load loads configuration from the config file and environment variables.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration from an optional .env file, the optional
// config.toml, and environment variables. Environment wins over the file.
func LoadWithFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	home, err := homeDir()
	if err != nil {
		return nil, err
	}

	fc, err := loadFileConfig(filepath.Join(home, "config.toml"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:        firstNonEmpty(os.Getenv("GYMBOOK_API_URL"), fc.APIURL, DefaultAPIURL),
		Home:          home,
		TokenOverride: os.Getenv("GYMBOOK_TOKEN"),
		LogFile:       firstNonEmpty(os.Getenv("GYMBOOK_LOG_FILE"), fc.LogFile, filepath.Join(home, "gymbook.log")),
		LogLevel:      firstNonEmpty(os.Getenv("GYMBOOK_LOG_LEVEL"), fc.LogLevel, "info"),
	}

	if raw := firstNonEmpty(os.Getenv("GYMBOOK_REQUEST_TIMEOUT"), fc.RequestTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid request timeout %q: %w", raw, err)
		}
		cfg.RequestTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GYMBOOK_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("GYMBOOK_LOG_LEVEL is invalid: %w", err)
	}
	if c.RequestTimeout < 0 {
		return errors.New("GYMBOOK_REQUEST_TIMEOUT must not be negative")
	}
	return nil
}

// TokenFile returns the path of the persisted session token.
func (c *Config) TokenFile() string {
	return filepath.Join(c.Home, "token")
}

// DocsURL returns the API's Swagger UI address on the same host.
func (c *Config) DocsURL() string {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return ""
	}
	u.Path = "/swagger/index.html"
	u.RawQuery = ""
	return u.String()
}

func homeDir() (string, error) {
	if h := os.Getenv("GYMBOOK_HOME"); h != "" {
		return h, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(h, ".gymbook"), nil
}

// loadFileConfig reads path; a missing file yields an empty config.
func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("failed to load config file: %w", err)
	}
	return fc, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
