package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix = "JATRACK"

	defaultServerURL    = "http://localhost:8080"
	defaultHTTPAddress  = "0.0.0.0:8080"
	defaultDatabasePath = "jatrack.db"
	defaultLogLevel     = "info"
	defaultPageSize     = 10
	defaultTokenTTLMin  = 24 * 60
)

// AppConfig captures runtime configuration for both the client commands and
// the bundled API server.
type AppConfig struct {
	// Client side.
	ServerURL string
	TokenPath string
	PageSize  int
	LogPath   string

	// Server side (jatrack serve).
	HTTPAddress   string
	DatabasePath  string
	SigningSecret string
	TokenTTLMin   int

	LogLevel string
}

// NewViper returns a viper instance with defaults and env bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults configures defaults and JATRACK_* env bindings.
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.url", defaultServerURL)
	v.SetDefault("token.path", defaultTokenPath())
	v.SetDefault("page.size", defaultPageSize)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.path", defaultLogPath())

	v.SetDefault("http.address", defaultHTTPAddress)
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("auth.signing_secret", "jatrack-dev-secret")
	v.SetDefault("auth.token_ttl_minutes", defaultTokenTTLMin)
}

// Load parses runtime configuration from viper.
func Load(v *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		ServerURL:     v.GetString("server.url"),
		TokenPath:     v.GetString("token.path"),
		PageSize:      v.GetInt("page.size"),
		LogPath:       v.GetString("log.path"),
		HTTPAddress:   v.GetString("http.address"),
		DatabasePath:  v.GetString("database.path"),
		SigningSecret: v.GetString("auth.signing_secret"),
		TokenTTLMin:   v.GetInt("auth.token_ttl_minutes"),
		LogLevel:      v.GetString("log.level"),
	}
	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server.url is required")
	}
	if strings.TrimSpace(c.TokenPath) == "" {
		return fmt.Errorf("token.path is required")
	}
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page.size must be positive")
	}
	return nil
}

func defaultTokenPath() string {
	return filepath.Join(homeDir(), ".jatrack", "token")
}

func defaultLogPath() string {
	return filepath.Join(homeDir(), ".jatrack", "jatrack.log")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
