package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
)

const (
	DefaultBaseURL     = "http://localhost:8080/api"
	DefaultRefreshPath = "/auth/refresh"
	DefaultLoginPath   = "/login"
	DefaultMockAddr    = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9464"
)

// Default returns a configuration usable without any file.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			RefreshPath:    DefaultRefreshPath,
			RefreshTimeout: Duration(constants.RefreshTimeout),
		},
		Clients: ClientsConfig{
			Default: ClientConfig{
				MaxRequests: constants.DefaultMaxRequests,
				Window:      Duration(constants.DefaultWindow),
				MaxWait:     Duration(constants.DefaultMaxWait),
				Timeout:     Duration(constants.DefaultClientTimeout),
			},
			Heavy: ClientConfig{
				MaxRequests: constants.HeavyMaxRequests,
				Window:      Duration(constants.HeavyWindow),
				MaxWait:     Duration(constants.HeavyMaxWait),
				Timeout:     Duration(constants.HeavyClientTimeout),
			},
			Light: ClientConfig{
				MaxRequests: constants.LightMaxRequests,
				Window:      Duration(constants.LightWindow),
				MaxWait:     Duration(constants.LightMaxWait),
				Timeout:     Duration(constants.LightClientTimeout),
			},
		},
		Credentials: CredentialsConfig{
			Backend: "file",
			Path:    defaultCredentialPath(),
		},
		Session: SessionConfig{LoginPath: DefaultLoginPath},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Addr: DefaultMetricsAddr},
		MockAPI: MockAPIConfig{
			Addr:           DefaultMockAddr,
			Secret:         "yushan-dev-secret",
			AccessTokenTTL: Duration(15 * time.Minute),
		},
	}
}

func defaultCredentialPath() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "yushan", "credential.json")
	}
	return filepath.Join(".yushan", "credential.json")
}

// fillDefaults replaces zero values left by a partial file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.RefreshPath == "" {
		c.API.RefreshPath = def.API.RefreshPath
	}
	if c.API.RefreshTimeout <= 0 {
		c.API.RefreshTimeout = def.API.RefreshTimeout
	}
	fillClient(&c.Clients.Default, def.Clients.Default)
	fillClient(&c.Clients.Heavy, def.Clients.Heavy)
	fillClient(&c.Clients.Light, def.Clients.Light)
	if c.Credentials.Backend == "" {
		c.Credentials.Backend = def.Credentials.Backend
	}
	if c.Credentials.Path == "" {
		c.Credentials.Path = def.Credentials.Path
	}
	if c.Session.LoginPath == "" {
		c.Session.LoginPath = def.Session.LoginPath
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = def.Metrics.Addr
	}
	if c.MockAPI.Addr == "" {
		c.MockAPI.Addr = def.MockAPI.Addr
	}
	if c.MockAPI.Secret == "" {
		c.MockAPI.Secret = def.MockAPI.Secret
	}
	if c.MockAPI.AccessTokenTTL <= 0 {
		c.MockAPI.AccessTokenTTL = def.MockAPI.AccessTokenTTL
	}
}

func fillClient(dst *ClientConfig, def ClientConfig) {
	if dst.MaxRequests <= 0 {
		dst.MaxRequests = def.MaxRequests
	}
	if dst.Window <= 0 {
		dst.Window = def.Window
	}
	if dst.MaxWait <= 0 {
		dst.MaxWait = def.MaxWait
	}
	if dst.Timeout <= 0 {
		dst.Timeout = def.Timeout
	}
}
