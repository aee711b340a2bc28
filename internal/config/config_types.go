package config

// Config is the runtime configuration of the access layer, the CLI and the mock backend.
type Config struct {
	API         APIConfig         `yaml:"api" json:"api"`
	Clients     ClientsConfig     `yaml:"clients" json:"clients"`
	Credentials CredentialsConfig `yaml:"credentials" json:"credentials"`
	Session     SessionConfig     `yaml:"session" json:"session"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics" json:"metrics"`
	MockAPI     MockAPIConfig     `yaml:"mock_api" json:"mock_api"`
}

// APIConfig points at the Yushan backend.
type APIConfig struct {
	BaseURL        string   `yaml:"base_url" json:"base_url"`
	RefreshPath    string   `yaml:"refresh_path" json:"refresh_path"`
	RefreshTimeout Duration `yaml:"refresh_timeout" json:"refresh_timeout"`
}

// ClientsConfig holds one budget per traffic class.
type ClientsConfig struct {
	Default ClientConfig `yaml:"default" json:"default"`
	Heavy   ClientConfig `yaml:"heavy" json:"heavy"`
	Light   ClientConfig `yaml:"light" json:"light"`
}

// ClientConfig is the budget and timeout of one client.
type ClientConfig struct {
	MaxRequests int      `yaml:"max_requests" json:"max_requests"`
	Window      Duration `yaml:"window" json:"window"`
	MaxWait     Duration `yaml:"max_wait" json:"max_wait"`
	Timeout     Duration `yaml:"timeout" json:"timeout"`
}

// CredentialsConfig selects where the session credential is persisted.
type CredentialsConfig struct {
	Backend    string      `yaml:"backend" json:"backend"` // memory | file | redis
	Path       string      `yaml:"path" json:"path"`
	Passphrase string      `yaml:"passphrase" json:"passphrase,omitempty"`
	Watch      bool        `yaml:"watch" json:"watch"`
	Redis      RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig is used when Credentials.Backend is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password,omitempty"`
	DB       int    `yaml:"db" json:"db"`
	Key      string `yaml:"key" json:"key"`
}

// SessionConfig controls the session-expired redirect.
type SessionConfig struct {
	LoginPath string `yaml:"login_path" json:"login_path"`
}

// LoggingConfig configures logrus.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // json | text
	File   string `yaml:"file" json:"file"`
	Debug  bool   `yaml:"debug" json:"debug"`
}

// MetricsConfig exposes Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// MockAPIConfig configures the in-memory backend used for development.
type MockAPIConfig struct {
	Addr           string   `yaml:"addr" json:"addr"`
	Secret         string   `yaml:"secret" json:"secret,omitempty"`
	AccessTokenTTL Duration `yaml:"access_token_ttl" json:"access_token_ttl"`
	RateLimitRPS   int      `yaml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" json:"rate_limit_burst"`
}
