package config

import "strings"

// applyEnv overlays YUSHAN_* environment variables onto c.
func (c *Config) applyEnv() {
	setStringFromEnv("YUSHAN_API_BASE_URL", func(v string) { c.API.BaseURL = v })
	setStringFromEnv("YUSHAN_REFRESH_PATH", func(v string) { c.API.RefreshPath = v })
	setDurationFromEnv("YUSHAN_REFRESH_TIMEOUT", func(v Duration) { c.API.RefreshTimeout = v })

	applyClientEnv("DEFAULT", &c.Clients.Default)
	applyClientEnv("HEAVY", &c.Clients.Heavy)
	applyClientEnv("LIGHT", &c.Clients.Light)

	setStringFromEnv("YUSHAN_CREDENTIALS_BACKEND", func(v string) { c.Credentials.Backend = strings.ToLower(v) })
	setStringFromEnv("YUSHAN_CREDENTIALS_PATH", func(v string) { c.Credentials.Path = v })
	setStringFromEnv("YUSHAN_CREDENTIALS_PASSPHRASE", func(v string) { c.Credentials.Passphrase = v })
	setToggleFromEnv("YUSHAN_CREDENTIALS_WATCH", func(v bool) { c.Credentials.Watch = v })
	setStringFromEnv("YUSHAN_REDIS_ADDR", func(v string) { c.Credentials.Redis.Addr = v })
	setStringFromEnv("YUSHAN_REDIS_PASSWORD", func(v string) { c.Credentials.Redis.Password = v })
	setIntFromEnv("YUSHAN_REDIS_DB", func(v int) { c.Credentials.Redis.DB = v })

	setStringFromEnv("YUSHAN_LOGIN_PATH", func(v string) { c.Session.LoginPath = v })

	setStringFromEnv("YUSHAN_LOG_LEVEL", func(v string) { c.Logging.Level = v })
	setStringFromEnv("YUSHAN_LOG_FORMAT", func(v string) { c.Logging.Format = v })
	setStringFromEnv("YUSHAN_LOG_FILE", func(v string) { c.Logging.File = v })
	setToggleFromEnv("YUSHAN_DEBUG", func(v bool) { c.Logging.Debug = v })

	setToggleFromEnv("YUSHAN_METRICS_ENABLED", func(v bool) { c.Metrics.Enabled = v })
	setStringFromEnv("YUSHAN_METRICS_ADDR", func(v string) { c.Metrics.Addr = v })

	setStringFromEnv("YUSHAN_MOCK_ADDR", func(v string) { c.MockAPI.Addr = v })
	setStringFromEnv("YUSHAN_MOCK_SECRET", func(v string) { c.MockAPI.Secret = v })
	setDurationFromEnv("YUSHAN_MOCK_ACCESS_TTL", func(v Duration) { c.MockAPI.AccessTokenTTL = v })
}

func applyClientEnv(name string, cc *ClientConfig) {
	prefix := "YUSHAN_" + name + "_"
	setIntFromEnv(prefix+"MAX_REQUESTS", func(v int) { cc.MaxRequests = v })
	setDurationFromEnv(prefix+"WINDOW", func(v Duration) { cc.Window = v })
	setDurationFromEnv(prefix+"MAX_WAIT", func(v Duration) { cc.MaxWait = v })
	setDurationFromEnv(prefix+"TIMEOUT", func(v Duration) { cc.Timeout = v })
}
