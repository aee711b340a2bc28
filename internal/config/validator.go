package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s=%s]: %s", e.Field, e.Value, e.Message)
}

// ValidationResult holds the results of configuration validation
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
	Valid    bool
}

// AddError adds a validation error
func (r *ValidationResult) AddError(field, value, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message})
	r.Valid = false
}

// AddWarning adds a validation warning
func (r *ValidationResult) AddWarning(field, value, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: message})
}

// Err joins all errors, or returns nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// Validate checks the configuration.
func (c *Config) Validate() ValidationResult {
	result := ValidationResult{Valid: true}

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		result.AddError("api.base_url", c.API.BaseURL, "must be an absolute http(s) URL")
	} else if u.Scheme != "http" && u.Scheme != "https" {
		result.AddError("api.base_url", c.API.BaseURL, "scheme must be http or https")
	} else if u.Scheme == "http" && !isLocalHost(u.Hostname()) {
		result.AddWarning("api.base_url", c.API.BaseURL, "credentials will be sent over plain http")
	}
	if !strings.HasPrefix(c.API.RefreshPath, "/") {
		result.AddError("api.refresh_path", c.API.RefreshPath, "must start with /")
	}

	validateClient(&result, "clients.default", c.Clients.Default)
	validateClient(&result, "clients.heavy", c.Clients.Heavy)
	validateClient(&result, "clients.light", c.Clients.Light)

	switch c.Credentials.Backend {
	case "memory":
	case "file":
		if c.Credentials.Path == "" {
			result.AddError("credentials.path", "", "required for the file backend")
		}
		if c.Credentials.Passphrase == "" {
			result.AddWarning("credentials.passphrase", "", "credential file will be stored unencrypted")
		}
	case "redis":
		if c.Credentials.Redis.Addr == "" {
			result.AddError("credentials.redis.addr", "", "required for the redis backend")
		}
	default:
		result.AddError("credentials.backend", c.Credentials.Backend, "must be memory, file or redis")
	}

	if !strings.HasPrefix(c.Session.LoginPath, "/") {
		result.AddError("session.login_path", c.Session.LoginPath, "must start with /")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		result.AddError("logging.format", c.Logging.Format, "must be json or text")
	}
	return result
}

func validateClient(result *ValidationResult, field string, cc ClientConfig) {
	if cc.MaxRequests <= 0 {
		result.AddError(field+".max_requests", fmt.Sprint(cc.MaxRequests), "must be positive")
	}
	if cc.Window <= 0 {
		result.AddError(field+".window", cc.Window.D().String(), "must be positive")
	}
	if cc.Timeout <= 0 {
		result.AddError(field+".timeout", cc.Timeout.D().String(), "must be positive")
	}
	if cc.MaxWait < 0 {
		result.AddError(field+".max_wait", cc.MaxWait.D().String(), "must not be negative")
	}
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
