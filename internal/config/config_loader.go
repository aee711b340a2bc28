package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads path (YAML or JSON), fills defaults and applies env overrides.
// An empty path yields defaults plus env.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
		cfg.fillDefaults()
	}
	cfg.applyEnv()
	if err := cfg.Validate().Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON)")
			}
		}
	}
	return &cfg, nil
}

// Save writes cfg to path, choosing the encoding from the extension.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	var (
		data []byte
		err  error
	)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// ResolvePath finds a config file when none was given explicitly.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return expandHome(explicit)
	}
	if env := os.Getenv("YUSHAN_CONFIG"); env != "" {
		return expandHome(env)
	}
	locations := []string{"yushan.yaml", "yushan.yml", "yushan.json"}
	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "yushan", "config.yaml"))
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
