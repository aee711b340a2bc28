package config

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/events"

	log "github.com/sirupsen/logrus"
)

// Manager holds the live configuration and reloads it when the file changes.
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	lastMod    time.Time
	onChange   []func(*Config)
	publisher  events.Publisher
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// NewManager loads path (see ResolvePath) and starts watching it.
func NewManager(path string) (*Manager, error) {
	cm := &Manager{
		configPath: path,
		stopCh:     make(chan struct{}),
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cm.config = cfg
	if path == "" {
		log.Warn("using default configuration (no config file found)")
	} else {
		log.WithField("path", path).Info("configuration loaded")
		if info, err := os.Stat(path); err == nil {
			cm.lastMod = info.ModTime()
			cm.startWatcher()
		}
	}
	for _, w := range cfg.Validate().Warnings {
		log.WithField("field", w.Field).Warn(w.Message)
	}
	return cm, nil
}

// Path returns the watched file, "" when running on defaults.
func (cm *Manager) Path() string { return cm.configPath }

// OnChange registers a callback for configuration changes
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.onChange = append(cm.onChange, fn)
}

// SetEventPublisher wires the event hub used to broadcast config updates.
func (cm *Manager) SetEventPublisher(p events.Publisher) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.publisher = p
}

// Get returns a copy of the current configuration.
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	c := *cm.config
	return &c
}

// Close stops the watcher.
func (cm *Manager) Close() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
}

func (cm *Manager) replace(next *Config) {
	cm.mu.Lock()
	old := cm.config
	cm.config = next
	callbacks := append([]func(*Config){}, cm.onChange...)
	publisher := cm.publisher
	cm.mu.Unlock()

	logConfigChanges(old, next)
	for _, fn := range callbacks {
		c := *next
		fn(&c)
	}
	if publisher != nil {
		c := *next
		publisher.Publish(context.Background(), events.TopicConfigUpdated, &c, map[string]string{"path": cm.configPath})
	}
}

func logConfigChanges(old, next *Config) {
	diff := func(field string, a, b interface{}) {
		if a != b {
			log.WithFields(log.Fields{"field": field, "old": a, "new": b}).Info("config changed")
		}
	}
	diff("api.base_url", old.API.BaseURL, next.API.BaseURL)
	diff("clients.default", old.Clients.Default, next.Clients.Default)
	diff("clients.heavy", old.Clients.Heavy, next.Clients.Heavy)
	diff("clients.light", old.Clients.Light, next.Clients.Light)
	diff("logging.level", old.Logging.Level, next.Logging.Level)
}
