package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/events"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	res := cfg.Validate()
	require.True(t, res.Valid, "%v", res.Errors)
	require.Equal(t, 2, cfg.Clients.Heavy.MaxRequests)
	require.Equal(t, 20, cfg.Clients.Light.MaxRequests)
	require.Equal(t, "/auth/refresh", cfg.API.RefreshPath)
}

func TestLoadYAMLFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yushan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://api.yushan.example/api
clients:
  heavy:
    max_requests: 4
    window: 2s
credentials:
  backend: memory
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://api.yushan.example/api", cfg.API.BaseURL)
	require.Equal(t, 4, cfg.Clients.Heavy.MaxRequests)
	require.Equal(t, 2*time.Second, cfg.Clients.Heavy.Window.D())
	require.Equal(t, Default().Clients.Heavy.Timeout, cfg.Clients.Heavy.Timeout)
	require.Equal(t, Default().Clients.Light, cfg.Clients.Light)
	require.Equal(t, "/login", cfg.Session.LoginPath)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yushan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "api": {"base_url": "http://localhost:9000/api", "refresh_timeout": "3s"},
  "clients": {"light": {"max_requests": 50, "window": 1000}},
  "credentials": {"backend": "memory"}
}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.API.RefreshTimeout.D())
	require.Equal(t, 50, cfg.Clients.Light.MaxRequests)
	require.Equal(t, time.Second, cfg.Clients.Light.Window.D())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("YUSHAN_API_BASE_URL", "https://env.example/api")
	t.Setenv("YUSHAN_HEAVY_MAX_REQUESTS", "7")
	t.Setenv("YUSHAN_LIGHT_TIMEOUT", "750ms")
	t.Setenv("YUSHAN_CREDENTIALS_BACKEND", "MEMORY")
	t.Setenv("YUSHAN_DEBUG", "yes")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://env.example/api", cfg.API.BaseURL)
	require.Equal(t, 7, cfg.Clients.Heavy.MaxRequests)
	require.Equal(t, 750*time.Millisecond, cfg.Clients.Light.Timeout.D())
	require.Equal(t, "memory", cfg.Credentials.Backend)
	require.True(t, cfg.Logging.Debug)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "ftp://nope"
	cfg.API.RefreshPath = "auth/refresh"
	cfg.Clients.Default.MaxRequests = 0
	cfg.Credentials.Backend = "redis"
	cfg.Logging.Format = "xml"

	res := cfg.Validate()
	require.False(t, res.Valid)
	fields := map[string]bool{}
	for _, e := range res.Errors {
		fields[e.Field] = true
	}
	require.True(t, fields["api.base_url"])
	require.True(t, fields["api.refresh_path"])
	require.True(t, fields["clients.default.max_requests"])
	require.True(t, fields["credentials.redis.addr"])
	require.True(t, fields["logging.format"])
	require.Error(t, res.Err())
}

func TestValidateWarnsOnPlainHTTPRemote(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "http://api.yushan.example"
	res := cfg.Validate()
	require.True(t, res.Valid)
	require.NotEmpty(t, res.Warnings)
}

func TestDurationJSONRoundTrip(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	require.Equal(t, 90*time.Second, d.D())
	out, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `"1m30s"`, string(out))
}

func TestManagerReloadsAndPublishes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yushan.yaml")
	require.NoError(t, Save(path, withBackend(Default(), "memory")))

	cm, err := NewManager(path)
	require.NoError(t, err)
	t.Cleanup(cm.Close)

	hub := events.NewHub()
	cm.SetEventPublisher(hub)

	var mu sync.Mutex
	var published *Config
	hub.Subscribe(events.TopicConfigUpdated, func(_ context.Context, evt events.Event) {
		mu.Lock()
		defer mu.Unlock()
		published, _ = evt.Payload.(*Config)
	})
	changed := make(chan *Config, 4)
	cm.OnChange(func(c *Config) { changed <- c })

	next := cm.Get()
	next.Clients.Heavy.MaxRequests = 9
	require.NoError(t, Save(path, next))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case c := <-changed:
		require.Equal(t, 9, c.Clients.Heavy.MaxRequests)
	case <-time.After(7 * time.Second):
		t.Fatal("config change was not observed")
	}
	require.Equal(t, 9, cm.Get().Clients.Heavy.MaxRequests)
	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, published)
	require.Equal(t, 9, published.Clients.Heavy.MaxRequests)
}

func withBackend(c *Config, backend string) *Config {
	c.Credentials.Backend = backend
	return c
}
