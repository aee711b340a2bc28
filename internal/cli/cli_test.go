package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/mockapi"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/session"
)

type cliEnv struct {
	backend    *mockapi.Server
	configPath string
	credPath   string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	backend := mockapi.New(mockapi.Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, backend.SeedDemo())
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	env := &cliEnv{
		backend:    backend,
		configPath: filepath.Join(dir, "yushan.yaml"),
		credPath:   filepath.Join(dir, "credential.json"),
	}
	cfg := "api:\n  base_url: " + srv.URL + "/api\n" +
		"credentials:\n  backend: file\n  path: " + env.credPath + "\n  passphrase: test-passphrase\n" +
		"logging:\n  level: error\n  format: text\n"
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o600))
	return env
}

// run executes one CLI invocation, like a fresh process.
func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func (e *cliEnv) login(t *testing.T) {
	t.Helper()
	out, _, err := e.run(t, "login", "--email", mockapi.DemoEmail, "--password", mockapi.DemoPassword)
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as demo_author")
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)
	require.FileExists(t, env.credPath)

	out, _, err := env.run(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "demo_author")
	require.Contains(t, out, mockapi.DemoEmail)
}

func TestWrongPasswordIsReported(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run(t, "login", "--email", mockapi.DemoEmail, "--password", "wrong-password")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid email or password")

	_, _, err = env.run(t, "whoami")
	require.ErrorContains(t, err, "not signed in")
}

func TestExpiredTokenIsRefreshedAndSaved(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	env.backend.ExpireAccessTokens()
	_, _, err := env.run(t, "whoami")
	require.NoError(t, err)
	require.EqualValues(t, 1, env.backend.RefreshCalls())

	// the rotated credential was written back, so no second refresh
	_, _, err = env.run(t, "whoami")
	require.NoError(t, err)
	require.EqualValues(t, 1, env.backend.RefreshCalls())
}

func TestRevokedSessionPrintsExpiredNotice(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	env.backend.RevokeSessions()
	_, stderr, err := env.run(t, "whoami")
	require.Error(t, err)
	require.Contains(t, stderr, session.ExpiredMessage)
	require.Contains(t, stderr, "yushan login")

	_, _, err = env.run(t, "whoami")
	require.ErrorContains(t, err, "not signed in")
}

func TestLogout(t *testing.T) {
	env := newCLIEnv(t)
	out, _, err := env.run(t, "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in")

	env.login(t)
	out, _, err = env.run(t, "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Signed out")

	_, _, err = env.run(t, "whoami")
	require.ErrorContains(t, err, "not signed in")
}

func TestNovelsListAndGet(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "novels", "list", "--sort", "title")
	require.NoError(t, err)
	require.Contains(t, out, "Dragon of the Eastern Sea")
	require.Contains(t, out, "3 total")

	out, _, err = env.run(t, "-o", "json", "novels", "get", "1")
	require.NoError(t, err)
	var novel struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &novel))
	require.EqualValues(t, 1, novel.ID)
	require.NotEmpty(t, novel.Title)

	_, _, err = env.run(t, "novels", "get", "abc")
	require.ErrorContains(t, err, "invalid id")
}

func TestCreateNovelRequiresLogin(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run(t, "novels", "create", "--title", "Untitled")
	require.Error(t, err)

	env.login(t)
	out, _, err := env.run(t, "novels", "create", "--title", "Moonlit Archive", "--synopsis", "A library that moves at night.")
	require.NoError(t, err)
	require.Contains(t, out, "Moonlit Archive")
}

func TestChaptersAndReviews(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "-o", "json", "chapters", "list", "1")
	require.NoError(t, err)
	var chapters struct {
		Content []struct {
			UUID          string `json:"uuid"`
			ChapterNumber int    `json:"chapterNumber"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &chapters))
	require.NotEmpty(t, chapters.Content)

	out, _, err = env.run(t, "chapters", "read", chapters.Content[0].UUID)
	require.NoError(t, err)
	require.Contains(t, out, "Chapter 1:")

	out, _, err = env.run(t, "reviews", "list", "1")
	require.NoError(t, err)
	require.Contains(t, out, "demo_reader")

	env.login(t)
	out, _, err = env.run(t, "reviews", "add", "2", "--rating", "5", "--title", "Loved it")
	require.NoError(t, err)
	require.Contains(t, out, "Posted review")
}

func TestSearchAndSuggest(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "search", "dragon")
	require.NoError(t, err)
	require.Contains(t, out, "Dragon of the Eastern Sea")

	out, _, err = env.run(t, "-o", "json", "suggest", "Dr")
	require.NoError(t, err)
	var titles []string
	require.NoError(t, json.Unmarshal([]byte(out), &titles))
	require.Contains(t, titles, "Dragon of the Eastern Sea")
	require.Contains(t, titles, "Dream of the Jade Pavilion")
}

func TestGlobalFlagValidation(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run(t, "-o", "yaml", "novels", "list")
	require.ErrorContains(t, err, "unsupported output format")

	out, _, err := env.run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "yushan ")
}
