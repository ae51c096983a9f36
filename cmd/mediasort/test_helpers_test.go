package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	cachePath  string
	catalogURL string
}

func setupCLITestEnv(t *testing.T, catalogURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		cachePath:  filepath.Join(base, "picks.json"),
		catalogURL: catalogURL,
	}
	writeTestConfig(t, env)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
log_dir = %q
state_dir = %q
movies_dir = %q
tv_dir = %q

[tmdb]
api_key = "test"
base_url = %q

[pick_cache]
enabled = true
path = %q

[logging]
format = "json"
level = "warn"
`,
		filepath.Join(env.baseDir, "logs"),
		filepath.Join(env.baseDir, "state"),
		filepath.Join(env.baseDir, "movies"),
		filepath.Join(env.baseDir, "tv"),
		env.catalogURL,
		env.cachePath,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// newStubCatalog serves a minimal TMDB lookalike: one movie that matches
// any search mentioning its title.
func newStubCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	movie := map[string]any{
		"id":           500,
		"title":        "A Movie Example",
		"release_date": "2020-03-11",
		"media_type":   "movie",
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/search/"):
			query := strings.ToLower(r.URL.Query().Get("query"))
			results := []any{}
			if strings.Contains(query, "movie example") {
				results = append(results, movie)
			}
			json.NewEncoder(w).Encode(map[string]any{"results": results})
		case r.URL.Path == "/movie/500":
			json.NewEncoder(w).Encode(map[string]any{
				"id":           500,
				"title":        "A Movie Example",
				"release_date": "2020-03-11",
				"genres":       []any{map[string]any{"id": 18, "name": "Drama"}},
			})
		case strings.HasSuffix(r.URL.Path, "/alternative_titles"):
			json.NewEncoder(w).Encode(map[string]any{"titles": []any{}})
		default:
			json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
		}
	}))
	t.Cleanup(server.Close)
	return server
}
