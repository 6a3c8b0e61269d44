package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN", "ANTHROPIC_API_KEY", "LEARNINGS_CONFIG",
		"LEARNINGS_MAX_REPOS", "LEARNINGS_MAX_COMMITS_PER_REPO",
		"LEARNINGS_REQUEST_TIMEOUT", "LEARNINGS_MODEL", "LEARNINGS_DB_PATH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxRepos != 50 {
		t.Errorf("MaxRepos = %d, want 50", cfg.MaxRepos)
	}
	if cfg.MaxCommitsPerRepo != 10 {
		t.Errorf("MaxCommitsPerRepo = %d, want 10", cfg.MaxCommitsPerRepo)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want default", cfg.Model)
	}
	if cfg.DatabasePath != "data/app.db" {
		t.Errorf("DatabasePath = %q, want data/app.db", cfg.DatabasePath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEARNINGS_MAX_REPOS", "5")
	t.Setenv("LEARNINGS_MAX_COMMITS_PER_REPO", "2")
	t.Setenv("LEARNINGS_REQUEST_TIMEOUT", "30")
	t.Setenv("LEARNINGS_MODEL", "claude-sonnet-4-5-20250929")
	t.Setenv("LEARNINGS_DB_PATH", "/tmp/other.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxRepos != 5 || cfg.MaxCommitsPerRepo != 2 {
		t.Errorf("caps = (%d, %d), want (5, 2)", cfg.MaxRepos, cfg.MaxCommitsPerRepo)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.Model != "claude-sonnet-4-5-20250929" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.DatabasePath != "/tmp/other.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
}

func TestLoadBadIntEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEARNINGS_MAX_REPOS", "lots")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-integer LEARNINGS_MAX_REPOS")
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "learnings.yaml")
	body := "max_repos: 3\nrequest_timeout_seconds: 20\nmodel: claude-sonnet-4-5-20250929\ndatabase_path: /tmp/file.db\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxRepos != 3 {
		t.Errorf("MaxRepos = %d, want 3", cfg.MaxRepos)
	}
	if cfg.RequestTimeout != 20*time.Second {
		t.Errorf("RequestTimeout = %v, want 20s", cfg.RequestTimeout)
	}
	// Unset file keys keep their defaults.
	if cfg.MaxCommitsPerRepo != 10 {
		t.Errorf("MaxCommitsPerRepo = %d, want 10", cfg.MaxCommitsPerRepo)
	}
}

func TestEnvBeatsConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "learnings.yaml")
	if err := os.WriteFile(path, []byte("max_repos: 3\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LEARNINGS_MAX_REPOS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxRepos != 7 {
		t.Errorf("MaxRepos = %d, want env override 7", cfg.MaxRepos)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load("/nonexistent/learnings.yaml"); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		GitHubToken:       "ghp_x",
		AnthropicAPIKey:   "sk-ant-x",
		MaxRepos:          50,
		MaxCommitsPerRepo: 10,
		RequestTimeout:    10 * time.Second,
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}

	noToken := base
	noToken.GitHubToken = ""
	if err := noToken.Validate(); err == nil {
		t.Error("expected error for missing GITHUB_TOKEN")
	}

	noKey := base
	noKey.AnthropicAPIKey = ""
	if err := noKey.Validate(); err == nil {
		t.Error("expected error for missing ANTHROPIC_API_KEY")
	}

	badCap := base
	badCap.MaxRepos = 0
	if err := badCap.Validate(); err == nil {
		t.Error("expected error for zero max repos")
	}
}
