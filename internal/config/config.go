// Package config loads runtime configuration for the learning tracker.
//
// Precedence, highest first: environment variables, an optional YAML
// config file, built-in defaults. The resulting Config is constructed
// once in main and passed by value into each component; nothing reads
// the environment after Load returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default model for commit analysis. Overridable via LEARNINGS_MODEL.
const DefaultModel = "claude-3-5-haiku-20241022"

const (
	defaultMaxRepos          = 50
	defaultMaxCommitsPerRepo = 10
	defaultRequestTimeout    = 10 * time.Second
	defaultDatabasePath      = "data/app.db"
)

// Config holds everything the pipeline needs. Credentials are mandatory;
// everything else has a default.
type Config struct {
	GitHubToken     string
	AnthropicAPIKey string

	MaxRepos          int
	MaxCommitsPerRepo int
	RequestTimeout    time.Duration

	Model        string
	DatabasePath string
}

// fileConfig is the YAML shape of the optional config file. Env vars
// override anything set here.
type fileConfig struct {
	MaxRepos          *int   `yaml:"max_repos"`
	MaxCommitsPerRepo *int   `yaml:"max_commits_per_repo"`
	RequestTimeoutSec *int   `yaml:"request_timeout_seconds"`
	Model             string `yaml:"model"`
	DatabasePath      string `yaml:"database_path"`
}

// Load builds a Config from the environment, overlaid on the config file
// at path if path is non-empty (or LEARNINGS_CONFIG if set). A missing
// explicit config file is an error; an unset LEARNINGS_CONFIG is not.
func Load(path string) (Config, error) {
	cfg := Config{
		MaxRepos:          defaultMaxRepos,
		MaxCommitsPerRepo: defaultMaxCommitsPerRepo,
		RequestTimeout:    defaultRequestTimeout,
		Model:             DefaultModel,
		DatabasePath:      defaultDatabasePath,
	}

	explicit := path != ""
	if path == "" {
		path = os.Getenv("LEARNINGS_CONFIG")
	}
	if path != "" {
		if err := applyFile(&cfg, path, explicit); err != nil {
			return Config{}, err
		}
	}

	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")

	if v := os.Getenv("LEARNINGS_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("LEARNINGS_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}

	var err error
	if cfg.MaxRepos, err = intEnv("LEARNINGS_MAX_REPOS", cfg.MaxRepos); err != nil {
		return Config{}, err
	}
	if cfg.MaxCommitsPerRepo, err = intEnv("LEARNINGS_MAX_COMMITS_PER_REPO", cfg.MaxCommitsPerRepo); err != nil {
		return Config{}, err
	}
	seconds := int(cfg.RequestTimeout / time.Second)
	if seconds, err = intEnv("LEARNINGS_REQUEST_TIMEOUT", seconds); err != nil {
		return Config{}, err
	}
	cfg.RequestTimeout = time.Duration(seconds) * time.Second

	return cfg, nil
}

// Validate fails fast on missing credentials, before any network call.
func (c Config) Validate() error {
	if c.GitHubToken == "" {
		return fmt.Errorf("GITHUB_TOKEN is not set")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	if c.MaxRepos <= 0 {
		return fmt.Errorf("max repos must be positive (got %d)", c.MaxRepos)
	}
	if c.MaxCommitsPerRepo <= 0 {
		return fmt.Errorf("max commits per repo must be positive (got %d)", c.MaxCommitsPerRepo)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive (got %v)", c.RequestTimeout)
	}
	return nil
}

func applyFile(cfg *Config, path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.MaxRepos != nil {
		cfg.MaxRepos = *fc.MaxRepos
	}
	if fc.MaxCommitsPerRepo != nil {
		cfg.MaxCommitsPerRepo = *fc.MaxCommitsPerRepo
	}
	if fc.RequestTimeoutSec != nil {
		cfg.RequestTimeout = time.Duration(*fc.RequestTimeoutSec) * time.Second
	}
	if fc.Model != "" {
		cfg.Model = fc.Model
	}
	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	return nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", key, v)
	}
	return n, nil
}
