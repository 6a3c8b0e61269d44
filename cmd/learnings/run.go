package main

import (
	"context"
	"fmt"

	"github.com/devtrack/learnings/internal/ai"
	"github.com/devtrack/learnings/internal/config"
	"github.com/devtrack/learnings/internal/github"
	"github.com/devtrack/learnings/internal/prompt"
	"github.com/devtrack/learnings/internal/storage"
	"github.com/devtrack/learnings/internal/tracker"
)

// runPipeline loads configuration, wires the stages, and executes one
// sequential pass.
func runPipeline(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", cfg.DatabasePath, err)
	}
	defer store.Close()
	fmt.Printf("Database initialized: %s\n", cfg.DatabasePath)

	client := github.NewClient(cfg.GitHubToken, cfg.RequestTimeout)

	pipeline := &tracker.Pipeline{
		Collector: github.NewCollector(client, cfg.MaxRepos, cfg.MaxCommitsPerRepo),
		Prompt:    prompt.NewBuilder(0),
		Analyzer:  ai.NewClient(cfg.AnthropicAPIKey, cfg.Model),
		Store:     store,
	}

	return pipeline.Run(context.Background())
}
