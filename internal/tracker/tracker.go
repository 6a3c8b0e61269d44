// Package tracker wires the pipeline: collect commits, analyze them,
// persist the extracted learnings. One strictly sequential pass per run.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/devtrack/learnings/internal/github"
	"github.com/devtrack/learnings/internal/prompt"
	"github.com/devtrack/learnings/internal/storage"
	"github.com/devtrack/learnings/internal/types"
)

// Collector gathers recent commits. Implemented by github.Collector.
type Collector interface {
	Collect(ctx context.Context) ([]types.RepoPush, *github.CollectReport, error)
}

// Analyzer extracts learning records from a prompt. Implemented by
// ai.Client.
type Analyzer interface {
	Analyze(ctx context.Context, instruction, payload string) []types.LearningRecord
}

// Pipeline holds the stages of one run.
type Pipeline struct {
	Collector Collector
	Prompt    *prompt.Builder
	Analyzer  Analyzer
	Store     storage.LearningStore
}

// Run executes one pass: collect, build prompt, analyze, persist, and
// print the persisted records as JSON. A fatal collection failure or a
// persistence failure returns a non-nil error; "no activity" does not.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()[:8]
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("%s\n", cyan("=== GitHub Learning Tracker (run "+runID+") ==="))

	pushes, report, err := p.Collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("commit collection failed: %w", err)
	}

	printSkips(report)

	if len(pushes) == 0 {
		fmt.Println("\nNo push events found in the last 24 hours.")
		return nil
	}

	instruction, payload := p.Prompt.Build(pushes)
	records := p.Analyzer.Analyze(ctx, instruction, payload)

	if len(records) == 0 {
		fmt.Println("No meaningful learnings extracted.")
		return nil
	}

	inserted, err := p.Store.CreateBatch(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to persist learnings: %w", err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Saved %d learning(s).\n", green("✓"), inserted)

	persisted, err := p.Store.GetAll(ctx, 0, inserted)
	if err != nil {
		return fmt.Errorf("failed to read back learnings: %w", err)
	}
	dump, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode learnings: %w", err)
	}
	fmt.Println(string(dump))

	return nil
}

func printSkips(report *github.CollectReport) {
	if report == nil || len(report.Skipped) == 0 {
		return
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("\n%s %d unit(s) skipped during collection:\n", yellow("!"), len(report.Skipped))
	for _, skip := range report.Skipped {
		fmt.Printf("  %s %s: %s\n", skip.Kind, skip.Unit, skip.Reason)
	}
}
