// Package ai submits collected code activity to Claude and parses the
// structured learning records out of the response.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/devtrack/learnings/internal/types"
)

const maxResponseTokens = 2048

// Client calls the Anthropic API for commit analysis. Analyze never
// returns an error: every failure mode degrades to an empty record list
// so the pipeline can finish the run.
type Client struct {
	anthropic *anthropic.Client
	model     string

	// complete performs the two-turn request and returns the raw response
	// text. Swappable in tests.
	complete func(ctx context.Context, instruction, payload string) (string, error)
}

// NewClient creates an analysis client for the given model.
func NewClient(apiKey, model string) *Client {
	sdk := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		anthropic: &sdk,
		model:     model,
	}
	c.complete = c.completeAnthropic
	return c
}

// Analyze submits the instruction and payload as two turns and returns
// the validated learning records. Transport failures, malformed JSON,
// and schema violations all yield an empty (or partial) list with a
// logged warning; nothing is retried.
func (c *Client) Analyze(ctx context.Context, instruction, payload string) []types.LearningRecord {
	fmt.Println("\nAnalyzing with Claude...")

	start := time.Now()
	text, err := c.complete(ctx, instruction, payload)
	if err != nil {
		fmt.Printf("Analysis API error: %v\n", err)
		return nil
	}
	fmt.Printf("Analysis completed in %v\n", time.Since(start).Round(time.Millisecond))

	return parseRecords(text)
}

func (c *Client) completeAnthropic(ctx context.Context, instruction, payload string) (string, error) {
	resp, err := c.anthropic.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxResponseTokens,
		System: []anthropic.TextBlockParam{
			{Text: instruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(payload)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}
