// Package prompt builds the analysis request from collected commits.
package prompt

import (
	"fmt"
	"strings"

	"github.com/devtrack/learnings/internal/types"
)

// Instruction is the fixed system turn sent with every analysis request.
// It pins the output contract: a JSON array of learning records, empty
// when nothing meaningful was found.
const Instruction = "You are a Developer Learning Tracker. Analyze the code changes to identify " +
	"new technical concepts learned. Return ONLY a JSON array with this exact structure: " +
	`[{"repo": "repo_name", "technology": "tool_or_framework_used", "concept": "what_was_learned", "date": "YYYY-MM-DD"}]. ` +
	"Ignore basic typos or formatting changes. Focus on meaningful learning moments " +
	"like new APIs, algorithms, design patterns, or technologies. Return an empty array [] if nothing meaningful."

// DefaultMaxPayloadBytes caps the assembled payload so it stays within
// the analysis service's input limits.
const DefaultMaxPayloadBytes = 200 * 1024

const elisionMarker = "_Further changes elided to stay within the analysis size limit_\n\n"

// Builder assembles deterministic prompt payloads.
type Builder struct {
	maxPayloadBytes int
}

// NewBuilder returns a Builder with the given payload cap; zero or
// negative means DefaultMaxPayloadBytes.
func NewBuilder(maxPayloadBytes int) *Builder {
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = DefaultMaxPayloadBytes
	}
	return &Builder{maxPayloadBytes: maxPayloadBytes}
}

// Build serializes pushes into the user payload. Identical input ordering
// produces byte-identical output. Once the payload would exceed the cap,
// remaining commit diffs are replaced by a single elision marker; headers
// and commit messages are always kept.
func (b *Builder) Build(pushes []types.RepoPush) (instruction, payload string) {
	var sb strings.Builder
	sb.WriteString("Here is the code activity from the last 24 hours:\n\n")

	elided := false
	for _, push := range pushes {
		sb.WriteString(fmt.Sprintf("### Repository: %s\n\n", push.Repo))
		for _, commit := range push.Commits {
			sb.WriteString(fmt.Sprintf("**Commit (%s)**: %s\n\n", commit.SHA, commit.Message))

			if len(commit.Patches) == 0 {
				sb.WriteString("_No code diffs available_\n\n")
				continue
			}

			block := diffBlock(commit.Patches)
			if sb.Len()+len(block) > b.maxPayloadBytes {
				if !elided {
					sb.WriteString(elisionMarker)
					elided = true
				}
				continue
			}
			sb.WriteString(block)
		}
	}

	return Instruction, sb.String()
}

func diffBlock(patches []string) string {
	var sb strings.Builder
	sb.WriteString("**Code Changes:**\n```\n")
	for _, patch := range patches {
		sb.WriteString(patch)
		sb.WriteString("\n\n")
	}
	sb.WriteString("```\n\n")
	return sb.String()
}
