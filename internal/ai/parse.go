package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/devtrack/learnings/internal/types"
)

// Models sometimes wrap JSON in a markdown fence despite being asked for
// bare JSON. Stripping the fence is the only tolerance applied; the
// content inside must parse as-is.
var codeFenceRegex = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?```\\s*$")

// rawRecord mirrors the JSON element shape the instruction demands.
type rawRecord struct {
	Repo       string `json:"repo"`
	Technology string `json:"technology"`
	Concept    string `json:"concept"`
	Date       string `json:"date"`
}

// parseRecords parses the response text as a JSON array of learning
// records. A body that is not a JSON array yields nil with a warning.
// Elements failing field validation are dropped individually; the rest
// of the array survives.
func parseRecords(text string) []types.LearningRecord {
	trimmed := strings.TrimSpace(text)
	if m := codeFenceRegex.FindStringSubmatch(trimmed); m != nil {
		trimmed = strings.TrimSpace(m[1])
	}

	var raw []rawRecord
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		fmt.Printf("Warning: could not parse analysis response as a JSON array: %v\n", err)
		return nil
	}

	var records []types.LearningRecord
	for i, r := range raw {
		record := types.LearningRecord{
			Repo:       r.Repo,
			Technology: r.Technology,
			Concept:    r.Concept,
			Date:       r.Date,
		}
		if err := record.Validate(); err != nil {
			fmt.Printf("Warning: dropping record %d from analysis response: %v\n", i, err)
			continue
		}
		records = append(records, record)
	}
	return records
}
