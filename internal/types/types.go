// Package types defines the core data model shared across the pipeline.
package types

import (
	"fmt"
	"regexp"
	"time"
)

// Commit is one fetched commit: short SHA, message, and one patch string
// per changed file. Commits are consumed by the prompt builder and never
// persisted.
type Commit struct {
	SHA     string   `json:"sha"`
	Message string   `json:"message"`
	Patches []string `json:"patches"`
}

// RepoPush groups the qualifying commits collected for one repository
// during a single run. Ordering follows the hosting API: pushes in
// repository enumeration order, commits in the order returned per repo.
type RepoPush struct {
	Repo    string   `json:"repo"`
	Commits []Commit `json:"commits"`
}

// LearningRecord is one extracted learning moment. ID and CreatedAt are
// assigned by the store on insert and must be zero before persistence.
type LearningRecord struct {
	ID         int64     `json:"id,omitempty"`
	Date       string    `json:"date"`
	Repo       string    `json:"repo"`
	Technology string    `json:"technology"`
	Concept    string    `json:"concept"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate checks the fields a record must carry before it may be
// persisted. Records produced by the analysis service that fail this
// check are dropped individually by the caller.
func (r *LearningRecord) Validate() error {
	if r.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	if r.Technology == "" {
		return fmt.Errorf("technology is required")
	}
	if r.Concept == "" {
		return fmt.Errorf("concept is required")
	}
	if !dateRegex.MatchString(r.Date) {
		return fmt.Errorf("date must be YYYY-MM-DD (got %q)", r.Date)
	}
	return nil
}
