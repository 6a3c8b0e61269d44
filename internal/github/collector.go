package github

import (
	"context"
	"fmt"
	"time"

	"github.com/devtrack/learnings/internal/types"
)

// lookbackWindow is how far back commit collection reaches.
const lookbackWindow = 24 * time.Hour

const reposPerPage = 100

// Skip records one unit (repository or commit) that was dropped during
// collection, with the reason. Aggregating skips lets the operator tell
// "no activity" apart from "everything errored".
type Skip struct {
	Kind   string // "repo" or "commit"
	Unit   string // repo full name, or repo@sha for commits
	Reason string
}

// CollectReport summarizes one collection pass.
type CollectReport struct {
	Login            string
	ReposProcessed   int
	CommitsCollected int
	Skipped          []Skip
}

// Collector walks the authenticated user's repositories and gathers
// commits authored in the last 24 hours, bounded by the configured caps.
type Collector struct {
	client            *Client
	maxRepos          int
	maxCommitsPerRepo int

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewCollector creates a collector over client with the given caps.
// maxRepos bounds how many repositories are processed, whether or not
// they yield commits; maxCommitsPerRepo bounds commits taken per repo.
func NewCollector(client *Client, maxRepos, maxCommitsPerRepo int) *Collector {
	return &Collector{
		client:            client,
		maxRepos:          maxRepos,
		maxCommitsPerRepo: maxCommitsPerRepo,
		now:               time.Now,
	}
}

// Collect authenticates, enumerates repositories in API order, and
// returns one RepoPush per repository that yielded at least one
// qualifying commit. A top-level auth or transport failure returns a
// non-nil error; per-repo and per-commit failures are recorded in the
// report and skipped.
func (c *Collector) Collect(ctx context.Context) ([]types.RepoPush, *CollectReport, error) {
	login, err := c.client.currentUser(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	report := &CollectReport{Login: login}
	fmt.Printf("Authenticated as: %s\n", login)
	fmt.Println("\nScanning your repositories for commits in the last 24 hours...")

	cutoff := c.now().UTC().Add(-lookbackWindow)
	var pushes []types.RepoPush

	page := 1
	for report.ReposProcessed < c.maxRepos {
		repos, err := c.client.listRepos(ctx, page, reposPerPage)
		if err != nil {
			// Repository enumeration is a top-level operation; if it
			// fails the whole collection aborts.
			return nil, nil, fmt.Errorf("failed to list repositories: %w", err)
		}
		if len(repos) == 0 {
			break
		}

		for _, repo := range repos {
			if report.ReposProcessed >= c.maxRepos {
				fmt.Printf("Reached max repos limit (%d); stopping repo scan.\n", c.maxRepos)
				break
			}
			report.ReposProcessed++

			commits, err := c.collectRepo(ctx, repo.FullName, login, cutoff, report)
			if err != nil {
				report.Skipped = append(report.Skipped, Skip{
					Kind:   "repo",
					Unit:   repo.FullName,
					Reason: err.Error(),
				})
				fmt.Printf("  Could not access repo %s: %v\n", repo.FullName, err)
				continue
			}

			if len(commits) > 0 {
				pushes = append(pushes, types.RepoPush{Repo: repo.FullName, Commits: commits})
				report.CommitsCollected += len(commits)
				fmt.Printf("  Found %d commits in %s\n", len(commits), repo.FullName)
			}
		}

		if len(repos) < reposPerPage {
			break
		}
		page++
	}

	return pushes, report, nil
}

// collectRepo gathers up to maxCommitsPerRepo commits for one repository.
// Commit detail fetch failures drop that commit and continue.
func (c *Collector) collectRepo(ctx context.Context, repo, login string, cutoff time.Time, report *CollectReport) ([]types.Commit, error) {
	perPage := c.maxCommitsPerRepo
	if perPage > 100 {
		perPage = 100
	}

	var listed []apiCommit
	for page := 1; len(listed) < c.maxCommitsPerRepo; page++ {
		batch, err := c.client.listCommits(ctx, repo, login, cutoff, page, perPage)
		if err != nil {
			return nil, err
		}
		listed = append(listed, batch...)
		if len(batch) < perPage {
			break
		}
	}

	var commits []types.Commit
	for _, item := range listed {
		if len(commits) >= c.maxCommitsPerRepo {
			break
		}

		detail, err := c.client.getCommit(ctx, repo, item.SHA)
		if err != nil {
			report.Skipped = append(report.Skipped, Skip{
				Kind:   "commit",
				Unit:   repo + "@" + shortSHA(item.SHA),
				Reason: err.Error(),
			})
			fmt.Printf("  Could not fetch details for commit %s in %s: %v\n", shortSHA(item.SHA), repo, err)
			continue
		}

		var patches []string
		for _, file := range detail.Files {
			if file.Patch != "" {
				patches = append(patches, fmt.Sprintf("File: %s\n%s", file.Filename, file.Patch))
			}
		}

		commits = append(commits, types.Commit{
			SHA:     shortSHA(detail.SHA),
			Message: detail.Commit.Message,
			Patches: patches,
		})
	}

	return commits, nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
