// Command learnings scans your recent GitHub commits, asks Claude what
// you learned, and records the answers in a local SQLite database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "learnings",
	Short: "Track what you learned from your recent commits",
	Long: `Scan your GitHub repositories for commits authored in the last
24 hours, send the diffs to Claude for analysis, and persist the
extracted learning records.

Requires GITHUB_TOKEN and ANTHROPIC_API_KEY in the environment.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Errors are reported to the operator but never change the exit
		// status; a partial run still exits 0.
		if err := runPipeline(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
