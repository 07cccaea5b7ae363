// Package main implements the brain_agent CLI for quality-gated landing
// page generation.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brain_agent",
	Short: "Quality-gated landing page generator",
	Long:  "brain_agent generates a composite landing page from a profile record: segments are generated with an LLM, editorially improved, quality-scored, and assembled with required-section guarantees.",
}

var (
	rootDatabaseURL string
	rootRedisURL    string
	rootProfileID   string
	rootConfigPath  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDatabaseURL, "db-url", "", "PostgreSQL URL for the segment cache (default: DATABASE_URL env)")
	rootCmd.PersistentFlags().StringVar(&rootRedisURL, "redis-url", "", "Redis URL for the segment cache (default: REDIS_URL env)")
	rootCmd.PersistentFlags().StringVar(&rootProfileID, "profile-id", "default", "Profile identifier namespacing the segment cache")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to a YAML pipeline config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
