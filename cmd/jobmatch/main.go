// Package main is the jobmatch entry point: the HTTP API server and its operator commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/jobmatch/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "jobmatch",
	Short:   "Resume and vacancy matching API",
	Long:    "jobmatch ranks resumes against vacancies by embedding similarity, runs the application workflow and notifies candidates of decisions.",
	Version: version.String(),
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
