package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/strindex/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "strindex",
	Short: "String analysis service",
	Long: `strindex analyzes strings, keeps them in memory and answers structured
and natural language filter queries over them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Short()
	rootCmd.AddCommand(serveCmd, analyzeCmd, interpretCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
