package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	domrec "github.com/kailas-cloud/strindex/internal/domain/record"
	chiTransport "github.com/kailas-cloud/strindex/internal/transport/chi"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text>...",
	Short: "Print the computed properties of a string",
	Long:  `Arguments are joined with single spaces and analyzed as one string.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := domrec.New(strings.Join(args, " "), time.Now())
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(chiTransport.StringResponseFrom(rec))
	},
}
