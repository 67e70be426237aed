package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/strindex/internal/domain/query/nlq"
	chiTransport "github.com/kailas-cloud/strindex/internal/transport/chi"
)

var listRules bool

var interpretCmd = &cobra.Command{
	Use:   "interpret <phrase>...",
	Short: "Show the filters a natural language query resolves to",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if listRules {
			for _, name := range nlq.Rules() {
				fmt.Fprintln(out, name)
			}
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("interpret: a phrase is required")
		}

		q, err := nlq.Interpret(strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("interpret: %w", err)
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(chiTransport.InterpretedQueryFrom(q))
	},
}

func init() {
	interpretCmd.Flags().BoolVar(&listRules, "rules", false, "List the interpretation rules in evaluation order")
}
