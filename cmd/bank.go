package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/bank"
	"github.com/spf13/cobra"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Print a generated item bank",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetInt64("seed")
		asJSON, _ := cmd.Flags().GetBool("json")

		b, err := bank.Generate(count, seed)
		if err != nil {
			return fmt.Errorf("generate bank: %w", err)
		}
		items := b.Items()
		out := cmd.OutOrStdout()

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		// Header.
		fmt.Fprintf(out, "%5s  %8s  %8s  %8s\n", "ID", "a", "b", "c")
		fmt.Fprintln(out, strings.Repeat("─", 35))

		for _, it := range items {
			fmt.Fprintf(out, "%5d  %8.4f  %8.4f  %8.4f\n", it.ID, it.A, it.B, it.C)
		}

		fmt.Fprintf(out, "\n%d items (seed %d)\n", len(items), seed)
		return nil
	},
}

func init() {
	bankCmd.Flags().Int("count", 100, "Number of items")
	bankCmd.Flags().Int64("seed", 42, "Generator seed")
	bankCmd.Flags().Bool("json", false, "Print the items as JSON")
}
