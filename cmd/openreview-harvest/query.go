// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/openreview-harvest/internal/storage"
	"github.com/pdiddy/openreview-harvest/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [terms...]",
	Short: "Search the dataset index by title, abstract, or review text",
	Long: `Query runs an FTS5 full-text search over indexed titles, abstracts,
and review text, best matches first. Run the index command first.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("db", defaultDBFile, "SQLite index database path")
	queryCmd.Flags().Int("limit", 0, "maximum results (0 = default 20)")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more search terms")
	}
	dbFile, _ := cmd.Flags().GetString("db")
	limit, _ := cmd.Flags().GetInt("limit")

	idx, err := storage.OpenIndex(types.IndexConfig{DBFile: dbFile})
	if err != nil {
		return err
	}
	defer idx.Close()

	results, err := idx.Query(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-60s  %-20s  %s\n",
		"Rank", "Year", "Title", "Decision", "Reviews")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for i, r := range results {
		title := truncate(r.Title, 60)
		decision := r.Decision
		if decision == "" {
			decision = "-"
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-6d  %-60s  %-20s  %d\n",
			i+1, r.Year, title, decision, r.ReviewCount)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to max display characters with an ellipsis, cutting on
// rune boundaries so non-ASCII titles stay valid UTF-8.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
