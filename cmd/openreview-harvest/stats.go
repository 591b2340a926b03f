// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/openreview-harvest/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the collected dataset",
	Long: `Stats reads the JSONL dataset and reports paper, review, and
meta-review counts, broken down by year. Use --readme to also regenerate
the dataset documentation file.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().String("output", "", "dataset JSONL path (default "+defaultOutputFile+")")
	statsCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	statsCmd.Flags().Bool("readme", false, "regenerate the dataset README")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = defaultOutputFile
	}

	stats, err := storage.Stats(output)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table", "":
		stats.WriteTable(os.Stdout)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			return err
		}
	case "yaml":
		if err := stats.WriteYAML(os.Stdout); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	if readme, _ := cmd.Flags().GetBool("readme"); readme {
		if err := storage.GenerateReadme(output, defaultReadme); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", defaultReadme)
	}
	return nil
}
