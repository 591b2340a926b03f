// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/openreview-harvest/internal/storage"
	"github.com/pdiddy/openreview-harvest/pkg/types"
)

const defaultDBFile = "data/index/papers.db"

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the SQLite full-text index from the dataset",
	Long: `Index ingests the JSONL dataset into a SQLite database with FTS5
indexing over titles, abstracts, and review text. Re-running after a
resumed collection upserts by paper id, so the index stays consistent with
the dataset.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("output", "", "dataset JSONL path (default "+defaultOutputFile+")")
	indexCmd.Flags().String("db", defaultDBFile, "SQLite index database path")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = defaultOutputFile
	}
	dbFile, _ := cmd.Flags().GetString("db")

	idx, err := storage.OpenIndex(types.IndexConfig{DBFile: dbFile})
	if err != nil {
		return err
	}
	defer idx.Close()

	summary, err := idx.Rebuild(cmd.Context(), output, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d paper(s) failed indexing", summary.Failed)
	}
	return nil
}
