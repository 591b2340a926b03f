// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/openreview-harvest/internal/collect"
	"github.com/pdiddy/openreview-harvest/internal/openreview"
	"github.com/pdiddy/openreview-harvest/internal/storage"
	"github.com/pdiddy/openreview-harvest/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "openreview-harvest/0.1"

	defaultOutputFile = "data/output/iclr2016-2025_main.jsonl"
	defaultReadme     = "data/output/README.md"

	defaultSubmissionDelay = 100 * time.Millisecond
	defaultYearDelay       = 5 * time.Second

	firstYear = 2016
	lastYear  = 2025
)

var collectCmd = &cobra.Command{
	Use:   "collect [year] [end-year]",
	Short: "Fetch ICLR submissions and build the JSONL dataset",
	Long: `Collect fetches submissions with their review threads from the
OpenReview API and appends normalized paper records to the dataset.

With no arguments the full 2016-2025 range is collected into a fresh
dataset file. One year argument appends that single year; two arguments
append the inclusive range. --resume continues from the year after the
last one already present in the dataset and stops at the first failed
year, so the next resume retries it; explicit ranges continue past
failed years.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().String("output", "", "dataset JSONL path (default "+defaultOutputFile+")")
	collectCmd.Flags().Bool("resume", false, "continue from the year after the last collected one")
	collectCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	collectCmd.Flags().Duration("delay", 0, "delay between consecutive submissions (default 100ms)")
	collectCmd.Flags().Duration("year-delay", 0, "delay between consecutive years (default 5s)")
	collectCmd.Flags().Float64("rate", 0, "maximum upstream requests per second (default 2)")
	collectCmd.Flags().Int("page-limit", 0, "notes per API page (default 1000)")
	collectCmd.Flags().Int("max-retries", 0, "retry budget for rate-limited requests (default 5)")
	collectCmd.Flags().String("profiles", "", "YAML file of per-year venue profile overrides")
	collectCmd.Flags().String("username", "", "OpenReview username (default from .secrets/ or OPENREVIEW_USERNAME)")
	collectCmd.Flags().String("password", "", "OpenReview password (default from .secrets/ or OPENREVIEW_PASSWORD)")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg := collectConfigFromFlags(cmd)

	start, end, err := collectRange(cmd, args, cfg.OutputFile)
	if err != nil {
		return err
	}

	resume := flagBool(cmd, "resume")

	// A full fresh run replaces any previous dataset. Year, range, and
	// resume runs append.
	fullRun := len(args) == 0 && !resume
	if fullRun {
		if err := storage.Truncate(cfg.OutputFile); err != nil {
			return err
		}
	}

	client, err := openreview.NewClient(fetchConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	if err := client.Login(cmd.Context()); err != nil {
		return err
	}

	sink, err := storage.OpenSink(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer sink.Close()

	collector := &collect.Collector{
		Fetcher:         client,
		Sink:            sink,
		SubmissionDelay: cfg.SubmissionDelay,
	}

	// A resume run stops at the first failed year: resume restarts after
	// the highest year present, so recording later years past a hole would
	// skip the failed year forever.
	var results []collect.YearResult
	if resume {
		results = collector.CollectUntilFailure(cmd.Context(), start, end, cfg.YearDelay, os.Stdout)
	} else {
		results = collector.CollectRange(cmd.Context(), start, end, cfg.YearDelay, os.Stdout)
	}
	collect.PrintSummary(results, os.Stdout)

	stats, err := storage.Stats(cfg.OutputFile)
	if err != nil {
		return err
	}
	fmt.Printf("\nTotal papers in dataset: %d\n", stats.TotalPapers)
	fmt.Printf("Dataset: %s\n", cfg.OutputFile)

	if fullRun {
		if err := storage.GenerateReadme(cfg.OutputFile, defaultReadme); err != nil {
			return err
		}
	}

	if n := countFailed(results); n > 0 {
		return fmt.Errorf("%d year(s) failed collection", n)
	}
	return nil
}

// collectRange resolves the [start, end] year span from arguments and the
// --resume flag.
func collectRange(cmd *cobra.Command, args []string, outputFile string) (int, int, error) {
	if flagBool(cmd, "resume") {
		if len(args) > 1 {
			return 0, 0, fmt.Errorf("--resume takes at most one year argument")
		}
		if len(args) == 1 {
			start, err := parseYear(args[0])
			if err != nil {
				return 0, 0, err
			}
			fmt.Printf("Resuming from year %d\n", start)
			return start, lastYear, nil
		}
		last, err := storage.LastYear(outputFile)
		if err != nil {
			return 0, 0, err
		}
		if last == 0 {
			fmt.Printf("No existing data found, starting from %d\n", firstYear)
			return firstYear, lastYear, nil
		}
		fmt.Printf("Detected last collected year: %d\n", last)
		fmt.Printf("Resuming from year %d\n", last+1)
		return last + 1, lastYear, nil
	}

	switch len(args) {
	case 0:
		return firstYear, lastYear, nil
	case 1:
		start, err := parseYear(args[0])
		if err != nil {
			return 0, 0, err
		}
		return start, start, nil
	default:
		start, err := parseYear(args[0])
		if err != nil {
			return 0, 0, err
		}
		end, err := parseYear(args[1])
		if err != nil {
			return 0, 0, err
		}
		if end < start {
			return 0, 0, fmt.Errorf("end year %d precedes start year %d", end, start)
		}
		return start, end, nil
	}
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}

func collectConfigFromFlags(cmd *cobra.Command) types.CollectConfig {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = viper.GetString("collect.output_file")
	}
	if output == "" {
		output = defaultOutputFile
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultSubmissionDelay
	}
	yearDelay, _ := cmd.Flags().GetDuration("year-delay")
	if yearDelay == 0 {
		yearDelay = defaultYearDelay
	}

	return types.CollectConfig{
		OutputFile:      output,
		SubmissionDelay: delay,
		YearDelay:       yearDelay,
		StartYear:       firstYear,
		EndYear:         lastYear,
	}
}

func fetchConfigFromFlags(cmd *cobra.Command) types.FetchConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	rate, _ := cmd.Flags().GetFloat64("rate")
	pageLimit, _ := cmd.Flags().GetInt("page-limit")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	profiles, _ := cmd.Flags().GetString("profiles")
	if profiles == "" {
		profiles = viper.GetString("fetch.profile_file")
	}
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Username:          credentialDefault(username, loadedCredentials.Username, "OPENREVIEW_USERNAME"),
		Password:          credentialDefault(password, loadedCredentials.Password, "OPENREVIEW_PASSWORD"),
		PageLimit:         pageLimit,
		RequestsPerSecond: rate,
		MaxRetries:        maxRetries,
		ProfileFile:       profiles,
	}
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func countFailed(results []collect.YearResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
