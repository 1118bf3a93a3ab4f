package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rick2x/fieldprofiler/adapters/distshape"
	"github.com/rick2x/fieldprofiler/adapters/table"
	"github.com/rick2x/fieldprofiler/app"
	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/internal"
	"github.com/rick2x/fieldprofiler/internal/analyze"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fieldprofiler",
		Short: "Profile attribute fields of tabular layers",
	}

	rootCmd.AddCommand(
		newFieldsCmd(),
		newProfileCmd(),
		newSelectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <layer-file>",
		Short: "List a layer's fields and their storage types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := table.Open(args[0])
			if err != nil {
				return err
			}
			infos, err := source.Fields(cmd.Context())
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Printf("%-30s %s\n", info.Name, info.Storage)
			}
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	var fields []string
	var format string
	var top, precision int

	cmd := &cobra.Command{
		Use:   "profile <layer-file>",
		Short: "Analyze a layer's fields and print the statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := runProfile(cmd.Context(), args[0], fields, top, precision)
			if err != nil {
				return err
			}

			exportFormat, err := app.ParseExportFormat(format)
			if err != nil {
				return err
			}
			payload, err := lastExports.Export(run.RunID, exportFormat)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(payload)
			return err
		},
	}
	cmd.Flags().StringSliceVarP(&fields, "fields", "f", nil, "fields to analyze (default: all)")
	cmd.Flags().StringVarP(&format, "format", "o", "md", "output format: csv, tsv, md, html")
	cmd.Flags().IntVar(&top, "top", 5, "distinct values reported per field")
	cmd.Flags().IntVar(&precision, "precision", 2, "decimal places for numeric statistics")
	return cmd
}

func newSelectCmd() *cobra.Command {
	var statField, statKey string

	cmd := &cobra.Command{
		Use:   "select <layer-file>",
		Short: "Profile a layer and resolve one statistic back to record IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if statField == "" || statKey == "" {
				return fmt.Errorf("--field and --stat are required")
			}
			run, err := runProfile(cmd.Context(), args[0], []string{statField}, 5, 2)
			if err != nil {
				return err
			}
			result, err := lastProfiles.Select(cmd.Context(), run.RunID, statField, profile.Key(statKey))
			if err != nil {
				return err
			}
			if result.Stale {
				fmt.Printf("stale: %s\n", result.Reason)
				return nil
			}
			ids := make([]string, len(result.IDs))
			for i, id := range result.IDs {
				ids[i] = fmt.Sprint(id)
			}
			fmt.Printf("%d record(s): %s\n", len(ids), strings.Join(ids, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&statField, "field", "", "field whose statistic to resolve")
	cmd.Flags().StringVar(&statKey, "stat", "", "statistic key, e.g. null_count or outlier_count")
	return cmd
}

// Shared service instances so select/export can reference runs created by
// runProfile within the same invocation.
var (
	lastProfiles *app.ProfileService
	lastExports  *app.ExportService
)

func profileService() *app.ProfileService {
	if lastProfiles == nil {
		logger := internal.NewLogger(internal.LogLevelWarn)
		lastProfiles = app.NewProfileService(analyze.New(distshape.NewAnalyzer()), logger)
		lastExports = app.NewExportService(lastProfiles, logger)
	}
	return lastProfiles
}

func runProfile(ctx context.Context, path string, fields []string, top, precision int) (*app.RunResult, error) {
	source, err := table.Open(path)
	if err != nil {
		return nil, err
	}
	cfg := profile.DefaultConfig()
	cfg.TopValueLimit = top
	cfg.Precision = precision

	return profileService().Profile(ctx, source, app.ProfileRequest{
		Layer:  source.Layer(),
		Fields: fields,
	}, cfg)
}
