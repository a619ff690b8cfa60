package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinical-dashboard/internal/service/dashboard"
	"github.com/jwalitptl/clinical-dashboard/internal/service/dataset"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the synthetic admissions table",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			params, err := cfg.Dataset.Params()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				params.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if cmd.Flags().Changed("count") {
				params.Count, _ = cmd.Flags().GetInt("count")
			}

			records, err := dataset.Generate(params)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "csv":
				return dashboard.WriteCSV(w, records)
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			default:
				return fmt.Errorf("unsupported format %q, expected csv or json", format)
			}
		},
	}

	cmd.Flags().String("format", "csv", "Output format: csv or json")
	cmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")
	cmd.Flags().Int64("seed", 0, "Override dataset.seed")
	cmd.Flags().Int("count", 0, "Override dataset.count")
	return cmd
}
