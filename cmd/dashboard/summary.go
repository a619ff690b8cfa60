package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinical-dashboard/internal/model"
	"github.com/jwalitptl/clinical-dashboard/internal/service/dashboard"
	"github.com/jwalitptl/clinical-dashboard/internal/service/dataset"
	"github.com/jwalitptl/clinical-dashboard/pkg/logger"
	"github.com/jwalitptl/clinical-dashboard/pkg/metrics"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the headline metrics for a filter as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			params, err := cfg.Dataset.Params()
			if err != nil {
				return err
			}

			var q model.DashboardQuery
			if cmd.Flags().Changed("service") {
				q.Services, _ = cmd.Flags().GetStringSlice("service")
				if len(q.Services) == 0 {
					q.Services = []string{""}
				}
			}
			if cmd.Flags().Changed("physician") {
				q.Physicians, _ = cmd.Flags().GetStringSlice("physician")
				if len(q.Physicians) == 0 {
					q.Physicians = []string{""}
				}
			}
			q.From, _ = cmd.Flags().GetString("from")
			q.To, _ = cmd.Flags().GetString("to")

			store := dataset.NewStore(logger.Nop(), metrics.NewNop())
			svc := dashboard.NewService(store, params, nil, nil, nil)

			m, err := svc.Metrics(cmd.Context(), q)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		},
	}

	cmd.Flags().StringSlice("service", nil, "Services to include (default all)")
	cmd.Flags().StringSlice("physician", nil, "Physicians to include (default all)")
	cmd.Flags().String("from", "", "First admission date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "Last admission date, YYYY-MM-DD")
	return cmd
}
