package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinical-dashboard/pkg/messaging/redis"
)

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the dashboard event stream",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "tail",
		Short: "Print dashboard events as they are published",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			broker, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Events.RedisURL}, log.Zerolog())
			if err != nil {
				return err
			}
			defer broker.Close()

			messages, err := broker.Subscribe(ctx, cfg.Events.Channel)
			if err != nil {
				return err
			}

			log.Info("tailing events", "channel", cfg.Events.Channel)
			for msg := range messages {
				fmt.Fprintln(cmd.OutOrStdout(), string(msg))
			}
			return nil
		},
	})

	return cmd
}
