/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KC-426/aeonaxy/internal/mq"
	"github.com/KC-426/aeonaxy/internal/notify"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Delivers queued notification emails",
	Long: `Consumes the notification queue and delivers every message through
the configured email provider. Requires NOTIFY_QUEUE to be rabbitmq or
pubsub.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		backend, err := mq.New(cmd.Context(), cfg.Notify)
		if err != nil {
			return fmt.Errorf("connect queue: %w", err)
		}
		defer func() {
			if err := backend.Close(); err != nil {
				slog.Warn("close queue", slog.Any("error", err))
			}
		}()

		sender, err := notify.NewProvider(cfg.Notify)
		if err != nil {
			return fmt.Errorf("email provider: %w", err)
		}

		slog.Info("delivering queued notifications",
			slog.String("queue", cfg.Notify.Queue),
			slog.String("provider", cfg.Notify.Provider))
		err = notify.NewWorker(backend, cfg.Notify.Channel, sender).Run(cmd.Context())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
