package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"vadimgribanov.com/tg-reminder/internal/repositories"
	"vadimgribanov.com/tg-reminder/internal/services"
)

func newSweepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Deliver due reminders once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := openDB(ctx, a.config)
			if err != nil {
				return err
			}
			defer db.Close()

			b, err := newBot(ctx, a.config, nil, true)
			if err != nil {
				return err
			}
			mailer, err := newMailer(ctx, a.config)
			if err != nil {
				return err
			}

			reminderService := services.NewReminderService(
				repositories.NewReminderRepo(db),
				services.NewTelegramNotifier(b),
				mailer,
				a.config.Scheduler.BatchSize,
			)
			processed, err := reminderService.Sweep(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed: %d\n", processed)
			return nil
		},
	}
}
