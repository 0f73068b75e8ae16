package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/quantumx/qvr-backend/internal/kafka"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Work with registry change events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Consume the registry event topic and log each event",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return kafka.RunEventTail(ctx, cfg.Kafka, kafka.LogSink{Logger: logger}, logger)
	},
}

func init() {
	eventsCmd.AddCommand(eventsTailCmd)
	rootCmd.AddCommand(eventsCmd)
}
