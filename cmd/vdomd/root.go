package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vdomd",
		Short: "Development host for vdom components",
		Long: `vdomd hosts a vdom component behind a small web frontend so the full
render/patch/event loop can be exercised from a browser. It is a
development collaborator, not the notebook integration itself.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			switch logLevel {
			case "debug":
				level = slog.LevelDebug
			case "warn":
				level = slog.LevelWarn
			case "error":
				level = slog.LevelError
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.AddCommand(serveCmd())
	return cmd
}
