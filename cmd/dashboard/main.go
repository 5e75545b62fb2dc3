// Package main is the entry point for the fleet dashboard.
// Its sole responsibility is wiring dependencies together and running the
// selected command. No business logic belongs here.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pkordes/fleet-dashboard/internal/config"
	"github.com/pkordes/fleet-dashboard/internal/repo"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Fleet trip dashboard",
		Long: `dashboard serves the trip list, statistics and service-invoice API in
front of the fleet backend, and exports trips from the command line.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// A missing .env is normal in production; the environment is used as is.
			path, _ := cmd.Flags().GetString("env-file")
			if err := godotenv.Load(path); err != nil && cmd.Flags().Changed("env-file") {
				slog.Warn("could not load env file", "path", path, "error", err)
			}
		},
	}
	root.PersistentFlags().String("env-file", ".env", "Env file to load before reading configuration")

	root.AddCommand(serveCommand())
	root.AddCommand(exportCommand())
	return root
}

// newLogger builds the JSON logger for level, falling back to info.
func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// newBackendClient builds the REST client every repo shares.
func newBackendClient(cfg config.Config, logger *slog.Logger) (*repo.Client, error) {
	hc := &http.Client{Timeout: cfg.BackendTimeout}
	return repo.NewClient(cfg.BackendURL, hc, logger)
}
