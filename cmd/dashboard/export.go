package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/fleet-dashboard/internal/auth"
	"github.com/pkordes/fleet-dashboard/internal/config"
	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/export"
	"github.com/pkordes/fleet-dashboard/internal/repo"
	"github.com/pkordes/fleet-dashboard/internal/service"
)

type exportFlags struct {
	filter domain.FilterSpec
	sort   string
	dir    string
	format string
	out    string
	token  string
}

func exportCommand() *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every matching trip to XLSX or CSV",
		Long: `export walks every backend page matching the filters, groups and sorts
the trips the way the list view shows them, and writes them to a file.
Multi-container trips are written one line per container.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runExport(ctx, cmd, cfg, f)
		},
	}

	cmd.Flags().StringVar(&f.filter.Company, "company", "", "Only trips of this company")
	cmd.Flags().StringVar(&f.filter.StartDate, "start", "", "Start date, YYYY-MM-DD (needs --end)")
	cmd.Flags().StringVar(&f.filter.EndDate, "end", "", "End date, YYYY-MM-DD (needs --start)")
	cmd.Flags().StringVar(&f.filter.Search, "search", "", "Free-text search")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort key, e.g. date, company, distance")
	cmd.Flags().StringVar(&f.dir, "dir", "asc", "Sort direction: asc or desc")
	cmd.Flags().StringVar(&f.format, "format", "xlsx", "Output format: xlsx or csv")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output file (default trips_<timestamp>.<ext>)")
	cmd.Flags().StringVar(&f.token, "token", os.Getenv("DASHBOARD_TOKEN"), "Backend bearer token (default $DASHBOARD_TOKEN)")
	return cmd
}

func runExport(ctx context.Context, cmd *cobra.Command, cfg config.Config, f exportFlags) error {
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}
	key, err := domain.ParseSortKey(f.sort)
	if err != nil {
		return err
	}
	dir := domain.Direction(f.dir)
	if dir != domain.Ascending && dir != domain.Descending {
		return fmt.Errorf("%w: --dir must be asc or desc", domain.ErrValidation)
	}
	if f.token != "" {
		if _, err := auth.Inspect(f.token, time.Now()); err != nil {
			return err
		}
		ctx = auth.WithToken(ctx, f.token)
	}

	logger := newLogger(cfg.LogLevel)
	client, err := newBackendClient(cfg, logger)
	if err != nil {
		return err
	}
	exports := service.NewExportService(repo.NewTripRepo(client), nil)

	name := f.out
	if name == "" {
		name = export.Filename("trips", format, time.Now())
	}
	out, err := os.Create(name)
	if err != nil {
		return err
	}

	n, err := exports.ExportAll(ctx, out, service.ExportAllRequest{
		Filter: f.filter,
		Sort:   domain.SortSpec{Key: key, Direction: dir},
		Format: format,
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("%s: %w", repo.UserMessage(err), err)
	}

	cmd.Printf("wrote %d trips to %s\n", n, name)
	return nil
}
