package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/partner-console-tui/internal/app"
	"github.com/j-veylop/partner-console-tui/internal/config"
	"github.com/j-veylop/partner-console-tui/internal/logger"
	"github.com/j-veylop/partner-console-tui/internal/services"
	"github.com/j-veylop/partner-console-tui/internal/ui/tabs/customers"
	"github.com/j-veylop/partner-console-tui/internal/ui/tabs/info"
	"github.com/j-veylop/partner-console-tui/internal/ui/tabs/overview"
)

// overrides holds the flags that take precedence over the environment.
type overrides struct {
	seed   int
	region string
	days   int
}

func newRootCommand() *cobra.Command {
	var flags overrides

	root := &cobra.Command{
		Use:   "pct",
		Short: "Partner Console: synthetic multi-tenant storage usage dashboard",
		Long: `Partner Console renders a seeded, fully synthetic roster of 100 storage
customers across 5 regions: KPI tiles, daily charts, a sortable customer
table and per-customer detail.

Configuration is read from the first .env file found (current directory,
~/.config/partner-console/.env) and the environment:
  DEMO_SEED, DEMO_REGION, DEMO_DAYS_BACK, EXPORT_DIR, SNAPSHOT_DB_PATH,
  LOG_PATH, NOTIFY_ON_EXPORT, WATCH_ENV`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}

	root.PersistentFlags().IntVar(&flags.seed, "seed", config.DefaultSeed, "generator seed (overrides DEMO_SEED)")
	root.PersistentFlags().StringVar(&flags.region, "region", "", "start region: all or a region id (overrides DEMO_REGION)")
	root.PersistentFlags().IntVar(&flags.days, "days", config.DefaultDaysBack, "lookback window in days (overrides DEMO_DAYS_BACK)")

	root.AddCommand(newExportCommand(&flags))
	root.AddCommand(newSummaryCommand(&flags))
	root.AddCommand(newVersionCommand())

	return root
}

// loadConfig reads the environment, applies flags the user set explicitly
// and validates the result, so a valid flag can replace an invalid value.
func loadConfig(cmd *cobra.Command, flags overrides) (*config.Config, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	pf := cmd.Flags()
	if pf.Changed("seed") {
		cfg.Seed = flags.seed
		// An explicit seed wins over later .env edits.
		cfg.WatchEnv = false
	}
	if pf.Changed("region") {
		cfg.Region = flags.region
	}
	if pf.Changed("days") {
		cfg.DaysBack = flags.days
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runTUI wires services and tabs and blocks until the user quits.
func runTUI(cfg *config.Config) error {
	logCloser, err := logger.Init(cfg.LogPath, slog.LevelInfo)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		overview.New(state),
		customers.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	logger.Info("starting dashboard", "seed", cfg.Seed, "region", cfg.Region, "days", cfg.DaysBack)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
