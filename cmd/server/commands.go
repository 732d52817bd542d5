package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/policydesk/internal/config"
	"github.com/mmynk/policydesk/internal/service"
	"github.com/mmynk/policydesk/internal/storage/sqlite"
	"github.com/mmynk/policydesk/internal/web"
	"github.com/mmynk/policydesk/pkg/logging"
)

// newRootCmd builds the command tree. The resolved configuration is shared
// by the subcommands through cfg.
func newRootCmd() *cobra.Command {
	var (
		cfg        config.Config
		configPath string
	)

	root := &cobra.Command{
		Use:   "policydesk",
		Short: "Register of insured persons and their insurance policies",
		Long: `policydesk serves a web register of insured persons and insurance
policies backed by a local SQLite database.

Running it without a subcommand is the same as "policydesk serve".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = loadConfig(cmd, configPath); err != nil {
				return err
			}
			logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))
			slog.Debug("Configuration loaded", "addr", cfg.Addr, "db_path", cfg.DBPath, "per_page", cfg.PerPage)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.String("addr", "", "listen address (default \":5000\")")
	flags.String("db", "", "SQLite database file (default \"./data/insurance.db\")")
	flags.Int("per-page", 0, "rows per listing page (default 3)")
	flags.String("log-level", "", "debug, info, warn or error (default \"info\")")
	flags.Bool("metrics", true, "expose Prometheus metrics on /metrics")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	root.RunE = serve.RunE

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.NewContext(cmd.Context(), cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			repo := service.NewRepository(store)
			persons, err := repo.CountPersons(cmd.Context())
			if err != nil {
				return err
			}
			policies, err := repo.CountPolicies(cmd.Context())
			if err != nil {
				return err
			}
			slog.Info("Schema ready", "database", cfg.DBPath, "persons", persons, "policies", policies)
			return nil
		},
	}

	dump := &cobra.Command{
		Use:   "dump",
		Short: "Print every insured person with their policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.NewContext(cmd.Context(), cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			persons, err := service.NewRepository(store).LoadAllPersons(cmd.Context())
			if err != nil {
				return err
			}
			return web.WriteDump(cmd.OutOrStdout(), persons)
		},
	}

	root.AddCommand(serve, migrate, dump)
	return root
}

// loadConfig resolves the configuration: defaults, then the YAML file, then
// the environment, then any flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command, path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("per-page") {
		cfg.PerPage, _ = flags.GetInt("per-page")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("metrics") {
		cfg.MetricsEnabled, _ = flags.GetBool("metrics")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
