package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/pgcollect/internal/collect"
	"github.com/alexanderjulianmartinez/pgcollect/internal/config"
	"github.com/alexanderjulianmartinez/pgcollect/internal/container"
	"github.com/alexanderjulianmartinez/pgcollect/internal/report"
)

var version = "dev"

type collectFlags struct {
	configPath  string
	dsn         string
	containerID string
	runtime     string
	outputDir   string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pgcollect",
		Short:         "PostgreSQL diagnostic collection",
		Long:          "Collects PostgreSQL configuration, license state and server logs into a report bundle.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newCollectCmd(), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func newCollectCmd() *cobra.Command {
	var f collectFlags

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Take one snapshot of a PostgreSQL instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}

			logger, err := newLogger(f.verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			bundle, err := report.NewBundle(cfg.Output.Dir)
			if err != nil {
				return err
			}

			c := collect.New(collect.Options{
				DSN:         cfg.Source.DSN,
				ContainerID: cfg.Container.ID,
			}, container.NewResolver(cfg.Container.Runtime, logger), logger)
			res := c.Run(cmd.Context(), bundle)

			manifest, err := bundle.Finalize()
			if err != nil {
				logger.Warn("some staged files could not be copied", zap.Error(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report written to %s\n", bundle.Dir())
			fmt.Fprintf(out, "State: %s\n", res.State)
			fmt.Fprintf(out, "Settings: %d\n", len(res.Config))
			fmt.Fprintf(out, "Log files copied: %d\n", len(manifest.Copied))
			for _, iss := range res.Issues {
				fmt.Fprintf(out, "Issue (%s): %s\n", iss.Step, iss.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config.yaml")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "PostgreSQL DSN to collect information from")
	cmd.Flags().StringVar(&f.containerID, "container-id", "", "Container running PostgreSQL (empty when not containerized)")
	cmd.Flags().StringVar(&f.runtime, "container-runtime", "", "Container runtime binary (docker or podman)")
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "", "Report bundle directory")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

// resolveConfig applies flag > config file > environment > default.
func resolveConfig(cmd *cobra.Command, f collectFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dsn") {
		cfg.Source.DSN = f.dsn
	}
	if cmd.Flags().Changed("container-id") {
		cfg.Container.ID = f.containerID
	}
	if cmd.Flags().Changed("container-runtime") {
		cfg.Container.Runtime = f.runtime
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Dir = f.outputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
