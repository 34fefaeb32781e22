package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/docquery-go/internal/config"
	"github.com/AntonStoeckl/docquery-go/internal/logging"
)

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	configPath string
	logLevel   string
	cfg        config.Config
	logger     *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "docquery",
		Short: "Run MongoDB shell style queries against a document collection",
		Long: `docquery parses statements of the form

  db.<collection>.count()
  db.<collection>.find({filter}).sort({field: 1|-1}).limit(n)

and runs them against the configured engine (mongo, postgres, or memory).

Configuration comes from the file given with --config and from DOCQUERY_*
environment variables, e.g. DOCQUERY_ENGINE=postgres DOCQUERY_POSTGRES_DSN=...`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides the configuration)")

	root.AddCommand(
		newServeCommand(a),
		newQueryCommand(a),
		newShellCommand(a),
		newLoadCommand(a),
	)

	return root
}

func (a *app) load(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := logging.New(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}
