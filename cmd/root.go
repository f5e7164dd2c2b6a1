package cmd

import (
	"os"

	"blog/config"
	"blog/logging"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the blog CLI. Flags default to the values already in cfg,
// so they override the environment.
func NewRootCommand(cfg *config.Config, logger logging.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "blog",
		Short:         "Blog post service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Backend, "backend", cfg.Backend, "post store: memory | sqlite | postgres | mongo")
	flags.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "sqlite database file")
	flags.StringVar(&cfg.PostgresURL, "postgres-url", cfg.PostgresURL, "postgres connection string")
	flags.StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "mongodb connection string")
	flags.StringVar(&cfg.MongoDatabase, "mongo-database", cfg.MongoDatabase, "mongodb database name")

	root.AddCommand(
		newServeCommand(cfg, logger),
		newMigrateCommand(cfg, logger),
		newHashPasswordCommand(),
		newTokenCommand(cfg),
	)
	return root
}

// Execute runs the CLI against the process environment and arguments.
func Execute() error {
	logger := logging.New(os.Stdout)
	return NewRootCommand(config.LoadConfig(), logger).Execute()
}
