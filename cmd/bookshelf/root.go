package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"pollex.nl/bookshelf/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "GraphQL server for a small collection of authors and books",
	Long: `
bookshelf serves two in-memory collections, authors and books, through a single
GraphQL endpoint. Records can be listed, looked up by id and appended; nothing
outlives the process.

Every flag can also be set through the environment (BOOKSHELF_ADDR,
BOOKSHELF_STORE, ...) or a configuration file passed with --config.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the GraphQL server (default command)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "bookshelf", version)
	},
}

var conf = viper.New()

func init() {
	defaults := server.DefaultConfig()

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Configuration file. Overridden by environment variables and flags.")
	flags.String("log-level", "info", "Log level: debug, info, warn or error.")
	flags.String("addr", defaults.BindAddress, "HTTP listen address.")
	flags.String("path", defaults.Path, "Path of the GraphQL endpoint.")
	flags.Bool("graphiql", defaults.EnableGraphiQL, "Serve the GraphiQL console on the GraphQL endpoint.")
	flags.StringSlice("cors-origins", defaults.CORSOrigins, "Allowed CORS origins.")
	flags.Int("max-depth", defaults.MaxQueryDepth, "Maximum query nesting depth.")
	flags.Duration("shutdown-timeout", defaults.ShutdownTimeout, "Graceful shutdown timeout.")
	flags.String("store", "memory", "Store backend: memory or sqlite.")
	flags.String("sqlite-dsn", "", "SQLite DSN for the sqlite store. Empty opens a private in-memory database.")
	_ = conf.BindPFlags(flags)

	conf.SetEnvPrefix("BOOKSHELF")
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	cobra.OnInitialize(func() {
		cfg := conf.GetString("config")
		if cfg == "" {
			return
		}
		conf.SetConfigFile(cfg)
		cobra.CheckErr(errors.Wrap(conf.ReadInConfig(), "reading config"))
	})

	rootCmd.AddCommand(serveCmd, versionCmd)
}

func serverConfig(v *viper.Viper) (server.Config, error) {
	config := server.Config{
		BindAddress:     v.GetString("addr"),
		Path:            v.GetString("path"),
		EnableGraphiQL:  v.GetBool("graphiql"),
		CORSOrigins:     v.GetStringSlice("cors-origins"),
		MaxQueryDepth:   v.GetInt("max-depth"),
		ShutdownTimeout: v.GetDuration("shutdown-timeout"),
	}
	if err := config.Validate(); err != nil {
		return server.Config{}, err
	}

	return config, nil
}

func newLogger(level string) (*zap.Logger, error) {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	if atomic.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = atomic

	return cfg.Build()
}
