package commands

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/autobrr/mediaweb/internal/config"
	"github.com/autobrr/mediaweb/internal/logger"
)

// RootCommand returns the mediaweb command tree.
func RootCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "mediaweb",
		Short: "media-web front end",
		Long:  `Serves the media-web pages and renders the backend configuration.`,
		Example: `  mediaweb serve --config config.toml
  mediaweb route /config
  mediaweb config fetch`,
		SilenceUsage: true,
	}

	command.PersistentFlags().String("config", "config.toml", "path to config file (.toml, .yaml)")

	command.AddCommand(ServeCommand())
	command.AddCommand(RouteCommand())
	command.AddCommand(ConfigCommand())
	command.AddCommand(VersionCommand())

	return command
}

// loadConfig reads the --config file and initializes logging. A missing file
// falls back to defaults plus environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		cfg = config.Default()
		if err := config.LoadEnvOverrides(cfg); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		logger.Init(cfg.Log.Pretty)
		log.Warn().Str("path", path).Msg("Config file not found, using defaults")
		return cfg, nil
	}

	logger.Init(cfg.Log.Pretty)
	return cfg, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
