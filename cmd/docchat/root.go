package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/0xcro3dile/docchat-go/internal/config"
	"github.com/0xcro3dile/docchat-go/internal/infrastructure/logging"
)

const defaultConfigFile = "docchat.toml"

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configFile string
	envFile    string
	docsPath   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "docchat",
		Short:         "Ask questions about a directory of Markdown, text and PDF documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to a TOML or YAML config file (default: $DOCCHAT_CONFIG or ./docchat.toml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to a .env file")
	cmd.PersistentFlags().StringVarP(&opts.docsPath, "docs", "d", "", "Documents directory (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newServeCmd(opts),
		newAskCmd(opts),
		newHistoryCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load resolves configuration from files, the environment and flags.
func (o *rootOptions) load() (*config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}

	path, err := o.resolveConfigFile()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if o.docsPath != "" {
		cfg.Documents.Path = o.docsPath
	}
	if o.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(o.logLevel)
	}
	return cfg, nil
}

// resolveConfigFile returns "" when no config file is named and the
// default one is absent.
func (o *rootOptions) resolveConfigFile() (string, error) {
	if o.configFile != "" {
		return o.configFile, nil
	}
	if env := os.Getenv("DOCCHAT_CONFIG"); env != "" {
		return env, nil
	}
	if _, err := os.Stat(defaultConfigFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return defaultConfigFile, nil
}

func newLogger(cfg *config.Config) arbor.ILogger {
	return logging.New(cfg.Logging)
}
