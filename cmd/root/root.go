// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/revol-ver/internal/config"
	"fjacquet/revol-ver/internal/container"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands, used until the
	// container is built.
	Log = logrus.New()

	// ConfigFile is an explicit configuration file given with --config.
	ConfigFile string

	// AppContainer holds the dependencies of the running command.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "revol-ver",
		Short: "Sync Revolut transactions into a local database and spreadsheet.",
		Long: `revol-ver pulls transactions from a static JSON dump or from the Revolut web API,
using credentials captured in a browser HAR trace. It resolves custom categories,
skips transactions already stored and writes the rest to SQLite and to an export file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			Log = config.ConfigureLoggingFromConfig(cfg)

			c, err := container.NewContainer(cfg)
			if err != nil {
				return fmt.Errorf("error initializing application: %w", err)
			}
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
			AppContainer = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if AppContainer == nil {
				return nil
			}
			err := AppContainer.Close()
			AppContainer = nil
			return err
		},
	}
)

// LoadConfig reads the configuration from --config or the standard locations.
func LoadConfig() (*config.Config, error) {
	if ConfigFile != "" {
		return config.LoadConfigFile(ConfigFile)
	}
	return config.InitializeConfig()
}

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Configuration file (default: config.yaml in $HOME/.revol-ver, .revol-ver or .)")
}

// GetContainer returns the container built for the running command, or nil
// before PersistentPreRunE has run.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the active configuration, or nil before initialization.
func GetConfig() *config.Config {
	if AppContainer == nil {
		return nil
	}
	return AppContainer.GetConfig()
}
