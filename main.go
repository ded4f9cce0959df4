package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/revol-ver/cmd/auth"
	"fjacquet/revol-ver/cmd/root"
	synccmd "fjacquet/revol-ver/cmd/sync"
	"fjacquet/revol-ver/internal/config"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Configure global log level before any logger is created
	configureLogLevelDirectly()

	// 3. Initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(synccmd.Cmd)
	root.Cmd.AddCommand(auth.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	// .env in the working directory, else in its parent
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}

	// Errors are ignored here; config.LoadEnv reports them once logging is set up
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global logrus level from LOG_LEVEL and
// returns it
func configureLogLevelDirectly() logrus.Level {
	logLevelStr := config.GetEnv("LOG_LEVEL", "")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	// An unparsable level silently falls back to info
	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	// Must happen before the first logger writes anything
	logrus.SetLevel(logLevel)
	return logLevel
}

func main() {
	// Commands return their errors; cobra is told not to print them
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
