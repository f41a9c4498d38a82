package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/hashrateindex-client/cmd/hrindex/commands"
	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	cfgFile := viper.GetString(commands.KeyConfig)

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.hrindex/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// HRINDEX_KEY, HRINDEX_ENDPOINT, HRINDEX_LOG_FILE...
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool(commands.KeyDebug) {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewRootCommand(version, commit, date).ExecuteContext(ctx)

	stop()

	if code := commands.ExitCode(err, os.Stderr); code != 0 {
		os.Exit(code)
	}
}
