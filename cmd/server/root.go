package main

import (
	"hireflow/internal/config"
	"hireflow/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "hireflow"

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "hireflow is a recruitment backend: jobs, applications and contracts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("env-file", "", "dotenv file to load before reading the environment (default .env)")
	rootCmd.PersistentFlags().String("config", "", "config file (env, yaml, json or toml) read by viper; environment variables take precedence")
}

// setup loads configuration and builds the logger; flags override LOG_JSON and LOG_DEBUG.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFrom(config.Sources{EnvFile: envFile, ConfigFile: configFile})
	if err != nil {
		return config.Config{}, nil, err
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.App.LogDebug = true
	}
	if json, _ := cmd.Flags().GetBool("json"); json {
		cfg.App.LogJSON = true
	}

	log, err := logger.New(logger.Options{
		JSON:  cfg.App.LogJSON,
		Debug: cfg.App.LogDebug,
		App:   cfg.App.AppName,
		Env:   cfg.App.Environment,
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}
