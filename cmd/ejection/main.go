// Command ejection computes patched-conic Hohmann transfers between bodies of a catalog.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChristopherRabotin/ejection/config"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ejection",
	Short: "Patched-conic Hohmann transfer planner",
	Long: `ejection computes the phase angle, ejection angle, ejection and capture Δv and the
transfer time of a Hohmann transfer between two bodies orbiting the same primary.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default ejection.toml)")
	rootCmd.PersistentFlags().String("catalog", "", "TOML catalog file (default built-in solar system)")
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ejection")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config"))
		}
	}

	config.BindEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadConfig returns the configuration and the matching logger.
func loadConfig() (config.Config, kitlog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, newLogger(cfg.Log), nil
}

func newLogger(c config.Log) kitlog.Logger {
	var logger kitlog.Logger
	w := kitlog.NewSyncWriter(os.Stderr)
	if c.Format == "json" {
		logger = kitlog.NewJSONLogger(w)
	} else {
		logger = kitlog.NewLogfmtLogger(w)
	}
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	var opt level.Option
	switch c.Level {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}
