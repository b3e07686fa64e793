// Package cli defines the sitless command line: the default command launches
// the desktop app, subcommands read the stored history.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitless/internal/app"
	"sitless/internal/config"
	"sitless/internal/logging"
)

var (
	dataDir string
	version = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "sitless",
	Short: "Sit less, move more",
	Long: `Sitless counts down a sitting period, tells you to get up and move,
then counts down the activity break and tracks how many round trips you
complete each day.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.New(os.Stderr, config.AppName, cfg.LogLevel, cfg.LogFormat)
		return app.Run(cfg, logger)
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding settings.yaml and sitless.db (overrides SITLESS_DATA_DIR)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(todayCmd)
}
