// Package cmd holds the command line interface of the SOT ledger.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"api_ledger/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sot",
	Short: "Edit and recompute the SOT purchase/resale ledger",
	Long: `sot loads the SOT ledger table (auction lots and their resale),
recomputes realized profit and ROI per line, and serves a JSON API to edit,
import, export and save it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./sot.yaml if present)")
	rootCmd.AddCommand(serveCmd, recomputeCmd, summaryCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration, letting the flags of cmd named in
// keys override file and environment values when they were set.
func loadConfig(cmd *cobra.Command, keys ...string) (config.Config, error) {
	v, err := config.New(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if err := bindFlags(v, cmd, keys...); err != nil {
		return config.Config{}, err
	}
	return config.FromViper(v)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys ...string) error {
	for _, key := range keys {
		flag := cmd.Flags().Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(configKey(key), flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}

// configKey maps a flag name (table-path) to its config key (table_path).
func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}
