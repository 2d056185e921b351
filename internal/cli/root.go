// Package cli implements the packdex command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"packdex/pkg/config"
	"packdex/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "packdex",
	Short: "Compressed inverted index toolchain",
	Long: `packdex builds a compressed inverted index from a text corpus and
answers boolean queries against it.

The dictionary is stored with blocked front coding and the postings
lists with d-gaps plus variable-byte coding. Queries combine terms
with AND, OR, NOT and parentheses.

Example usage:
  packdex build ./corpus
  packdex search "(gato OR perro) AND NOT ratón"
  packdex shell`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults plus PD_* environment overrides when omitted)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetConfig returns the configuration loaded for this invocation.
func GetConfig() *config.Config {
	return cfg
}
