package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"treepanel/internal/config"
	"treepanel/internal/log"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "treepanel",
	Short: "A configurable ordering engine for file-tree panels",
	Long: `Treepanel displays a directory tree with a configurable child
ordering: alphabetical or natural sorting, optional directories-first
grouping, case precedence, and full-order reversal. The ordering follows
the tree live as entries appear, disappear, or are renamed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetDebug(debug)

		var err error
		if cfgFile != "" {
			cfg, err = config.LoadConfigFile(cfgFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/treepanel/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}
