package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"treepanel/internal/log"
	"treepanel/internal/scan"
	"treepanel/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Reprint the sorted tree as the directory changes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cfg.Panel.Root
		if len(args) > 0 {
			root = args[0]
		}

		sortCfg, err := cfg.ToSortConfig()
		if err != nil {
			return err
		}
		scanner, err := scan.New(cfg)
		if err != nil {
			return err
		}
		t, paths, err := scanner.Build(root, sortCfg)
		if err != nil {
			return err
		}

		w, err := watch.New(t, scanner, paths, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		updates := t.Subscribe(16)
		printTree(cmd, t)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case dirID := <-updates:
				log.LogWithFields(log.F("directory", dirID)).Debug("Order recomputed")
				fmt.Fprintln(cmd.OutOrStdout())
				printTree(cmd, t)
			case <-sigChan:
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
