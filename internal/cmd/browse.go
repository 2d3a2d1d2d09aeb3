package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"treepanel/internal/scan"
	"treepanel/internal/tui"
	"treepanel/internal/watch"
)

var browseCmd = &cobra.Command{
	Use:   "browse [directory]",
	Short: "Browse the sorted tree interactively",
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

		if cfg.Watch.Enabled {
			w, err := watch.New(t, scanner, paths, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()
		}

		p := tea.NewProgram(tui.NewModel(t), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("browser failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
