package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"treepanel/internal/scan"
	"treepanel/internal/tree"
	"treepanel/pkg/types"
)

var printDirStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#81A1C1")).Bold(true)

var printCmd = &cobra.Command{
	Use:   "print [directory]",
	Short: "Print the sorted tree once and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := buildTree(args)
		if err != nil {
			return err
		}
		printTree(cmd, t)
		return nil
	},
}

// buildTree scans the requested (or configured) root under the configured
// sort settings. Shared by print, browse, and watch.
func buildTree(args []string) (*tree.Tree, error) {
	root := cfg.Panel.Root
	if len(args) > 0 {
		root = args[0]
	}

	sortCfg, err := cfg.ToSortConfig()
	if err != nil {
		return nil, err
	}

	scanner, err := scan.New(cfg)
	if err != nil {
		return nil, err
	}

	t, _, err := scanner.Build(root, sortCfg)
	return t, err
}

func printTree(cmd *cobra.Command, t *tree.Tree) {
	t.Walk(func(e *types.Entry, depth int) {
		name := e.Name
		if e.IsDir() {
			name = printDirStyle.Render(name + "/")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", strings.Repeat("  ", depth), name)
	})
}

func init() {
	rootCmd.AddCommand(printCmd)
}
