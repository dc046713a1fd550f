package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sentinel/internal/adapters/render"
	"sentinel/internal/application/commands"
)

var (
	graphDepth  int
	graphFormat string
)

var graphCmd = &cobra.Command{
	Use:   "graph [node]",
	Short: "Show the graph or a node's neighborhood",
	Long: `List every node and relationship, or only those within --depth hops
of a node. Node names are matched fuzzily.

Examples:
  sentinel graph
  sentinel graph "aunt susan"
  sentinel graph presentation --depth 3 --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deps()
		if err != nil {
			return err
		}

		node := ""
		if len(args) == 1 {
			node = args[0]
		}
		graphCmd := commands.NewGraphCommand(d.Store, d.Resolver, node, graphDepth)
		result, err := graphCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		if result.Warning != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", result.Warning)
		}

		out := cmd.OutOrStdout()
		switch graphFormat {
		case render.FormatText:
			return render.WriteGraphText(out, result.Graph, result.Focus, result.Depth)
		case render.FormatJSON:
			return render.WriteGraphJSON(out, result.Graph, result.Focus, result.Depth)
		default:
			return fmt.Errorf("unknown format %q (expected text or json)", graphFormat)
		}
	},
}

func init() {
	graphCmd.Flags().IntVarP(&graphDepth, "depth", "d", commands.DefaultGraphDepth, fmt.Sprintf("hops around the node (1-%d)", commands.MaxGraphDepth))
	graphCmd.Flags().StringVar(&graphFormat, "format", render.FormatText, "output format: text or json")
	rootCmd.AddCommand(graphCmd)
}
