package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sentinel/internal/adapters/render"
	"sentinel/internal/application/commands"
)

var (
	correctReason string
	correctFrom   string
)

var correctCmd = &cobra.Command{
	Use:   "correct",
	Short: "Fix what the extractor got wrong",
	Long: `Delete inferred nodes, change or remove relationships, and list past
corrections. Every correction is recorded with what it replaced.`,
}

var correctDeleteCmd = &cobra.Command{
	Use:   "delete <node>",
	Short: "Delete an inferred node and its relationships",
	Long: `Delete a node the extractor inferred, together with every relationship
touching it. Nodes you stated yourself cannot be deleted.

Examples:
  sentinel correct delete "tired"
  sentinel correct delete "tired" --reason "I was fine"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deps()
		if err != nil {
			return err
		}
		deleteCmd := commands.NewDeleteNodeCommand(d.Store, d.Locker, d.Resolver, args[0], correctReason)
		result, err := deleteCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var correctModifyCmd = &cobra.Command{
	Use:   "modify <source> <target> <relation>",
	Short: "Change the relation of a relationship",
	Long: `Change the relation between two nodes. When more than one relationship
connects them, pick the one to change with --from.

Examples:
  sentinel correct modify "Aunt Susan" drained energizes
  sentinel correct modify gym focused requires --from drains`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deps()
		if err != nil {
			return err
		}
		modifyCmd := commands.NewModifyEdgeCommand(d.Store, d.Locker, d.Resolver, args[0], args[1], args[2])
		modifyCmd.FromRelation = correctFrom
		modifyCmd.Reason = correctReason
		result, err := modifyCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var correctRemoveEdgeCmd = &cobra.Command{
	Use:   "remove-edge <source> <target> [relation]",
	Short: "Remove relationships between two nodes",
	Long: `Remove the relationships from source to target. Without a relation
every relationship between them is removed.

Examples:
  sentinel correct remove-edge "Aunt Susan" drained
  sentinel correct remove-edge gym tired drains`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deps()
		if err != nil {
			return err
		}
		relation := ""
		if len(args) == 3 {
			relation = args[2]
		}
		removeCmd := commands.NewRemoveEdgeCommand(d.Store, d.Locker, d.Resolver, args[0], args[1], relation)
		removeCmd.Reason = correctReason
		result, err := removeCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var correctListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past corrections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deps()
		if err != nil {
			return err
		}
		entries, err := commands.NewListCorrectionsCommand(d.Store).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No corrections")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintln(out, render.Correction(e.CorrectionRecord, e.Missing))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{correctDeleteCmd, correctModifyCmd, correctRemoveEdgeCmd} {
		c.Flags().StringVar(&correctReason, "reason", "", "why the correction was made")
	}
	correctModifyCmd.Flags().StringVar(&correctFrom, "from", "", "current relation, when several connect the nodes")

	correctCmd.AddCommand(correctDeleteCmd, correctModifyCmd, correctRemoveEdgeCmd, correctListCmd)
	rootCmd.AddCommand(correctCmd)
}
