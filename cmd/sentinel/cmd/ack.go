package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sentinel/internal/application/commands"
)

var (
	ackList   bool
	ackRemove bool
)

var ackCmd = &cobra.Command{
	Use:   "ack [node]",
	Short: "Acknowledge collisions involving a node",
	Long: `Acknowledge a node so collisions it triggers or impacts are hidden
from check. Acknowledgments survive later pastes.

Examples:
  sentinel ack "Aunt Susan"
  sentinel ack --list
  sentinel ack "Aunt Susan" --remove`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deps()
		if err != nil {
			return err
		}
		ctx := context.Background()
		out := cmd.OutOrStdout()

		if ackList {
			acks, err := commands.NewListAcksCommand(d.Acks).Execute(ctx)
			if err != nil {
				return err
			}
			if len(acks) == 0 {
				fmt.Fprintln(out, "No acknowledgments")
				return nil
			}
			for _, a := range acks {
				fmt.Fprintf(out, "%s  %s  %s\n", a.CreatedAt.Format("2006-01-02"), a.Key, a.Label)
			}
			return nil
		}

		if len(args) == 0 {
			return errors.New("a node name is required unless --list is given")
		}

		if ackRemove {
			unackCmd := commands.NewUnackCommand(d.Acks, d.Store, d.Locker, d.Resolver, args[0])
			result, err := unackCmd.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, result.Message)
			return nil
		}

		ackCmd := commands.NewAckCommand(d.Acks, d.Store, d.Locker, d.Resolver, args[0])
		result, err := ackCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.Message)
		return nil
	},
}

func init() {
	ackCmd.Flags().BoolVarP(&ackList, "list", "l", false, "list acknowledgments")
	ackCmd.Flags().BoolVar(&ackRemove, "remove", false, "remove the acknowledgment instead")
	rootCmd.AddCommand(ackCmd)
}
