package cmd

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sentinel/internal/adapters/tui"
	"sentinel/internal/application/commands"
	"sentinel/internal/domain"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse and acknowledge collisions interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deps()
		if err != nil {
			return err
		}
		minConfidence := cfg.MinConfidence()

		load := func(includeAcked bool) ([]domain.ScoredCollision, error) {
			checkCmd := commands.NewCheckCommand(d.Store, d.Acks, d.Detector, minConfidence)
			checkCmd.IncludeAcknowledged = includeAcked
			result, err := checkCmd.Execute(context.Background())
			if err != nil {
				return nil, err
			}
			return slices.Collect(result.All()), nil
		}
		ack := func(label, path string) (string, error) {
			ackCmd := commands.NewAckCommand(d.Acks, d.Store, d.Locker, d.Resolver, label)
			ackCmd.Path = path
			result, err := ackCmd.Execute(context.Background())
			if err != nil {
				return "", err
			}
			return result.Message, nil
		}

		p := tea.NewProgram(tui.NewApp(load, ack), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
