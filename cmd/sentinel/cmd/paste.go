package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"sentinel/internal/application/commands"
)

var (
	pasteFile      string
	pasteClipboard bool
	pasteExtractor string
)

var pasteCmd = &cobra.Command{
	Use:   "paste [text]",
	Short: "Ingest schedule text into the graph",
	Long: `Extract people, activities and energy states from free-form schedule
text and merge them into the graph.

Text is read from the argument, --file, --clipboard or standard input.

Examples:
  sentinel paste --file week.txt
  sentinel paste --clipboard
  pbpaste | sentinel paste
  sentinel paste "Dinner with Aunt Susan on Sunday. She drains me."`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readSchedule(cmd, args)
		if err != nil {
			return err
		}

		if pasteExtractor != "" {
			cfg.Extractor.Kind = pasteExtractor
		}
		d, err := deps()
		if err != nil {
			return err
		}
		extractor, err := d.Extractor()
		if err != nil {
			return err
		}

		ctx := context.Background()
		if cfg.Extractor.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Extractor.Timeout)
			defer cancel()
		}

		pasteCmd := commands.NewPasteCommand(extractor, d.Store, d.Locker, d.Builder, text)
		result, err := pasteCmd.Execute(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("extraction timed out after %s", cfg.Extractor.Timeout)
			}
			return err
		}

		out := cmd.OutOrStdout()
		rep := result.Report
		verb := "Updated"
		if result.Created {
			verb = "Created"
		}
		fmt.Fprintf(out, "%s graph with %s: %d node(s), %d relationship(s)\n", verb, result.Extractor, result.Nodes, result.Edges)
		fmt.Fprintf(out, "  +%d node(s), %d matched existing\n", rep.NodesAdded, rep.NodesMerged)
		fmt.Fprintf(out, "  +%d relationship(s), %d reinforced\n", rep.EdgesAdded, rep.EdgesMerged)
		if rep.Unknown > 0 {
			fmt.Fprintf(out, "  %d relationship(s) could not be classified\n", rep.Unknown)
		}
		if n := len(rep.Consolidation.Merges); n > 0 {
			fmt.Fprintf(out, "  %d duplicate node(s) consolidated\n", n)
		}
		for _, drop := range rep.Dropped {
			fmt.Fprintf(out, "  dropped %s -> %s (%s): %s\n", drop.Source, drop.Target, drop.Relation, drop.Reason)
		}
		return nil
	},
}

// readSchedule picks the input source: argument, file, clipboard, then piped stdin
func readSchedule(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case pasteFile != "":
		data, err := os.ReadFile(pasteFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", pasteFile, err)
		}
		return string(data), nil
	case pasteClipboard:
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return text, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Paste your schedule, then press Ctrl-D:")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read standard input: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func init() {
	pasteCmd.Flags().StringVarP(&pasteFile, "file", "f", "", "read the schedule from a file")
	pasteCmd.Flags().BoolVar(&pasteClipboard, "clipboard", false, "read the schedule from the clipboard")
	pasteCmd.Flags().StringVar(&pasteExtractor, "extractor", "", "override the configured extractor (openrouter, claude, mock)")
	rootCmd.AddCommand(pasteCmd)
}
