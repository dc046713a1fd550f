package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sentinel/internal/adapters/opener"
	"sentinel/internal/adapters/render"
	"sentinel/internal/application/commands"
)

var (
	checkVerbose       bool
	checkMinConfidence float64
	checkShowAcked     bool
	checkShowAll       bool
	checkFormat        string
	checkOpen          bool
)

// reportFileName is where check --open writes the HTML report
const reportFileName = "report.html"

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Detect energy collisions",
	Long: `Look for chains where something drains the energy another commitment
needs. Exits with status 1 when collisions are found.

Examples:
  sentinel check
  sentinel check -v --min-confidence 0.3
  sentinel check --format json > collisions.json
  sentinel check --format html > report.html
  sentinel check --open`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deps()
		if err != nil {
			return err
		}

		minConfidence := cfg.MinConfidence()
		if cmd.Flags().Changed("min-confidence") {
			minConfidence = checkMinConfidence
		}
		format := cfg.Output.DefaultFormat
		if cmd.Flags().Changed("format") {
			format = checkFormat
		}

		checkCmd := commands.NewCheckCommand(d.Store, d.Acks, d.Detector, minConfidence)
		checkCmd.IncludeAcknowledged = checkShowAcked
		checkCmd.IncludeLowConfidence = checkShowAll
		result, err := checkCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		report := render.NewReport(result.Result, result.MinConfidence)
		if checkOpen {
			if err := openReport(cmd, report); err != nil {
				return err
			}
		} else if err := render.Write(cmd.OutOrStdout(), format, report, checkVerbose); err != nil {
			return err
		}
		if result.Unresolved() > 0 {
			return errCollisionsFound
		}
		return nil
	},
}

// openReport writes the HTML report next to the graph and shows it in the browser
func openReport(cmd *cobra.Command, report render.Report) error {
	path := filepath.Join(cfg.Storage.DataDir, reportFileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := render.WriteHTML(f, report); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Report written to", path)
	if err := opener.NewBrowser().Open(path); err != nil {
		logger.Warn("could not open browser", "path", path, "error", err)
	}
	return nil
}

func init() {
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "show every relationship of each collision")
	checkCmd.Flags().Float64Var(&checkMinConfidence, "min-confidence", 0.5, "hide collisions below this confidence")
	checkCmd.Flags().BoolVar(&checkShowAcked, "show-acked", false, "include acknowledged collisions")
	checkCmd.Flags().BoolVar(&checkShowAll, "all", false, "include collisions below the confidence threshold")
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "output format: text, json or html")
	checkCmd.Flags().BoolVar(&checkOpen, "open", false, "write an HTML report and open it in the browser")
	rootCmd.AddCommand(checkCmd)
}
