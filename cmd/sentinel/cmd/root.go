package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sentinel/internal/application"
	"sentinel/internal/bootstrap"
	"sentinel/internal/config"
	"sentinel/internal/logging"
)

// Exit codes
const (
	ExitOK         = 0
	ExitCollisions = 1
	ExitError      = 2
)

// errCollisionsFound makes check exit with ExitCollisions without printing anything
var errCollisionsFound = errors.New("collisions found")

var (
	configPath string
	debug      bool

	cfg        *config.Config
	logger     *logging.Logger
	components *bootstrap.Components
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Find energy collisions in your week",
	Long: `sentinel turns a pasted schedule into a knowledge graph of people,
activities and energy states, then looks for chains where something
drains the energy another commitment needs.

Typical flow:
  sentinel paste --file week.txt
  sentinel check
  sentinel ack "Aunt Susan"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		mode := ""
		if debug {
			mode = "debug"
		}
		l, err := logging.New(mode)
		if err != nil {
			return err
		}
		logger = l

		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	err := rootCmd.Execute()

	if components != nil {
		if cerr := components.Close(); cerr != nil && err == nil {
			err = cerr
		}
		components = nil
	}
	if logger != nil {
		logger.Sync()
	}

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errCollisionsFound):
		return ExitCollisions
	default:
		fmt.Fprintln(stderr, "Error:", userMessage(err))
		return ExitError
	}
}

// userMessage turns errors into something a user can act on
func userMessage(err error) string {
	switch {
	case errors.Is(err, application.ErrGraphNotFound):
		return "no graph yet, run `sentinel paste` first"
	case errors.Is(err, application.ErrPersistenceCorruption):
		return err.Error() + " (the file was left untouched)"
	case errors.Is(err, bootstrap.ErrMissingAPIKey):
		return err.Error() + ", or use --extractor mock"
	default:
		return err.Error()
	}
}

// deps builds the adapters on first use
func deps() (*bootstrap.Components, error) {
	if components != nil {
		return components, nil
	}
	c, err := bootstrap.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	components = c
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path(), "path to the config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output to stderr")
}
