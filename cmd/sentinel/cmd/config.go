package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sentinel/internal/adapters/opener"
	"sentinel/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and
environment overrides are applied. The API key is masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cfg.Redacted().YAML()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", configPath)
		_, err = out.Write(data)
		return err
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	Long: `Open the config file in $EDITOR. A missing file is first written
with the default settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			data, err := config.Default().YAML()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.WriteFile(configPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write default config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote default config to", configPath)
		}
		return opener.NewEditor().OpenFile(configPath)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configEditCmd)
	rootCmd.AddCommand(configCmd)
}
