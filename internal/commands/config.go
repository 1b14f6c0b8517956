package commands

import (
	"github.com/spf13/cobra"

	"github.com/telhawk-systems/submission-relay/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return output.YAML(cmd.OutOrStdout(), cfg.Redacted())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
