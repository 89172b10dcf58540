package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/folio/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after defaults, config file, .env, environment and flags are applied. The SMTP password is redacted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), cfg.Redacted())
			}
			return config.Write(cmd.OutOrStdout(), cfg.Redacted())
		},
	})
	return cmd
}
