package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that a folio server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := getServerURL()
			if url == "" {
				url = "http://localhost:5000"
			}
			if err := newAPIClient(url).Health(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", url, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is up\n", url)
			return nil
		},
	}
}
