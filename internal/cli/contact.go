package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/folio/internal/contact"
)

func newContactCmd() *cobra.Command {
	var name, addr string

	cmd := &cobra.Command{
		Use:   `contact --name NAME --email EMAIL "message"`,
		Short: "Submit the contact form on a running server",
		Long:  "Post a contact-form message to a running folio server (--server, default http://localhost:5000). Useful for checking mail delivery after a deploy.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := contact.Message{Name: name, Email: addr, Message: strings.Join(args, " ")}.Normalize()
			if err := msg.Validate(); err != nil {
				return err
			}

			res, err := newAPIClient(getServerURL()).SendContact(cmd.Context(), msg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, res)
			}
			fmt.Fprintln(out, res.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "sender name")
	cmd.Flags().StringVar(&addr, "email", "", "sender email address")

	return cmd
}
