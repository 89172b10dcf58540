package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "List or add stored comments",
	}
	cmd.AddCommand(newCommentsListCmd(), newCommentsAddCmd())
	return cmd
}

func newCommentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all comments",
		Long:  "List all stored comments in insertion order, from local storage or a running server (--server).",
		Args:  cobra.NoArgs,
		RunE:  runCommentsList,
	}
}

func runCommentsList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if url := getServerURL(); url != "" {
		comments, err := newAPIClient(url).ListComments(cmd.Context())
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(out, comments)
		}
		return printCommentTable(out, comments)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	comments, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out, comments)
	}
	return printCommentTable(out, comments)
}

func newCommentsAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   `add --name NAME "text"`,
		Short: "Add a comment",
		Long:  "Append a comment to the store, exactly as POST /api/comments would.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommentsAdd(cmd, name, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "commenter name")

	return cmd
}

func runCommentsAdd(cmd *cobra.Command, name, text string) error {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)
	if name == "" || text == "" {
		return fmt.Errorf("name and text are required")
	}

	out := cmd.OutOrStdout()

	if url := getServerURL(); url != "" {
		res, err := newAPIClient(url).AddComment(cmd.Context(), name, text)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(out, res)
		}
		fmt.Fprintln(out, res.Message)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := store.Append(cmd.Context(), name, text)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out, c)
	}
	fmt.Fprintf(out, "Added comment #%d\n", c.ID)
	return nil
}
