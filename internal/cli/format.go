package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/folio/internal/comment"
)

// printJSON writes v as indented JSON with non-ASCII kept literal.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCommentTable prints comments as an aligned table.
func printCommentTable(w io.Writer, comments []comment.Comment) error {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tNAME\tTEXT")
	for _, c := range comments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, formatDate(c.Date), c.Name, truncate(c.Text, 60))
	}
	return tw.Flush()
}

// formatDate trims the microseconds from a stored timestamp.
func formatDate(date string) string {
	if i := strings.IndexByte(date, '.'); i > 0 {
		return strings.Replace(date[:i], "T", " ", 1)
	}
	return strings.Replace(date, "T", " ", 1)
}

// truncate shortens s to max runes, flattening newlines.
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
