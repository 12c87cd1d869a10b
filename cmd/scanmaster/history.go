package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/scanmaster/internal/domain/payload"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or edit the stored scan history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored scans, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, history, err := openHistory(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		records := history.List()
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSCANNED\tTYPE\tKIND\tDATA")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				rec.ID,
				rec.CreatedTime().Local().Format(time.DateTime),
				rec.Kind,
				payload.Classify(rec.Payload).Kind(),
				oneLine(rec.Payload, 48),
			)
		}
		return w.Flush()
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one stored scan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, history, err := openHistory(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if _, ok := history.Get(args[0]); !ok {
			return fmt.Errorf("scan %q not found", args[0])
		}
		if err := history.Remove(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete scan: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored scan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to clear history without --yes")
		}

		db, history, err := openHistory(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		n := history.Len()
		if err := history.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d scans\n", n)
		return nil
	},
}

func init() {
	historyClearCmd.Flags().BoolP("yes", "y", false, "Confirm deleting all history")
	historyCmd.AddCommand(historyListCmd, historyDeleteCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// oneLine collapses whitespace and shortens s to at most n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
