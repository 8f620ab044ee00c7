package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <words...>",
	Short: "Full-text search over questions, answers and tags",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		if !e.cfg.Index.Enabled {
			return errors.New("search index is disabled (index.enabled: false)")
		}

		reindex, _ := cmd.Flags().GetBool("reindex")
		if reindex {
			n, err := e.drill.Reindex(cmd.Context(), e.owner, e.store.SearchIndex())
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Reindexed %d questions\n", n)
		}
		if len(args) == 0 {
			if reindex {
				return nil
			}
			return errors.New("nothing to search for")
		}

		limit, _ := cmd.Flags().GetInt("limit")
		hits, err := e.store.SearchIndex().Search(cmd.Context(), e.owner, strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Fprintln(e.out, "No matches.")
			return nil
		}
		for _, h := range hits {
			fmt.Fprintf(e.out, "%s  %s %s\n", e.theme.Dim.Render(h.QuestionID), h.Text, renderTags(e, h.Tags))
			fmt.Fprintf(e.out, "    %s\n", e.theme.Dim.Render(h.Answer))
		}
		return nil
	}),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent answers",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		events, err := e.store.EventRepo().RecentReviews(cmd.Context(), e.owner, limit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(e.out, "No reviews yet.")
			return nil
		}
		for _, ev := range events {
			fmt.Fprintf(e.out, "%s  %-6s %s  %s -> %s  %s\n",
				e.theme.Dim.Render(ev.Timestamp.Local().Format(time.DateTime)),
				ev.Response,
				ev.QuestionID,
				ev.FromState, ev.ToState,
				e.theme.Dim.Render(fmt.Sprintf("interval %s, efactor %.2f", formatDays(ev.IntervalDays), ev.EFactor)),
			)
		}
		return nil
	}),
}

func init() {
	searchCmd.Flags().Int("limit", 10, "Maximum results")
	searchCmd.Flags().Bool("reindex", false, "Rebuild the index from the store first")

	historyCmd.Flags().Int("limit", 20, "Number of reviews to show")
}
