package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/drill/internal/deck"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a question",
	Example: `  drill add -q "Capital of France?" -a Paris -t geography,europe`,
	Args: cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		text, _ := cmd.Flags().GetString("question")
		answer, _ := cmd.Flags().GetString("answer")
		tags, _ := cmd.Flags().GetString("tags")
		favorite, _ := cmd.Flags().GetBool("favorite")

		q, err := e.drill.Create(cmd.Context(), deck.Draft{
			Owner:      e.owner,
			Text:       strings.TrimSpace(text),
			Answer:     strings.TrimSpace(answer),
			Tags:       deck.SplitTags(tags),
			IsFavorite: favorite,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Added %s\n", e.theme.Title.Render(q.ID))
		return nil
	}),
}

var answerCmd = &cobra.Command{
	Use:       "answer <id> <again|hard|good|easy>",
	Short:     "Record how well you recalled a question",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"again", "hard", "good", "easy"},
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		resp, err := deck.ParseResponse(args[1])
		if err != nil {
			return err
		}
		out, err := e.drill.Answer(cmd.Context(), e.owner, args[0], resp)
		if err != nil {
			return err
		}

		q := out.Question
		switch {
		case out.Graduated():
			fmt.Fprintln(e.out, e.theme.Good.Render("Graduated to review."))
		case q.State == deck.StateLearning && out.FromState == deck.StateReview:
			fmt.Fprintln(e.out, e.theme.Bad.Render("Back to learning."))
		}
		if q.State == deck.StateLearning {
			fmt.Fprintf(e.out, "Learning step %d, due again now.\n", q.LearningStep)
		} else {
			next := q.LastReviewed.Add(q.Interval())
			fmt.Fprintf(e.out, "Next review in %s (%s).\n",
				formatDays(q.IntervalDays), next.Local().Format(time.DateTime))
		}
		fmt.Fprintln(e.out, e.theme.Dim.Render(fmt.Sprintf("efactor %.2f, failed %d times", q.EFactor, q.TimesFailed)))
		return nil
	}),
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List questions due for review",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		limit, _ := cmd.Flags().GetInt("limit")
		showAnswer, _ := cmd.Flags().GetBool("show-answer")

		due, err := e.drill.Due(cmd.Context(), e.owner, tag)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Fprintln(e.out, "Nothing due. Come back later.")
			return nil
		}

		shown := due
		if limit > 0 && len(shown) > limit {
			shown = shown[:limit]
		}
		for _, q := range shown {
			fmt.Fprintf(e.out, "%s  %s %s\n", e.theme.Dim.Render(q.ID), q.Text, renderTags(e, q.Tags))
			if showAnswer {
				fmt.Fprintf(e.out, "    %s\n", e.theme.Dim.Render(q.Answer))
			}
		}
		if len(shown) < len(due) {
			fmt.Fprintf(e.out, "\n%d more due\n", len(due)-len(shown))
		}
		return nil
	}),
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Mark a question as a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		off, _ := cmd.Flags().GetBool("off")
		q, err := e.drill.SetFavorite(cmd.Context(), e.owner, args[0], !off)
		if err != nil {
			return err
		}
		if q.IsFavorite {
			fmt.Fprintf(e.out, "%s is a favorite\n", q.ID)
		} else {
			fmt.Fprintf(e.out, "%s is no longer a favorite\n", q.ID)
		}
		return nil
	}),
}

var retagCmd = &cobra.Command{
	Use:   "retag <id> <tag,tag,...>",
	Short: "Replace a question's tags",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		q, err := e.drill.Retag(cmd.Context(), e.owner, args[0], deck.SplitTags(args[1]))
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "%s %s\n", q.ID, renderTags(e, q.Tags))
		return nil
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a question",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		err := e.drill.Delete(cmd.Context(), e.owner, args[0])
		if errors.Is(err, deck.ErrNotFound) {
			return fmt.Errorf("no question %s", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Deleted %s\n", args[0])
		return nil
	}),
}

func init() {
	addCmd.Flags().StringP("question", "q", "", "Question text")
	addCmd.Flags().StringP("answer", "a", "", "Answer text")
	addCmd.Flags().StringP("tags", "t", "", "Comma separated tags")
	addCmd.Flags().BoolP("favorite", "f", false, "Mark as favorite")
	addCmd.MarkFlagRequired("question")
	addCmd.MarkFlagRequired("answer")

	dueCmd.Flags().String("tag", "", "Only questions with this tag")
	dueCmd.Flags().Int("limit", 20, "Maximum questions to list (0 for all)")
	dueCmd.Flags().Bool("show-answer", false, "Print answers too")

	favoriteCmd.Flags().Bool("off", false, "Remove the favorite mark instead")
}

func renderTags(e *env, tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return e.theme.Tag.Render("[" + strings.Join(tags, ", ") + "]")
}

func formatDays(days float64) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%.1f days", days)
}
