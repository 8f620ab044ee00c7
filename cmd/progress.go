package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/drill/internal/mastery"
	"github.com/abhisek/drill/internal/render"
)

const barWidth = 48

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show how much of your deck is mastered",
	Long: `Show how much of your deck is mastered.

Mastery is the share of questions that are not currently due. Without
--tag, the overall deck, favorites and every tag are listed.`,
	Args: cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		ctx := cmd.Context()
		tag, _ := cmd.Flags().GetString("tag")

		if tag != "" {
			tp, err := e.aggregator.TagProgress(ctx, e.owner, tag)
			if err != nil {
				return err
			}
			printTagProgress(e, tp)
			return nil
		}

		total, err := e.aggregator.TotalProgress(ctx, e.owner)
		if err != nil {
			return err
		}
		favs, err := e.aggregator.FavoriteProgress(ctx, e.owner)
		if err != nil {
			return err
		}

		fmt.Fprintln(e.out, e.theme.Title.Render("All questions"))
		printAggregate(e, total)
		fmt.Fprintln(e.out, e.theme.Title.Render("Favorites"))
		printAggregate(e, favs)

		tags, err := e.questions.DistinctTags(ctx, e.owner)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			return nil
		}
		fmt.Fprintln(e.out, e.theme.Title.Render("Tags"))
		for _, name := range tags {
			tp, err := e.aggregator.TagProgress(ctx, e.owner, name)
			if err != nil {
				return err
			}
			printTagProgress(e, tp)
		}
		return nil
	}),
}

func init() {
	progressCmd.Flags().String("tag", "", "Show a single tag")
}

func printAggregate(e *env, p mastery.AggregateProgress) {
	bar := render.ProgressBar{Percent: p.Percentage, Width: barWidth}
	fmt.Fprintf(e.out, "  %s  %s\n", bar.View(e.theme), e.theme.Due.Render(fmt.Sprintf("%d due", p.Count)))
}

func printTagProgress(e *env, tp mastery.TagProgress) {
	bar := render.ProgressBar{Label: fmt.Sprintf("%-16s", tp.Name), Percent: tp.Progress, Width: barWidth + 18}
	fmt.Fprintf(e.out, "  %s  %s\n", bar.View(e.theme), e.theme.Dim.Render(fmt.Sprintf("%d questions", tp.Count)))
}
