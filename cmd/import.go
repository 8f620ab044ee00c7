package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/drill/internal/drill"
	"github.com/abhisek/drill/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <dir|git-url>",
	Short: "Import questions from markdown decks",
	Long: `Import questions from markdown decks.

Every .md file under the directory is read. A card starts with a "Q:" line,
its answer with "A:", and an optional "T:" line lists comma separated tags.
A line of "---" ends a card. Git URLs are cloned, or pulled if already
present, under import.repos_dir. Cards already imported are skipped, so
running the same import twice is safe.`,
	Example: `  drill import ~/notes/decks
  drill import https://github.com/me/flashcards.git`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		// Cards are indexed in one synchronous pass afterwards; a large deck
		// would overflow the dispatcher's queue.
		creator := drill.NewService(e.questions, nil, drill.WithLogger(e.logger))
		im := importer.New(creator, e.questions, e.cfg.Import.ReposDir, e.logger)
		res, err := im.Import(cmd.Context(), e.owner, args[0])
		if err != nil {
			return err
		}
		if e.cfg.Index.Enabled && res.Created > 0 {
			if _, err := e.drill.Reindex(cmd.Context(), e.owner, e.store.SearchIndex()); err != nil {
				e.logger.Warn("reindex after import failed", "error", err)
			}
		}

		fmt.Fprintf(e.out, "%d files, %d cards: %s, %d already present\n",
			res.Files, res.Parsed,
			e.theme.Good.Render(fmt.Sprintf("%d new", res.Created)),
			res.Skipped,
		)
		for _, err := range res.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), e.theme.Bad.Render("error:"), err)
		}
		if len(res.Errors) > 0 {
			return fmt.Errorf("%d cards could not be imported", len(res.Errors))
		}
		return nil
	}),
}
