package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Pick, pin and list tags",
}

var tagRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick a tag to study, each tag equally likely",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		tp, err := e.selector.RandomTag(cmd.Context(), e.owner)
		if err != nil {
			return err
		}
		if tp == nil {
			fmt.Fprintln(e.out, "No tagged questions yet.")
			return nil
		}
		printTagProgress(e, *tp)
		return nil
	}),
}

var tagPinnedCmd = &cobra.Command{
	Use:   "pinned",
	Short: "Show progress for pinned tags",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		pinned, err := e.selector.PinnedTags(cmd.Context(), e.owner)
		if err != nil {
			return err
		}
		if len(pinned) == 0 {
			fmt.Fprintln(e.out, "No pinned tags. Pin one with: drill tag pin <tag>")
			return nil
		}
		for i, tp := range pinned {
			fmt.Fprintf(e.out, "%2d ", i)
			printTagProgress(e, tp)
		}
		return nil
	}),
}

var tagRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List tags by their newest question",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		tags, err := e.selector.RecentTags(cmd.Context(), e.owner)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(tags) > limit {
			tags = tags[:limit]
		}
		for _, t := range tags {
			fmt.Fprintln(e.out, e.theme.Tag.Render(t))
		}
		return nil
	}),
}

var tagPinCmd = &cobra.Command{
	Use:   "pin <tag>",
	Short: "Add a tag to the end of the pinned list",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		return e.pins.Pin(cmd.Context(), e.owner, args[0])
	}),
}

var tagUnpinCmd = &cobra.Command{
	Use:   "unpin <tag>",
	Short: "Remove a tag from the pinned list",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		return e.pins.Unpin(cmd.Context(), e.owner, args[0])
	}),
}

var tagMoveCmd = &cobra.Command{
	Use:   "move <tag> <position>",
	Short: "Move a pinned tag to a position (0 is first)",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("position %q is not a number", args[1])
		}
		return e.pins.MovePinned(cmd.Context(), e.owner, args[0], pos)
	}),
}

func init() {
	tagRecentCmd.Flags().Int("limit", 10, "Maximum tags to list (0 for all)")

	tagCmd.AddCommand(tagRandomCmd)
	tagCmd.AddCommand(tagPinnedCmd)
	tagCmd.AddCommand(tagRecentCmd)
	tagCmd.AddCommand(tagPinCmd)
	tagCmd.AddCommand(tagUnpinCmd)
	tagCmd.AddCommand(tagMoveCmd)
}
