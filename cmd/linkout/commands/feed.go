package commands

import (
	"github.com/spf13/cobra"

	"github.com/linkout/linkout/internal/ops"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse the feed and return recent posts",
	RunE:  runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().IntP("count", "n", ops.DefaultCount, "number of posts to retrieve")
}

func runFeed(cmd *cobra.Command, args []string) error {
	operations, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := operationContext()
	defer cancel()

	count, _ := cmd.Flags().GetInt("count")
	result, err := operations.BrowseFeed(ctx, ops.FeedRequest{Count: count})
	if err != nil {
		return err
	}
	return writeResult(result)
}
