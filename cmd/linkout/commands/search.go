package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkout/linkout/internal/ops"
)

var searchProfilesCmd = &cobra.Command{
	Use:   "search-profiles <query>",
	Short: "Search for profiles matching a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearchProfiles,
}

var searchPostsCmd = &cobra.Command{
	Use:   "search-posts <query>",
	Short: "Search for posts by keywords",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearchPosts,
}

func init() {
	rootCmd.AddCommand(searchProfilesCmd)
	rootCmd.AddCommand(searchPostsCmd)
	searchProfilesCmd.Flags().IntP("count", "n", ops.DefaultCount, "number of profiles to retrieve")
	searchPostsCmd.Flags().IntP("count", "n", ops.DefaultCount, "number of posts to retrieve")
}

func runSearchProfiles(cmd *cobra.Command, args []string) error {
	operations, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := operationContext()
	defer cancel()

	count, _ := cmd.Flags().GetInt("count")
	result, err := operations.SearchProfiles(ctx, ops.SearchRequest{
		Query: strings.Join(args, " "),
		Count: count,
	})
	if err != nil {
		return err
	}
	return writeResult(result)
}

func runSearchPosts(cmd *cobra.Command, args []string) error {
	operations, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := operationContext()
	defer cancel()

	count, _ := cmd.Flags().GetInt("count")
	result, err := operations.SearchPosts(ctx, ops.SearchRequest{
		Query: strings.Join(args, " "),
		Count: count,
	})
	if err != nil {
		return err
	}
	return writeResult(result)
}
