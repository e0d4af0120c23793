package commands

import (
	"github.com/spf13/cobra"

	"github.com/linkout/linkout/internal/ops"
)

var postCmd = &cobra.Command{
	Use:   "post <url>",
	Short: "Read or interact with a post",
	Long: `Post opens a post permalink and reads it together with its rendered
comments. With --action like or --action comment it also performs the
interaction first.`,
	Args: cobra.ExactArgs(1),
	RunE: runPost,
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.Flags().String("action", "read", "action to perform: read, like, comment")
	postCmd.Flags().String("comment", "", "comment text (required with --action comment)")
}

func runPost(cmd *cobra.Command, args []string) error {
	operations, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := operationContext()
	defer cancel()

	action, _ := cmd.Flags().GetString("action")
	comment, _ := cmd.Flags().GetString("comment")

	result, err := operations.InteractPost(ctx, ops.PostRequest{
		PostURL: args[0],
		Action:  ops.PostAction(action),
		Comment: comment,
	})
	if err != nil {
		return err
	}
	return writeResult(result)
}
