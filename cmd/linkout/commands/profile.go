package commands

import (
	"github.com/spf13/cobra"

	"github.com/linkout/linkout/internal/ops"
)

var profileCmd = &cobra.Command{
	Use:   "profile <url>",
	Short: "Visit and extract data from a profile URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	operations, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := operationContext()
	defer cancel()

	result, err := operations.ViewProfile(ctx, ops.ProfileRequest{ProfileURL: args[0]})
	if err != nil {
		return err
	}
	return writeResult(result)
}
