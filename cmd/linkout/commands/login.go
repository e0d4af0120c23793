package commands

import (
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to LinkedIn and persist the session",
	Long: `Login opens the LinkedIn login page in a visible browser window.
LINKEDIN_USERNAME and LINKEDIN_PASSWORD (flags, env, or .env file)
prefill the form when set; completing the login, including any
verification step, is left to you. The resulting cookies are stored
encrypted and reused by every other command for 24 hours.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	operations, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := operationContext()
	defer cancel()

	result, err := operations.Login(ctx)
	if err != nil {
		return err
	}
	return writeResult(result)
}
