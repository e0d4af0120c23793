package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkout/linkout/internal/logger"
	"github.com/linkout/linkout/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP stdio tool server",
	Long: `Serve exposes every operation as an MCP tool over stdio JSON-RPC.
Stdout carries protocol traffic; logs go to stderr.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Duration("call-timeout", 6*time.Minute, "per tool-call timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	operations, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := operationContext()
	defer cancel()

	callTimeout, _ := cmd.Flags().GetDuration("call-timeout")
	srv := mcp.New(operations, callTimeout)

	logger.Info("mcp server listening on stdio")
	return srv.Serve(ctx, os.Stdin, os.Stdout)
}
