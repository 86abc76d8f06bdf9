package cli

import (
	"github.com/spf13/cobra"

	"supportrag/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat, voice webhook and MCP endpoints",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	a := app.New(cfg, app.NewRetrieval(cfg, deps), deps.Index)
	return a.Run(ctx)
}
