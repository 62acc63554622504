package commands

import (
	"github.com/spf13/cobra"

	"usertable/cmd/usertable/app"
	"usertable/cmd/usertable/server"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Serve the user table console",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, app.ModeConsole)
	},
}

func run(cmd *cobra.Command, mode app.Mode) error {
	a, err := app.New(resolveConfigPath(), mode)
	if err != nil {
		return err
	}

	ctx, stop := server.WithSignal(cmd.Context())
	defer stop()

	return a.Run(ctx)
}
