package commands

import (
	"github.com/spf13/cobra"

	"usertable/cmd/usertable/app"
)

var stubAPICmd = &cobra.Command{
	Use:   "stubapi",
	Short: "Serve a local users API with seeded data",
	Long: `stubapi answers GET /api/users, GET /api/users/:id and DELETE /api/users/:id
in the public users API's wire format. Point UPSTREAM_BASE_URL at it to run
the console offline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, app.ModeStubAPI)
	},
}
