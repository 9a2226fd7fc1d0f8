package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		Long:  "persist.Open already runs every pending goose migration; this command exists to do that and report success without also starting the HTTP server.",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	cc.Logger.Info("migrations applied", "database_path", cc.Cfg.DatabasePath)

	return nil
}
