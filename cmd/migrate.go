package cmd

import (
	"blog-server/setup"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	Args:  cobra.NoArgs,
	Run:   runMigrate,
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	setup.InitLogger(cfg)

	conn := setup.MustInitDb(cfg)
	conn.Close()
}
